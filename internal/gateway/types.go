package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Doctor is a doctor record as listed by the backend.
type Doctor struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone,omitempty"`
	AvailableTimes []string `json:"availableTimes"`
}

// DoctorInput is the body of add and update requests. Password is only sent
// on add.
type DoctorInput struct {
	ID             int64    `json:"id,omitempty"`
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	Email          string   `json:"email"`
	Password       string   `json:"password,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	AvailableTimes []string `json:"availableTimes"`
}

// Patient is the profile returned for a patient token.
type Patient struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// AppointmentStatus mirrors the backend's integer status.
type AppointmentStatus int

const (
	StatusScheduled AppointmentStatus = 0
	StatusCompleted AppointmentStatus = 1
)

func (s AppointmentStatus) String() string {
	switch s {
	case StatusScheduled:
		return "Scheduled"
	case StatusCompleted:
		return "Completed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Appointment is the flattened appointment shape the doctor console lists.
type Appointment struct {
	ID              int64             `json:"id"`
	DoctorID        int64             `json:"doctorId"`
	PatientID       int64             `json:"patientId"`
	PatientName     string            `json:"patientName"`
	PatientPhone    string            `json:"patientPhone"`
	PatientEmail    string            `json:"patientEmail"`
	AppointmentTime LocalDateTime     `json:"appointmentTime"`
	Status          AppointmentStatus `json:"status"`
}

// Ref points at a record by id inside a request body.
type Ref struct {
	ID int64 `json:"id"`
}

// BookingRequest books or reschedules an appointment. ID is set only on
// updates.
type BookingRequest struct {
	ID              int64             `json:"id,omitempty"`
	Doctor          Ref               `json:"doctor"`
	Patient         Ref               `json:"patient"`
	AppointmentTime LocalDateTime     `json:"appointmentTime"`
	Status          AppointmentStatus `json:"status"`
}

// AdminCredentials is the admin login body.
type AdminCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Credentials is the doctor and patient login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest registers a patient.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// DailyRow is one line of the daily appointments report.
type DailyRow struct {
	DoctorName      string            `json:"doctorName"`
	AppointmentTime LocalDateTime     `json:"appointmentTime"`
	Status          AppointmentStatus `json:"status"`
	PatientName     string            `json:"patientName"`
	PatientPhone    string            `json:"patientPhone"`
}

// TopDoctorRow is one line of the top doctor report.
type TopDoctorRow struct {
	DoctorID     int64  `json:"doctorId"`
	DoctorName   string `json:"doctorName"`
	PatientsSeen int64  `json:"patientsSeen"`
}

// LocalDateTime is a wall-clock timestamp without zone, the way the backend
// serialises appointment times ("2024-03-01T09:00:00").
type LocalDateTime struct {
	time.Time
}

const localDateTimeLayout = "2006-01-02T15:04:05"

var localDateTimeLayouts = []string{
	localDateTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// ParseLocalDateTime accepts the layouts the backend has been seen to emit.
func ParseLocalDateTime(value string) (LocalDateTime, error) {
	value = strings.TrimSpace(value)
	for _, layout := range localDateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return LocalDateTime{Time: t}, nil
		}
	}
	return LocalDateTime{}, fmt.Errorf("gateway: unrecognised date-time %q", value)
}

func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(localDateTimeLayout))
}

func (t *LocalDateTime) UnmarshalJSON(data []byte) error {
	var raw string
	if string(data) == "null" {
		*t = LocalDateTime{}
		return nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("gateway: date-time must be a string: %w", err)
	}
	if raw == "" {
		*t = LocalDateTime{}
		return nil
	}
	parsed, err := ParseLocalDateTime(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Display formats the timestamp the way tables show it, or "" when unset.
func (t LocalDateTime) Display() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
