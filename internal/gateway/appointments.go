package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const dateLayout = "2006-01-02"

type appointmentsEnvelope struct {
	Appointments []Appointment `json:"appointments"`
}

// AppointmentsByDate lists the doctor's appointments on date (YYYY-MM-DD),
// optionally narrowed by patient name. Requires a doctor token.
func (c *Client) AppointmentsByDate(ctx context.Context, token, date string, patientName *string) ([]Appointment, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return []Appointment{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	name, err := sentinelSegment("patientName", patientName)
	if err != nil {
		return []Appointment{}, err
	}
	path := fmt.Sprintf("/appointments/%s/%s/%s", date, name, seg(token))
	return c.fetchAppointments(ctx, "appointments_by_date", path, token)
}

// UpcomingAppointments lists the doctor's appointments from now on. The
// patientName parameter is sent only when present.
func (c *Client) UpcomingAppointments(ctx context.Context, token string, patientName *string) ([]Appointment, error) {
	path := "/appointments/upcoming/" + seg(token)
	if patientName != nil {
		path += "?" + url.Values{"patientName": {*patientName}}.Encode()
	}
	return c.fetchAppointments(ctx, "appointments_upcoming", path, token)
}

func (c *Client) fetchAppointments(ctx context.Context, op, path, token string) ([]Appointment, error) {
	var env appointmentsEnvelope
	if err := c.read(ctx, op, path, token, &env); err != nil {
		return []Appointment{}, err
	}
	if env.Appointments == nil {
		return []Appointment{}, nil
	}
	return env.Appointments, nil
}

// BookAppointment books a slot for the patient owning token.
func (c *Client) BookAppointment(ctx context.Context, token string, req BookingRequest) Result {
	req.ID = 0
	return c.mutate(ctx, "book_appointment", http.MethodPost, "/appointments/"+seg(token), token, req)
}

// UpdateAppointment reschedules an existing appointment identified by req.ID.
func (c *Client) UpdateAppointment(ctx context.Context, token string, req BookingRequest) Result {
	if req.ID == 0 {
		return failure("appointment id is required for an update")
	}
	return c.mutate(ctx, "update_appointment", http.MethodPut, "/appointments/"+seg(token), token, req)
}
