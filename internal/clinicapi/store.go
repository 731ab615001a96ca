package clinicapi

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
)

var (
	ErrNotFound     = errors.New("clinicapi: not found")
	ErrConflict     = errors.New("clinicapi: already exists")
	ErrUnavailable  = errors.New("clinicapi: slot unavailable")
	ErrInvalidInput = errors.New("clinicapi: invalid input")
)

// DoctorRecord is a stored doctor with its login password.
type DoctorRecord struct {
	gateway.Doctor
	Password string
}

// PatientRecord is a stored patient with its login password.
type PatientRecord struct {
	gateway.Patient
	Password string
}

// AppointmentRecord is a stored booking.
type AppointmentRecord struct {
	ID        int64
	DoctorID  int64
	PatientID int64
	At        time.Time
	Status    gateway.AppointmentStatus
}

// Store keeps the clinic in memory.
type Store struct {
	mu           sync.RWMutex
	admins       map[string]string
	doctors      map[int64]*DoctorRecord
	patients     map[int64]*PatientRecord
	appointments map[int64]*AppointmentRecord
	nextID       int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		admins:       map[string]string{},
		doctors:      map[int64]*DoctorRecord{},
		patients:     map[int64]*PatientRecord{},
		appointments: map[int64]*AppointmentRecord{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// PutAdmin creates or replaces an admin account.
func (s *Store) PutAdmin(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[username] = password
}

// CheckAdmin reports whether the admin credentials match.
func (s *Store) CheckAdmin(username, password string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.admins[username]
	return ok && stored == password
}

// AddDoctor stores a new doctor. Emails are unique.
func (s *Store) AddDoctor(in gateway.DoctorInput) (gateway.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.doctors {
		if strings.EqualFold(d.Email, in.Email) {
			return gateway.Doctor{}, ErrConflict
		}
	}
	rec := &DoctorRecord{
		Doctor: gateway.Doctor{
			ID:             s.id(),
			Name:           in.Name,
			Specialty:      in.Specialty,
			Email:          in.Email,
			Phone:          in.Phone,
			AvailableTimes: slices.Clone(in.AvailableTimes),
		},
		Password: in.Password,
	}
	s.doctors[rec.ID] = rec
	return rec.Doctor, nil
}

// UpdateDoctor replaces the profile fields of an existing doctor. The
// password is kept.
func (s *Store) UpdateDoctor(in gateway.DoctorInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.doctors[in.ID]
	if !ok {
		return ErrNotFound
	}
	rec.Name = in.Name
	rec.Specialty = in.Specialty
	rec.Email = in.Email
	rec.Phone = in.Phone
	rec.AvailableTimes = slices.Clone(in.AvailableTimes)
	return nil
}

// DeleteDoctor removes a doctor and its appointments.
func (s *Store) DeleteDoctor(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doctors[id]; !ok {
		return ErrNotFound
	}
	delete(s.doctors, id)
	for aid, a := range s.appointments {
		if a.DoctorID == id {
			delete(s.appointments, aid)
		}
	}
	return nil
}

// DoctorFilter narrows ListDoctors. Empty fields do not constrain.
type DoctorFilter struct {
	Name      string
	Time      string
	Specialty string
}

// ListDoctors returns matching doctors ordered by id. Name matches as a
// case-insensitive substring. Time is either "AM"/"PM", matching any slot
// starting in that half of the day, or an exact slot.
func (s *Store) ListDoctors(f DoctorFilter) []gateway.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]gateway.Doctor, 0, len(s.doctors))
	for _, d := range s.doctors {
		if f.Name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Specialty != "" && !strings.EqualFold(d.Specialty, f.Specialty) {
			continue
		}
		if f.Time != "" && !offersTime(d.AvailableTimes, f.Time) {
			continue
		}
		doc := d.Doctor
		doc.AvailableTimes = slices.Clone(d.AvailableTimes)
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func offersTime(slots []string, want string) bool {
	half := strings.ToUpper(want)
	for _, slot := range slots {
		if half == "AM" || half == "PM" {
			start, err := time.Parse("15:04", strings.SplitN(slot, "-", 2)[0])
			if err != nil {
				continue
			}
			if (start.Hour() < 12) == (half == "AM") {
				return true
			}
			continue
		}
		if slot == want {
			return true
		}
	}
	return false
}

// DoctorLogin returns the doctor owning the credentials.
func (s *Store) DoctorLogin(email, password string) (gateway.Doctor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.doctors {
		if strings.EqualFold(d.Email, email) && d.Password == password {
			return d.Doctor, true
		}
	}
	return gateway.Doctor{}, false
}

// AddPatient registers a patient. Email and phone are unique.
func (s *Store) AddPatient(in gateway.SignupRequest) (gateway.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.patients {
		if strings.EqualFold(p.Email, in.Email) || (in.Phone != "" && p.Phone == in.Phone) {
			return gateway.Patient{}, ErrConflict
		}
	}
	rec := &PatientRecord{
		Patient: gateway.Patient{
			ID:      s.id(),
			Name:    in.Name,
			Email:   in.Email,
			Phone:   in.Phone,
			Address: in.Address,
		},
		Password: in.Password,
	}
	s.patients[rec.ID] = rec
	return rec.Patient, nil
}

// PatientLogin returns the patient owning the credentials.
func (s *Store) PatientLogin(email, password string) (gateway.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.patients {
		if strings.EqualFold(p.Email, email) && p.Password == password {
			return p.Patient, true
		}
	}
	return gateway.Patient{}, false
}

// Patient returns the patient with id.
func (s *Store) Patient(id int64) (gateway.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok {
		return gateway.Patient{}, false
	}
	return p.Patient, true
}

// Book stores an appointment if the doctor offers the slot starting at at
// and nobody holds it yet. An id of zero creates; otherwise the existing
// appointment is moved.
func (s *Store) Book(id, doctorID, patientID int64, at time.Time, status gateway.AppointmentStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.doctors[doctorID]
	if !ok {
		return 0, ErrInvalidInput
	}
	if _, ok := s.patients[patientID]; !ok {
		return 0, ErrInvalidInput
	}
	if !offersSlotAt(doc.AvailableTimes, at) {
		return 0, ErrUnavailable
	}
	for _, a := range s.appointments {
		if a.ID != id && a.DoctorID == doctorID && a.At.Equal(at) {
			return 0, ErrUnavailable
		}
	}
	if id != 0 {
		a, ok := s.appointments[id]
		if !ok || a.PatientID != patientID {
			return 0, ErrNotFound
		}
		a.DoctorID, a.At, a.Status = doctorID, at, status
		return id, nil
	}
	rec := &AppointmentRecord{ID: s.id(), DoctorID: doctorID, PatientID: patientID, At: at, Status: status}
	s.appointments[rec.ID] = rec
	return rec.ID, nil
}

func offersSlotAt(slots []string, at time.Time) bool {
	want := at.Format("15:04")
	for _, slot := range slots {
		if strings.SplitN(slot, "-", 2)[0] == want {
			return true
		}
	}
	return false
}

// DoctorAppointments lists the doctor's appointments accepted by keep,
// ordered by time. patientName narrows by case-insensitive substring.
func (s *Store) DoctorAppointments(doctorID int64, patientName string, keep func(time.Time) bool) []gateway.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []gateway.Appointment{}
	for _, a := range s.appointments {
		if a.DoctorID != doctorID || !keep(a.At) {
			continue
		}
		p := s.patients[a.PatientID]
		if p == nil {
			continue
		}
		if patientName != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(patientName)) {
			continue
		}
		out = append(out, gateway.Appointment{
			ID:              a.ID,
			DoctorID:        a.DoctorID,
			PatientID:       a.PatientID,
			PatientName:     p.Name,
			PatientPhone:    p.Phone,
			PatientEmail:    p.Email,
			AppointmentTime: gateway.LocalDateTime{Time: a.At},
			Status:          a.Status,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentTime.Before(out[j].AppointmentTime.Time) })
	return out
}

// DailyRows lists every appointment on day across doctors, ordered by time.
func (s *Store) DailyRows(day time.Time) []gateway.DailyRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []gateway.DailyRow{}
	for _, a := range s.appointments {
		if !sameDay(a.At, day) {
			continue
		}
		row := gateway.DailyRow{AppointmentTime: gateway.LocalDateTime{Time: a.At}, Status: a.Status}
		if d := s.doctors[a.DoctorID]; d != nil {
			row.DoctorName = d.Name
		}
		if p := s.patients[a.PatientID]; p != nil {
			row.PatientName, row.PatientPhone = p.Name, p.Phone
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppointmentTime.Equal(out[j].AppointmentTime.Time) {
			return out[i].AppointmentTime.Before(out[j].AppointmentTime.Time)
		}
		return out[i].DoctorName < out[j].DoctorName
	})
	return out
}

// TopDoctors ranks doctors by distinct patients seen in appointments
// accepted by keep, highest first.
func (s *Store) TopDoctors(keep func(time.Time) bool) []gateway.TopDoctorRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[int64]map[int64]struct{}{}
	for _, a := range s.appointments {
		if !keep(a.At) {
			continue
		}
		if seen[a.DoctorID] == nil {
			seen[a.DoctorID] = map[int64]struct{}{}
		}
		seen[a.DoctorID][a.PatientID] = struct{}{}
	}
	out := make([]gateway.TopDoctorRow, 0, len(seen))
	for id, patients := range seen {
		row := gateway.TopDoctorRow{DoctorID: id, PatientsSeen: int64(len(patients))}
		if d := s.doctors[id]; d != nil {
			row.DoctorName = d.Name
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PatientsSeen != out[j].PatientsSeen {
			return out[i].PatientsSeen > out[j].PatientsSeen
		}
		return out[i].DoctorID < out[j].DoctorID
	})
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
