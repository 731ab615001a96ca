package clinicapi

import (
	"time"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
)

// Demo credentials created by Seed.
const (
	DemoAdminUser     = "admin"
	DemoAdminPassword = "admin123"
	DemoPassword      = "password"
)

var demoDoctors = []gateway.DoctorInput{
	{Name: "Dr. Alice Brown", Specialty: "Cardiology", Email: "alice@clinic.test", Phone: "555-0101", AvailableTimes: []string{"09:00-10:00", "10:00-11:00", "14:00-15:00"}},
	{Name: "Dr. John Smith", Specialty: "Dermatology", Email: "smith@clinic.test", Phone: "555-0102", AvailableTimes: []string{"11:00-12:00", "13:00-14:00"}},
	{Name: "Dr. Priya Patel", Specialty: "Pediatrics", Email: "patel@clinic.test", Phone: "555-0103", AvailableTimes: []string{"15:00-16:00", "16:00-17:00"}},
	{Name: "Dr. Omar Haddad", Specialty: "ENT", Email: "haddad@clinic.test", Phone: "555-0104", AvailableTimes: []string{"09:00-10:00", "16:00-17:00"}},
}

var demoPatients = []gateway.SignupRequest{
	{Name: "Maria Lopez", Email: "maria@patient.test", Phone: "555-0201", Address: "12 Elm St"},
	{Name: "Ken Ito", Email: "ken@patient.test", Phone: "555-0202", Address: "7 Oak Ave"},
}

// Seed fills store with demo accounts and a few appointments around today.
// Every demo doctor and patient uses DemoPassword.
func Seed(store *Store, today time.Time) error {
	store.PutAdmin(DemoAdminUser, DemoAdminPassword)

	doctors := make([]gateway.Doctor, 0, len(demoDoctors))
	for _, in := range demoDoctors {
		in.Password = DemoPassword
		doc, err := store.AddDoctor(in)
		if err != nil {
			return err
		}
		doctors = append(doctors, doc)
	}
	patients := make([]gateway.Patient, 0, len(demoPatients))
	for _, in := range demoPatients {
		in.Password = DemoPassword
		p, err := store.AddPatient(in)
		if err != nil {
			return err
		}
		patients = append(patients, p)
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	bookings := []struct {
		doctor, patient int
		at              time.Time
		status          gateway.AppointmentStatus
	}{
		{0, 0, day.Add(9 * time.Hour), gateway.StatusScheduled},
		{0, 1, day.Add(14 * time.Hour), gateway.StatusScheduled},
		{1, 0, day.AddDate(0, 0, 1).Add(11 * time.Hour), gateway.StatusScheduled},
		{0, 1, day.AddDate(0, 0, -1).Add(10 * time.Hour), gateway.StatusCompleted},
	}
	for _, b := range bookings {
		if _, err := store.Book(0, doctors[b.doctor].ID, patients[b.patient].ID, b.at, b.status); err != nil {
			return err
		}
	}
	return nil
}
