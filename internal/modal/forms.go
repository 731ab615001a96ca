// Package modal runs the one-at-a-time dialog forms: logins, signup, doctor
// add and update, and the booking overlay.
package modal

import (
	"github.com/wolfman30/clinic-dashboard/internal/gateway"
)

// Kind names a form variant.
type Kind string

const (
	KindAddDoctor       Kind = "addDoctor"
	KindUpdateDoctor    Kind = "updateDoctor"
	KindPatientLogin    Kind = "patientLogin"
	KindPatientSignup   Kind = "patientSignup"
	KindAdminLogin      Kind = "adminLogin"
	KindDoctorLogin     Kind = "doctorLogin"
	KindBookAppointment Kind = "bookAppointment"
)

// Form is one of the dialog variants below. The set is closed.
type Form interface {
	Kind() Kind
	Title() string
	isForm()
}

// AddDoctor creates a doctor. Admin only.
type AddDoctor struct{}

// UpdateDoctor edits Doctor. The id sent to the backend always comes from
// Doctor, never from user input.
type UpdateDoctor struct {
	Doctor gateway.Doctor
}

// PatientLogin signs a patient in.
type PatientLogin struct{}

// PatientSignup registers a patient.
type PatientSignup struct{}

// AdminLogin signs an admin in.
type AdminLogin struct{}

// DoctorLogin signs a doctor in.
type DoctorLogin struct{}

// BookAppointment is the booking overlay. Patient is the server-confirmed
// profile for the current token.
type BookAppointment struct {
	Doctor  gateway.Doctor
	Patient gateway.Patient
}

func (AddDoctor) Kind() Kind       { return KindAddDoctor }
func (UpdateDoctor) Kind() Kind    { return KindUpdateDoctor }
func (PatientLogin) Kind() Kind    { return KindPatientLogin }
func (PatientSignup) Kind() Kind   { return KindPatientSignup }
func (AdminLogin) Kind() Kind      { return KindAdminLogin }
func (DoctorLogin) Kind() Kind     { return KindDoctorLogin }
func (BookAppointment) Kind() Kind { return KindBookAppointment }

func (AddDoctor) Title() string       { return "Add Doctor" }
func (UpdateDoctor) Title() string    { return "Update Doctor" }
func (PatientLogin) Title() string    { return "Patient Login" }
func (PatientSignup) Title() string   { return "Patient Signup" }
func (AdminLogin) Title() string      { return "Admin Login" }
func (DoctorLogin) Title() string     { return "Doctor Login" }
func (BookAppointment) Title() string { return "Book Appointment" }

func (AddDoctor) isForm()       {}
func (UpdateDoctor) isForm()    {}
func (PatientLogin) isForm()    {}
func (PatientSignup) isForm()   {}
func (AdminLogin) isForm()      {}
func (DoctorLogin) isForm()     {}
func (BookAppointment) isForm() {}

// Choice is a selectable option with the value sent to the backend and the
// label shown to the user.
type Choice struct {
	Value string
	Label string
}

// Specialties are the specialization choices offered by the doctor forms
// and the specialty filter.
var Specialties = []Choice{
	{"Cardiologist", "Cardiologist"},
	{"Dermatologist", "Dermatologist"},
	{"Neurologist", "Neurologist"},
	{"Pediatrician", "Pediatrician"},
	{"Orthopedic", "Orthopedic"},
	{"Gynecologist", "Gynecologist"},
	{"Psychiatrist", "Psychiatrist"},
	{"Dentist", "Dentist"},
	{"Ophthalmologist", "Ophthalmologist"},
	{"ENT", "ENT Specialist"},
	{"Urologist", "Urologist"},
	{"Oncologist", "Oncologist"},
	{"Gastroenterologist", "Gastroenterologist"},
	{"General", "General Physician"},
}

// Slots are the hourly availability windows a doctor can offer.
var Slots = []Choice{
	{"09:00-10:00", "9:00 AM - 10:00 AM"},
	{"10:00-11:00", "10:00 AM - 11:00 AM"},
	{"11:00-12:00", "11:00 AM - 12:00 PM"},
	{"12:00-13:00", "12:00 PM - 1:00 PM"},
	{"13:00-14:00", "1:00 PM - 2:00 PM"},
	{"14:00-15:00", "2:00 PM - 3:00 PM"},
	{"15:00-16:00", "3:00 PM - 4:00 PM"},
	{"16:00-17:00", "4:00 PM - 5:00 PM"},
}

// IsSpecialty reports whether value is one of Specialties.
func IsSpecialty(value string) bool { return hasChoice(Specialties, value) }

// IsSlot reports whether value is one of Slots.
func IsSlot(value string) bool { return hasChoice(Slots, value) }

func hasChoice(choices []Choice, value string) bool {
	for _, c := range choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

// Input holds the values entered into the open form. Each variant reads
// only the fields it shows.
type Input struct {
	Username       string
	Name           string
	Email          string
	Password       string
	Phone          string
	Address        string
	Specialty      string
	AvailableTimes []string
	// Date (YYYY-MM-DD) and Slot pick the booked appointment.
	Date string
	Slot string
}

// Prefill returns the input a form opens with. Only UpdateDoctor carries
// existing values.
func Prefill(f Form) Input {
	if u, ok := f.(UpdateDoctor); ok {
		return Input{
			Name:           u.Doctor.Name,
			Email:          u.Doctor.Email,
			Phone:          u.Doctor.Phone,
			Specialty:      u.Doctor.Specialty,
			AvailableTimes: append([]string(nil), u.Doctor.AvailableTimes...),
		}
	}
	return Input{}
}
