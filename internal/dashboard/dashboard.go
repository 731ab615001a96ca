// Package dashboard wires the role-specific views: the admin and patient
// doctor listings and the doctor appointment console. Each view re-reads
// the session on every render.
package dashboard

import (
	"context"
	"errors"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	"github.com/wolfman30/clinic-dashboard/internal/modal"
	"github.com/wolfman30/clinic-dashboard/internal/session"
	"github.com/wolfman30/clinic-dashboard/internal/ui"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

// DoctorSearch lists doctors.
type DoctorSearch interface {
	FilterDoctors(ctx context.Context, f gateway.DoctorFilter) ([]gateway.Doctor, error)
}

// AdminGateway is what the admin dashboard calls.
type AdminGateway interface {
	DoctorSearch
	DeleteDoctor(ctx context.Context, token string, id int64) gateway.Result
	DailyReport(ctx context.Context, token, date string) ([]gateway.DailyRow, error)
	TopDoctorByMonth(ctx context.Context, token string, month, year int) ([]gateway.TopDoctorRow, error)
	TopDoctorByYear(ctx context.Context, token string, year int) ([]gateway.TopDoctorRow, error)
}

// PatientGateway is what the patient dashboard calls.
type PatientGateway interface {
	DoctorSearch
	PatientProfile(ctx context.Context, token string) (*gateway.Patient, error)
}

// AppointmentGateway is what the doctor console calls.
type AppointmentGateway interface {
	AppointmentsByDate(ctx context.Context, token, date string, patientName *string) ([]gateway.Appointment, error)
	UpcomingAppointments(ctx context.Context, token string, patientName *string) ([]gateway.Appointment, error)
}

// NavItem is one header affordance.
type NavItem struct {
	Label string
	// Path is set for links.
	Path string
	// Form is set for buttons that open a dialog.
	Form modal.Kind
	// Logout marks the logout link.
	Logout bool
}

// Header returns the navigation for role.
func Header(role session.Role) []NavItem {
	switch role {
	case session.RoleAdmin:
		return []NavItem{
			{Label: "Add Doctor", Form: modal.KindAddDoctor},
			{Label: "Logout", Logout: true},
		}
	case session.RoleDoctor:
		return []NavItem{
			{Label: "Home", Path: ui.PathDoctorDashboard},
			{Label: "Logout", Logout: true},
		}
	case session.RolePatient:
		return []NavItem{
			{Label: "Login", Form: modal.KindPatientLogin},
			{Label: "Sign Up", Form: modal.KindPatientSignup},
		}
	case session.RoleLoggedPatient:
		return []NavItem{
			{Label: "Home", Path: ui.PathLoggedPatient},
			{Label: "Appointments", Path: ui.PathPatientAppointments},
			{Label: "Logout", Logout: true},
		}
	default:
		return nil
	}
}

// Guard validates the session once for a render pass. When the session is
// no longer valid it has been cleared; Guard alerts once and sends the host
// to the public page.
func Guard(ctx context.Context, sess *session.Session, host ui.Host) (session.Snapshot, bool) {
	snap, err := sess.Check(ctx)
	if errors.Is(err, session.ErrExpired) {
		host.Alert(session.ExpiredNotice)
		host.Navigate(ui.PathPublic)
		return snap, false
	}
	return snap, true
}

// Expire drops a session the server rejected and leaves the view.
func Expire(ctx context.Context, sess *session.Session, host ui.Host, logger *logging.Logger) {
	if err := sess.Clear(ctx); err != nil {
		logger.Warn("failed to clear rejected session", "error", err)
	}
	host.Alert(session.ExpiredNotice)
	host.Navigate(ui.PathPublic)
}

// Logout ends the session. Patients land back on the public patient
// dashboard; everyone else on the landing page.
func Logout(ctx context.Context, sess *session.Session, host ui.Host) error {
	role := sess.Role()
	if err := sess.Clear(ctx); err != nil {
		return err
	}
	if role == session.RoleLoggedPatient {
		if err := sess.SetRole(ctx, session.RolePatient); err != nil {
			return err
		}
		host.Navigate(ui.PathPatientDashboard)
		return nil
	}
	host.Navigate(ui.PathPublic)
	return nil
}
