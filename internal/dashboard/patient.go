package dashboard

import (
	"context"
	"errors"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	"github.com/wolfman30/clinic-dashboard/internal/modal"
	"github.com/wolfman30/clinic-dashboard/internal/search"
	"github.com/wolfman30/clinic-dashboard/internal/session"
	"github.com/wolfman30/clinic-dashboard/internal/ui"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

// Patient dashboard notices.
const (
	MsgLoginFirst      = "Patient need to login first."
	MsgLoginForBooking = "Login is required for booking appointment"
	MsgProfileFailed   = "Failed to fetch patient details."
)

// Patient is the doctor listing seen by patients, signed in or not.
type Patient struct {
	gw      PatientGateway
	sess    *session.Session
	host    ui.Host
	forms   *modal.Workflow
	doctors *doctorListing
	logger  *logging.Logger
}

// NewPatient builds the patient dashboard over the doctors region.
func NewPatient(gw PatientGateway, sess *session.Session, host ui.Host, forms *modal.Workflow, doctors *ui.Region, opts Options) *Patient {
	logger := opts.logger("patient_dashboard")
	return &Patient{
		gw:      gw,
		sess:    sess,
		host:    host,
		forms:   forms,
		doctors: newDoctorListing(gw, sess, doctors, opts, logger),
		logger:  logger,
	}
}

// Render checks the session and loads the listing.
func (p *Patient) Render(ctx context.Context) bool {
	if _, ok := Guard(ctx, p.sess, p.host); !ok {
		return false
	}
	return p.doctors.load(ctx)
}

// Search exposes the filter controls.
func (p *Patient) Search() *search.Controller { return p.doctors.search }

// BookNow starts booking with the listed doctor. It reports whether the
// booking overlay opened. Anonymous patients are prompted to log in without
// any backend call; signed-in patients have their profile confirmed by the
// server first.
func (p *Patient) BookNow(ctx context.Context, doctorID int64) bool {
	snap := p.sess.Snapshot()
	switch snap.Role {
	case session.RolePatient:
		p.host.Alert(MsgLoginFirst)
		p.forms.Open(modal.PatientLogin{})
		return false
	case session.RoleLoggedPatient:
	default:
		p.logger.Debug("book now ignored for role", "role", snap.Role)
		return false
	}

	if !snap.HasToken() {
		p.host.Alert(MsgLoginForBooking)
		if err := p.sess.SetRole(ctx, session.RolePatient); err != nil {
			p.logger.Warn("failed to reset role", "error", err)
		}
		p.host.Navigate(ui.PathPatientDashboard)
		return false
	}

	doctor, ok := p.doctors.doctor(doctorID)
	if !ok {
		p.logger.Warn("book now for unlisted doctor", "doctor_id", doctorID)
		return false
	}

	profile, err := p.gw.PatientProfile(ctx, snap.Token)
	if errors.Is(err, gateway.ErrSessionExpired) {
		Expire(ctx, p.sess, p.host, p.logger)
		return false
	}
	if err != nil || profile == nil {
		p.logger.Warn("patient profile unavailable", "error", err)
		p.host.Alert(MsgProfileFailed)
		return false
	}

	p.forms.Open(modal.BookAppointment{Doctor: doctor, Patient: *profile})
	return true
}
