package modal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	"github.com/wolfman30/clinic-dashboard/internal/session"
	"github.com/wolfman30/clinic-dashboard/internal/ui"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

// Notices shown by the workflow.
const (
	MsgRequiredFields = "Please fill in all required fields"
	MsgTokenMissing   = "Token expired or not found. Please log in again."
	MsgNoForm         = "No form is open."
	MsgInvalidDate    = "Pick a valid date"
	MsgInvalidSlot    = "Pick one of the doctor's available times"
	MsgDoctorAdded    = "Doctor added successfully"
	MsgDoctorUpdated  = "Doctor updated successfully"
	MsgBooked         = "Appointment booked successfully"
	MsgSignedUp       = "Signup successful. Please log in."
)

// Gateway is the subset of the backend client the forms submit to.
type Gateway interface {
	AdminLogin(ctx context.Context, creds gateway.AdminCredentials) gateway.Result
	DoctorLogin(ctx context.Context, creds gateway.Credentials) gateway.Result
	PatientLogin(ctx context.Context, creds gateway.Credentials) gateway.Result
	PatientSignup(ctx context.Context, req gateway.SignupRequest) gateway.Result
	AddDoctor(ctx context.Context, token string, doctor gateway.DoctorInput) gateway.Result
	UpdateDoctor(ctx context.Context, token string, doctor gateway.DoctorInput) gateway.Result
	BookAppointment(ctx context.Context, token string, req gateway.BookingRequest) gateway.Result
}

// Outcome is what a submit produced. A successful submit closes the form.
type Outcome struct {
	Success bool
	Message string
	// Navigate is the view the host was sent to, if any.
	Navigate string
	// Expired reports that the session was rejected and has been cleared.
	Expired bool
}

// Workflow holds at most one open form.
type Workflow struct {
	mu      sync.Mutex
	current Form
	gen     uint64

	gw      Gateway
	sess    *session.Session
	host    ui.Host
	refresh func(context.Context)
	logger  *logging.Logger
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithRefresh sets the hook run after a successful add, update or booking.
func WithRefresh(fn func(context.Context)) Option {
	return func(w *Workflow) { w.refresh = fn }
}

// WithLogger sets the workflow logger.
func WithLogger(logger *logging.Logger) Option {
	return func(w *Workflow) { w.logger = logger }
}

// New creates a closed workflow.
func New(gw Gateway, sess *session.Session, host ui.Host, opts ...Option) *Workflow {
	w := &Workflow{gw: gw, sess: sess, host: host, logger: logging.Default()}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Component("modal")
	return w
}

// Open shows f, replacing whatever form was open.
func (w *Workflow) Open(f Form) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = f
	w.gen++
	w.logger.Debug("form opened", "form", f.Kind())
}

// Current returns the open form.
func (w *Workflow) Current() (Form, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current, w.current != nil
}

// Close dismisses the open form, if any.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = nil
	w.gen++
}

// closeIf closes the form only if no other form was opened since gen.
func (w *Workflow) closeIf(gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen == gen {
		w.current = nil
		w.gen++
	}
}

// Submit validates in against the open form and sends it. Failures leave
// the form open and alert the message; success closes it.
func (w *Workflow) Submit(ctx context.Context, in Input) Outcome {
	w.mu.Lock()
	form, gen := w.current, w.gen
	w.mu.Unlock()
	if form == nil {
		return Outcome{Message: MsgNoForm}
	}

	out := w.dispatch(ctx, form, in)
	w.logger.Info("form submitted", "form", form.Kind(), "success", out.Success, "expired", out.Expired)

	if out.Success || out.Expired {
		w.closeIf(gen)
	}
	if out.Message != "" {
		w.host.Alert(out.Message)
	}
	if out.Navigate != "" {
		w.host.Navigate(out.Navigate)
	}
	return out
}

func (w *Workflow) dispatch(ctx context.Context, form Form, in Input) Outcome {
	switch f := form.(type) {
	case AddDoctor:
		return w.addDoctor(ctx, in)
	case UpdateDoctor:
		return w.updateDoctor(ctx, f, in)
	case PatientLogin:
		if !filled(in.Email, in.Password) {
			return Outcome{Message: MsgRequiredFields}
		}
		res := w.gw.PatientLogin(ctx, gateway.Credentials{Email: trim(in.Email), Password: in.Password})
		return w.finishLogin(ctx, res, session.RoleLoggedPatient, ui.PathLoggedPatient)
	case PatientSignup:
		return w.signup(ctx, in)
	case AdminLogin:
		if !filled(in.Username, in.Password) {
			return Outcome{Message: MsgRequiredFields}
		}
		res := w.gw.AdminLogin(ctx, gateway.AdminCredentials{Username: trim(in.Username), Password: in.Password})
		return w.finishLogin(ctx, res, session.RoleAdmin, ui.PathAdminDashboard)
	case DoctorLogin:
		if !filled(in.Email, in.Password) {
			return Outcome{Message: MsgRequiredFields}
		}
		res := w.gw.DoctorLogin(ctx, gateway.Credentials{Email: trim(in.Email), Password: in.Password})
		return w.finishLogin(ctx, res, session.RoleDoctor, ui.PathDoctorDashboard)
	case BookAppointment:
		return w.book(ctx, f, in)
	default:
		return Outcome{Message: fmt.Sprintf("unsupported form %T", form)}
	}
}

func (w *Workflow) finishLogin(ctx context.Context, res gateway.Result, role session.Role, path string) Outcome {
	if !res.Success {
		return Outcome{Message: orDefault(res.Message, gateway.MsgInvalidCredentials)}
	}
	if err := w.sess.SetSession(ctx, role, res.Token); err != nil {
		w.logger.Error("failed to persist session", "role", role, "error", err)
		return Outcome{Message: gateway.MsgGeneric}
	}
	return Outcome{Success: true, Navigate: path}
}

func (w *Workflow) signup(ctx context.Context, in Input) Outcome {
	if !filled(in.Name, in.Email, in.Password, in.Phone) {
		return Outcome{Message: MsgRequiredFields}
	}
	res := w.gw.PatientSignup(ctx, gateway.SignupRequest{
		Name:     trim(in.Name),
		Email:    trim(in.Email),
		Password: in.Password,
		Phone:    trim(in.Phone),
		Address:  trim(in.Address),
	})
	if !res.Success {
		return Outcome{Message: orDefault(res.Message, gateway.MsgGeneric)}
	}
	return Outcome{Success: true, Message: orDefault(res.Message, MsgSignedUp)}
}

func (w *Workflow) addDoctor(ctx context.Context, in Input) Outcome {
	if !filled(in.Name, in.Specialty, in.Email, in.Password) {
		return Outcome{Message: MsgRequiredFields}
	}
	doctor := doctorInput(in)
	doctor.Password = in.Password
	return w.authorized(ctx, MsgDoctorAdded, func(token string) gateway.Result {
		return w.gw.AddDoctor(ctx, token, doctor)
	})
}

func (w *Workflow) updateDoctor(ctx context.Context, f UpdateDoctor, in Input) Outcome {
	if !filled(in.Name, in.Specialty, in.Email) {
		return Outcome{Message: MsgRequiredFields}
	}
	doctor := doctorInput(in)
	doctor.ID = f.Doctor.ID
	return w.authorized(ctx, MsgDoctorUpdated, func(token string) gateway.Result {
		return w.gw.UpdateDoctor(ctx, token, doctor)
	})
}

func (w *Workflow) book(ctx context.Context, f BookAppointment, in Input) Outcome {
	if !filled(in.Date, in.Slot) {
		return Outcome{Message: MsgRequiredFields}
	}
	if !IsSlot(in.Slot) || (len(f.Doctor.AvailableTimes) > 0 && !slices.Contains(f.Doctor.AvailableTimes, in.Slot)) {
		return Outcome{Message: MsgInvalidSlot}
	}
	at, err := slotStart(in.Date, in.Slot)
	if err != nil {
		return Outcome{Message: MsgInvalidDate}
	}
	req := gateway.BookingRequest{
		Doctor:          gateway.Ref{ID: f.Doctor.ID},
		Patient:         gateway.Ref{ID: f.Patient.ID},
		AppointmentTime: at,
		Status:          gateway.StatusScheduled,
	}
	return w.authorized(ctx, MsgBooked, func(token string) gateway.Result {
		return w.gw.BookAppointment(ctx, token, req)
	})
}

// authorized runs call with the current token and folds its result.
func (w *Workflow) authorized(ctx context.Context, okMsg string, call func(token string) gateway.Result) Outcome {
	snap, err := w.sess.Check(ctx)
	if errors.Is(err, session.ErrExpired) {
		return Outcome{Expired: true, Message: session.ExpiredNotice, Navigate: ui.PathPublic}
	}
	if !snap.HasToken() {
		return Outcome{Message: MsgTokenMissing}
	}

	res := call(snap.Token)
	if res.Expired {
		if err := w.sess.Clear(ctx); err != nil {
			w.logger.Warn("failed to clear rejected session", "error", err)
		}
		return Outcome{Expired: true, Message: session.ExpiredNotice, Navigate: ui.PathPublic}
	}
	if !res.Success {
		return Outcome{Message: "Error: " + orDefault(res.Message, gateway.MsgGeneric)}
	}
	if w.refresh != nil {
		w.refresh(ctx)
	}
	return Outcome{Success: true, Message: orDefault(res.Message, okMsg)}
}

func doctorInput(in Input) gateway.DoctorInput {
	times := make([]string, 0, len(in.AvailableTimes))
	for _, t := range in.AvailableTimes {
		if IsSlot(t) && !slices.Contains(times, t) {
			times = append(times, t)
		}
	}
	return gateway.DoctorInput{
		Name:           trim(in.Name),
		Specialty:      trim(in.Specialty),
		Email:          trim(in.Email),
		Phone:          trim(in.Phone),
		AvailableTimes: times,
	}
}

// slotStart combines a YYYY-MM-DD date with the opening hour of slot.
func slotStart(date, slot string) (gateway.LocalDateTime, error) {
	day, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return gateway.LocalDateTime{}, err
	}
	start, _, _ := strings.Cut(slot, "-")
	clock, err := time.Parse("15:04", start)
	if err != nil {
		return gateway.LocalDateTime{}, err
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	return gateway.LocalDateTime{Time: at}, nil
}

func filled(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

func trim(s string) string { return strings.TrimSpace(s) }

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
