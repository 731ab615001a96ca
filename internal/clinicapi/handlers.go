package clinicapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	httpmiddleware "github.com/wolfman30/clinic-dashboard/internal/http/middleware"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

// Token roles. Patients authenticate as "patient"; the dashboard tracks the
// logged-in state on its side.
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

const (
	msgDoctorAdded     = "Doctor added to db"
	msgDoctorExists    = "Doctor already exists"
	msgDoctorUpdated   = "Doctor updated"
	msgDoctorNotFound  = "Doctor not found"
	msgSignedUp        = "Signup successful"
	msgPatientExists   = "Patient with email id or phone no already exist"
	msgBooked          = "Appointment Booked Successfully"
	msgRescheduled     = "Appointment updated"
	msgNoAppointment   = "Appointment not found"
	msgInvalidDoctor   = "Invalid doctor id"
	msgSlotTaken       = "Appointment already booked for given time or Doctor not available"
	msgBadBody         = "Invalid request body"
	msgBadDate         = "Invalid date, expected YYYY-MM-DD"
	msgBadPath         = "Invalid path segment"
	msgBadCredentials  = "Invalid credentials."
	msgMissingDoctor   = "Name, email and specialty are required"
	msgMissingPassword = "Password is required"
	msgMissingPatient  = "Name, email and password are required"
)

// Handler serves the clinic REST API.
type Handler struct {
	store  *Store
	tokens *Issuer
	logger *logging.Logger
	now    func() time.Time
}

// NewHandler creates a handler over store.
func NewHandler(store *Store, tokens *Issuer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, tokens: tokens, logger: logger.Component("clinicapi"), now: time.Now}
}

// HealthCheck answers liveness probes.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListDoctors returns every doctor.
func (h *Handler) ListDoctors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"doctors": h.store.ListDoctors(DoctorFilter{})})
}

// FilterDoctorsPath reads /doctor/filter/{name}/{time}/{specialty}, where
// "null" leaves a dimension unconstrained.
func (h *Handler) FilterDoctorsPath(w http.ResponseWriter, r *http.Request) {
	var f DoctorFilter
	for key, dst := range map[string]*string{"name": &f.Name, "time": &f.Time, "specialty": &f.Specialty} {
		v, ok := pathParam(w, r, key)
		if !ok {
			return
		}
		*dst = unsentinel(v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"doctors": h.store.ListDoctors(f)})
}

// FilterDoctorsQuery reads /doctor/filter?name=&time=&specialty=.
func (h *Handler) FilterDoctorsQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := DoctorFilter{
		Name:      strings.TrimSpace(q.Get("name")),
		Time:      strings.TrimSpace(q.Get("time")),
		Specialty: strings.TrimSpace(q.Get("specialty")),
	}
	writeJSON(w, http.StatusOK, map[string]any{"doctors": h.store.ListDoctors(f)})
}

// pathParam returns the decoded route parameter. chi matches on the raw path
// when the request carries escaped characters, so params arrive still escaped;
// otherwise they are already decoded.
func pathParam(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, true
	}
	v, err := url.PathUnescape(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadPath)
		return "", false
	}
	return v, true
}

func unsentinel(segment string) string {
	if strings.EqualFold(segment, gateway.NoConstraint) {
		return ""
	}
	return strings.TrimSpace(segment)
}

// AdminLogin exchanges admin credentials for a token.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var creds gateway.AdminCredentials
	if !decode(w, r, &creds) {
		return
	}
	if !h.store.CheckAdmin(creds.Username, creds.Password) {
		h.logger.Info("admin login rejected", "username", creds.Username)
		writeError(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}
	h.issue(w, RoleAdmin, creds.Username)
}

// DoctorLogin exchanges doctor credentials for a token.
func (h *Handler) DoctorLogin(w http.ResponseWriter, r *http.Request) {
	var creds gateway.Credentials
	if !decode(w, r, &creds) {
		return
	}
	doc, ok := h.store.DoctorLogin(creds.Email, creds.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}
	h.issue(w, RoleDoctor, strconv.FormatInt(doc.ID, 10))
}

// PatientLogin exchanges patient credentials for a token.
func (h *Handler) PatientLogin(w http.ResponseWriter, r *http.Request) {
	var creds gateway.Credentials
	if !decode(w, r, &creds) {
		return
	}
	p, ok := h.store.PatientLogin(creds.Email, creds.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}
	h.issue(w, RolePatient, strconv.FormatInt(p.ID, 10))
}

func (h *Handler) issue(w http.ResponseWriter, role, subject string) {
	token, err := h.tokens.Issue(role, subject)
	if err != nil {
		h.logger.Error("failed to issue token", "role", role, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "message": "Login successful"})
}

// AddDoctor creates a doctor.
func (h *Handler) AddDoctor(w http.ResponseWriter, r *http.Request) {
	var in gateway.DoctorInput
	if !decode(w, r, &in) {
		return
	}
	if !doctorComplete(in) {
		writeMessage(w, http.StatusBadRequest, msgMissingDoctor)
		return
	}
	if in.Password == "" {
		writeMessage(w, http.StatusBadRequest, msgMissingPassword)
		return
	}
	doc, err := h.store.AddDoctor(in)
	if errors.Is(err, ErrConflict) {
		writeMessage(w, http.StatusConflict, msgDoctorExists)
		return
	}
	h.logger.Info("doctor added", "doctor_id", doc.ID)
	writeMessage(w, http.StatusCreated, msgDoctorAdded)
}

// UpdateDoctor replaces a doctor's profile.
func (h *Handler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	var in gateway.DoctorInput
	if !decode(w, r, &in) {
		return
	}
	if in.ID == 0 || !doctorComplete(in) {
		writeMessage(w, http.StatusBadRequest, msgMissingDoctor)
		return
	}
	if err := h.store.UpdateDoctor(in); err != nil {
		writeMessage(w, http.StatusNotFound, msgDoctorNotFound)
		return
	}
	writeMessage(w, http.StatusOK, msgDoctorUpdated)
}

func doctorComplete(in gateway.DoctorInput) bool {
	return strings.TrimSpace(in.Name) != "" && strings.TrimSpace(in.Email) != "" && strings.TrimSpace(in.Specialty) != ""
}

// DeleteDoctor removes /doctor/{id}/{token}.
func (h *Handler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidDoctor)
		return
	}
	if err := h.store.DeleteDoctor(id); err != nil {
		writeMessage(w, http.StatusNotFound, msgDoctorNotFound)
		return
	}
	h.logger.Info("doctor deleted", "doctor_id", id)
	writeMessage(w, http.StatusOK, fmt.Sprintf("Doctor deleted successfully with id: %d", id))
}

// Signup registers a patient.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in gateway.SignupRequest
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		writeMessage(w, http.StatusBadRequest, msgMissingPatient)
		return
	}
	if _, err := h.store.AddPatient(in); err != nil {
		writeMessage(w, http.StatusConflict, msgPatientExists)
		return
	}
	writeMessage(w, http.StatusCreated, msgSignedUp)
}

// PatientProfile returns the patient owning the token.
func (h *Handler) PatientProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := subjectID(w, r)
	if !ok {
		return
	}
	p, found := h.store.Patient(id)
	if !found {
		writeError(w, http.StatusNotFound, "Patient not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"patient": p})
}

// AppointmentsByDate serves /appointments/{date}/{patientName}/{token} for
// the calling doctor.
func (h *Handler) AppointmentsByDate(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := subjectID(w, r)
	if !ok {
		return
	}
	day, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadDate)
		return
	}
	name, ok := pathParam(w, r, "patientName")
	if !ok {
		return
	}
	rows := h.store.DoctorAppointments(doctorID, unsentinel(name), func(at time.Time) bool { return sameDay(at, day) })
	writeJSON(w, http.StatusOK, map[string]any{"appointments": rows})
}

// UpcomingAppointments lists the calling doctor's appointments from now on.
func (h *Handler) UpcomingAppointments(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := subjectID(w, r)
	if !ok {
		return
	}
	now := h.wallClock()
	name := strings.TrimSpace(r.URL.Query().Get("patientName"))
	rows := h.store.DoctorAppointments(doctorID, name, func(at time.Time) bool { return !at.Before(now) })
	writeJSON(w, http.StatusOK, map[string]any{"appointments": rows})
}

// wallClock is the current local wall time expressed in UTC, matching how
// appointment times are stored.
func (h *Handler) wallClock() time.Time {
	n := h.now()
	return time.Date(n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second(), 0, time.UTC)
}

// BookAppointment books a slot for the calling patient.
func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	h.saveAppointment(w, r, false)
}

// RescheduleAppointment moves one of the calling patient's appointments.
func (h *Handler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	h.saveAppointment(w, r, true)
}

func (h *Handler) saveAppointment(w http.ResponseWriter, r *http.Request, update bool) {
	patientID, ok := subjectID(w, r)
	if !ok {
		return
	}
	var req gateway.BookingRequest
	if !decode(w, r, &req) {
		return
	}
	if req.AppointmentTime.IsZero() {
		writeMessage(w, http.StatusBadRequest, msgSlotTaken)
		return
	}
	id := int64(0)
	if update {
		id = req.ID
	}
	apptID, err := h.store.Book(id, req.Doctor.ID, patientID, req.AppointmentTime.Time, req.Status)
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, msgInvalidDoctor)
	case errors.Is(err, ErrUnavailable):
		writeMessage(w, http.StatusConflict, msgSlotTaken)
	case errors.Is(err, ErrNotFound):
		writeMessage(w, http.StatusNotFound, msgNoAppointment)
	case err != nil:
		writeMessage(w, http.StatusInternalServerError, gateway.MsgGeneric)
	case update:
		writeMessage(w, http.StatusOK, msgRescheduled)
	default:
		h.logger.Info("appointment booked", "appointment_id", apptID, "doctor_id", req.Doctor.ID)
		writeMessage(w, http.StatusCreated, msgBooked)
	}
}

// DailyReport lists every appointment on {date}.
func (h *Handler) DailyReport(w http.ResponseWriter, r *http.Request) {
	day, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadDate)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": h.store.DailyRows(day)})
}

// TopDoctorByMonth ranks doctors for {month}/{year}.
func (h *Handler) TopDoctorByMonth(w http.ResponseWriter, r *http.Request) {
	month, errM := strconv.Atoi(chi.URLParam(r, "month"))
	year, errY := strconv.Atoi(chi.URLParam(r, "year"))
	if errM != nil || errY != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month or year")
		return
	}
	rows := h.store.TopDoctors(func(at time.Time) bool {
		return at.Year() == year && int(at.Month()) == month
	})
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// TopDoctorByYear ranks doctors for {year}.
func (h *Handler) TopDoctorByYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year")
		return
	}
	rows := h.store.TopDoctors(func(at time.Time) bool { return at.Year() == year })
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// subjectID reads the numeric subject of the admitted principal.
func subjectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	p, ok := httpmiddleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return 0, false
	}
	id, err := strconv.ParseInt(p.Subject, 10, 64)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, msgBadBody)
		return false
	}
	return true
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
