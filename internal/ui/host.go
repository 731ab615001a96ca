// Package ui holds the presentation collaborators the dashboard drives: a
// Host that shows notices and navigates, and Regions that hold rendered
// nodes.
package ui

import "sync"

// Navigation targets.
const (
	PathPublic              = "/"
	PathPatientDashboard    = "/pages/patientDashboard.html"
	PathLoggedPatient       = "/pages/loggedPatientDashboard.html"
	PathPatientAppointments = "/pages/patientAppointments.html"
	PathAdminDashboard      = "/adminDashboard"
	PathDoctorDashboard     = "/doctorDashboard"
)

// Host is the page hosting the dashboard.
type Host interface {
	// Alert shows a blocking message.
	Alert(msg string)
	// Confirm asks a yes/no question.
	Confirm(msg string) bool
	// Navigate leaves the current view for path.
	Navigate(path string)
}

// RecordingHost is a Host that records every interaction and answers
// confirmations with a fixed value. The CLI uses it for non-interactive
// runs; tests use it to assert on notices.
type RecordingHost struct {
	mu        sync.Mutex
	ConfirmOK bool
	alerts    []string
	confirms  []string
	visits    []string
}

func (h *RecordingHost) Alert(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.alerts = append(h.alerts, msg)
}

func (h *RecordingHost) Confirm(msg string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.confirms = append(h.confirms, msg)
	return h.ConfirmOK
}

func (h *RecordingHost) Navigate(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visits = append(h.visits, path)
}

// Alerts returns the alerts shown so far.
func (h *RecordingHost) Alerts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.alerts...)
}

// Confirms returns the confirmation prompts shown so far.
func (h *RecordingHost) Confirms() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.confirms...)
}

// Visits returns the navigation targets so far.
func (h *RecordingHost) Visits() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.visits...)
}
