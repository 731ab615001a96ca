// Package render turns result sets into display nodes. Every function here
// is a pure function of its inputs; the session role is passed in fresh on
// each call.
package render

import (
	"strconv"
	"strings"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	"github.com/wolfman30/clinic-dashboard/internal/session"
	"github.com/wolfman30/clinic-dashboard/internal/ui"
)

// Empty-result messages.
const (
	MsgNoDoctors      = "No doctors found with the given filters."
	MsgNoUpcoming     = "No upcoming appointments."
	MsgNoDailyReport  = "No appointments for selected date."
	MsgNoReportData   = "No data."
	MsgLoading        = "Loading…"
	MsgAppointmentErr = "Error loading appointments. Try again later."
)

// NoAppointmentsOn is the empty message for a by-date appointment listing.
func NoAppointmentsOn(date string) string {
	return "No appointments for " + date + "."
}

// DoctorActions returns the per-card actions a role may use.
func DoctorActions(role session.Role) []ui.Action {
	switch role {
	case session.RoleAdmin:
		return []ui.Action{
			{Kind: ui.ActionUpdate, Label: "Update"},
			{Kind: ui.ActionDelete, Label: "Delete"},
		}
	case session.RolePatient, session.RoleLoggedPatient:
		return []ui.Action{{Kind: ui.ActionBookNow, Label: "Book Now"}}
	case session.RoleDoctor, session.RoleAnonymous:
		return nil
	default:
		return nil
	}
}

// DoctorID is the node id used for a doctor card.
func DoctorID(id int64) string { return strconv.FormatInt(id, 10) }

// DoctorCard renders one doctor.
func DoctorCard(d gateway.Doctor, role session.Role) ui.Node {
	return ui.Node{
		ID:    DoctorID(d.ID),
		Kind:  ui.KindCard,
		Title: d.Name,
		Lines: []string{
			"Specialization: " + d.Specialty,
			"Email: " + d.Email,
			"Available: " + strings.Join(d.AvailableTimes, ", "),
		},
		Actions: DoctorActions(role),
	}
}

// DoctorCards renders a doctor listing. An empty listing is a single
// message node.
func DoctorCards(doctors []gateway.Doctor, role session.Role) []ui.Node {
	if len(doctors) == 0 {
		return []ui.Node{{ID: "message", Kind: ui.KindMessage, Title: MsgNoDoctors}}
	}
	nodes := make([]ui.Node, 0, len(doctors))
	for _, d := range doctors {
		nodes = append(nodes, DoctorCard(d, role))
	}
	return nodes
}

// Doctors replaces region with the rendered listing.
func Doctors(region *ui.Region, doctors []gateway.Doctor, role session.Role) {
	region.Replace(DoctorCards(doctors, role))
}
