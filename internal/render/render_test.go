package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	"github.com/wolfman30/clinic-dashboard/internal/session"
	"github.com/wolfman30/clinic-dashboard/internal/ui"
)

var allRoles = []session.Role{
	session.RoleAnonymous,
	session.RolePatient,
	session.RoleLoggedPatient,
	session.RoleDoctor,
	session.RoleAdmin,
}

func sampleDoctors() []gateway.Doctor {
	return []gateway.Doctor{
		{ID: 5, Name: "Dr. Adams", Specialty: "ENT", Email: "a@x.io", AvailableTimes: []string{"09:00-10:00"}},
		{ID: 7, Name: "Dr. Smith", Specialty: "Cardiologist", Email: "s@x.io", AvailableTimes: []string{"10:00-11:00", "11:00-12:00"}},
	}
}

func TestDoctorCard(t *testing.T) {
	n := DoctorCard(sampleDoctors()[1], session.RoleAdmin)
	assert.Equal(t, "7", n.ID)
	assert.Equal(t, "Dr. Smith", n.Title)
	assert.Equal(t, []string{
		"Specialization: Cardiologist",
		"Email: s@x.io",
		"Available: 10:00-11:00, 11:00-12:00",
	}, n.Lines)
}

func TestOnlyAdminGetsUpdateAndDelete(t *testing.T) {
	for _, role := range allRoles {
		for _, n := range DoctorCards(sampleDoctors(), role) {
			manage := n.HasAction(ui.ActionUpdate) || n.HasAction(ui.ActionDelete)
			assert.Equal(t, role == session.RoleAdmin, manage, "role %s", role)
		}
	}
}

func TestRoleActionTable(t *testing.T) {
	tests := []struct {
		role session.Role
		want []ui.ActionKind
	}{
		{session.RoleAdmin, []ui.ActionKind{ui.ActionUpdate, ui.ActionDelete}},
		{session.RolePatient, []ui.ActionKind{ui.ActionBookNow}},
		{session.RoleLoggedPatient, []ui.ActionKind{ui.ActionBookNow}},
		{session.RoleDoctor, nil},
		{session.RoleAnonymous, nil},
		{session.Role("intruder"), nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			var got []ui.ActionKind
			for _, a := range DoctorActions(tt.role) {
				got = append(got, a.Kind)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmptyListingIsSingleMessage(t *testing.T) {
	nodes := DoctorCards(nil, session.RoleAdmin)
	require.Len(t, nodes, 1)
	assert.Equal(t, ui.KindMessage, nodes[0].Kind)
	assert.Equal(t, MsgNoDoctors, nodes[0].Title)
}

func TestRenderIsIdempotent(t *testing.T) {
	region := ui.NewRegion("content")
	Doctors(region, sampleDoctors(), session.RoleAdmin)
	first := region.Nodes()
	Doctors(region, sampleDoctors(), session.RoleAdmin)
	second := region.Nodes()

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].Equal(second[i]), "node %d differs", i)
	}
}

func TestAppointmentRows(t *testing.T) {
	at, _ := gateway.ParseLocalDateTime("2024-03-01T09:00:00")
	nodes := AppointmentRows([]gateway.Appointment{{
		ID: 11, PatientID: 3, PatientName: "Ann Lee", PatientPhone: "555", PatientEmail: "ann@x.io", AppointmentTime: at,
	}}, MsgNoUpcoming)
	require.Len(t, nodes, 1)
	assert.Equal(t, "11", nodes[0].ID)
	assert.Equal(t, [][]string{{"3", "Ann Lee", "555", "ann@x.io", "2024-03-01 09:00"}}, nodes[0].Cells)
	assert.Empty(t, nodes[0].Actions)
}

func TestAppointmentRowsEmptyIsOneRow(t *testing.T) {
	nodes := AppointmentRows(nil, NoAppointmentsOn("2024-03-01"))
	require.Len(t, nodes, 1)
	assert.Equal(t, ui.KindRow, nodes[0].Kind)
	assert.Equal(t, [][]string{{"No appointments for 2024-03-01."}}, nodes[0].Cells)
}

func TestReports(t *testing.T) {
	at, _ := gateway.ParseLocalDateTime("2024-03-01T09:00:00")
	daily := DailyReport([]gateway.DailyRow{{DoctorName: "Dr. Smith", AppointmentTime: at, Status: gateway.StatusScheduled, PatientName: "Ann", PatientPhone: "555"}})
	require.Len(t, daily, 1)
	assert.Equal(t, [][]string{{"Dr. Smith", "2024-03-01 09:00", "Scheduled", "Ann", "555"}}, daily[0].Cells)

	assert.Equal(t, MsgNoDailyReport, DailyReport(nil)[0].Title)

	top := TopDoctors([]gateway.TopDoctorRow{{DoctorID: 7, DoctorName: "Dr. Smith", PatientsSeen: 12}}, "Top Doctor - 3/2024")
	assert.Equal(t, "Top Doctor - 3/2024", top[0].Title)
	assert.Equal(t, [][]string{{"7", "Dr. Smith", "12"}}, top[0].Cells)
	assert.Equal(t, MsgNoReportData, TopDoctors(nil, "x")[0].Title)
}
