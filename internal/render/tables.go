package render

import (
	"strconv"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	"github.com/wolfman30/clinic-dashboard/internal/ui"
)

// AppointmentRows renders the doctor console table body. An empty listing
// is exactly one row carrying emptyMsg.
func AppointmentRows(appts []gateway.Appointment, emptyMsg string) []ui.Node {
	if len(appts) == 0 {
		return []ui.Node{MessageRow(emptyMsg)}
	}
	nodes := make([]ui.Node, 0, len(appts))
	for _, a := range appts {
		nodes = append(nodes, ui.Node{
			ID:   strconv.FormatInt(a.ID, 10),
			Kind: ui.KindRow,
			Cells: [][]string{{
				strconv.FormatInt(a.PatientID, 10),
				a.PatientName,
				a.PatientPhone,
				a.PatientEmail,
				a.AppointmentTime.Display(),
			}},
		})
	}
	return nodes
}

// MessageRow is a single table row spanning the table with msg.
func MessageRow(msg string) ui.Node {
	return ui.Node{ID: "message", Kind: ui.KindRow, Title: msg, Cells: [][]string{{msg}}}
}

// DailyReport renders the daily appointments report.
func DailyReport(rows []gateway.DailyRow) []ui.Node {
	if len(rows) == 0 {
		return []ui.Node{{ID: "message", Kind: ui.KindMessage, Title: MsgNoDailyReport}}
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			r.DoctorName,
			r.AppointmentTime.Display(),
			r.Status.String(),
			r.PatientName,
			r.PatientPhone,
		})
	}
	return []ui.Node{{
		ID:     "report-daily",
		Kind:   ui.KindTable,
		Header: []string{"Doctor", "Appointment Time", "Status", "Patient", "Phone"},
		Cells:  cells,
	}}
}

// TopDoctors renders a top doctor ranking under title.
func TopDoctors(rows []gateway.TopDoctorRow, title string) []ui.Node {
	if len(rows) == 0 {
		return []ui.Node{{ID: "message", Kind: ui.KindMessage, Title: MsgNoReportData}}
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			strconv.FormatInt(r.DoctorID, 10),
			r.DoctorName,
			strconv.FormatInt(r.PatientsSeen, 10),
		})
	}
	return []ui.Node{{
		ID:     "report-top-doctor",
		Kind:   ui.KindTable,
		Title:  title,
		Header: []string{"Doctor ID", "Name", "Patients Seen"},
		Cells:  cells,
	}}
}
