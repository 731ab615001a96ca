package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	"github.com/wolfman30/clinic-dashboard/internal/modal"
	"github.com/wolfman30/clinic-dashboard/internal/render"
	"github.com/wolfman30/clinic-dashboard/internal/search"
	"github.com/wolfman30/clinic-dashboard/internal/session"
	"github.com/wolfman30/clinic-dashboard/internal/ui"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

// Admin dashboard notices.
const (
	MsgAdminTokenMissing = "Admin token not found. Please log in again."
	MsgDoctorDeleted     = "Doctor deleted successfully"
	MsgDeleteFailed      = "Failed to delete doctor"
	MsgPickDate          = "Pick a date"
	MsgMonthAndYear      = "Provide month and year"
	MsgProvideYear       = "Provide year"
	MsgNotLoggedIn       = "You are not logged in"
)

// Admin is the admin dashboard: the doctor listing with update and delete,
// plus the reports panel.
type Admin struct {
	gw      AdminGateway
	sess    *session.Session
	host    ui.Host
	forms   *modal.Workflow
	doctors *doctorListing
	reports *ui.Region
	logger  *logging.Logger
}

// NewAdmin builds the admin dashboard over the doctors and reports regions.
func NewAdmin(gw AdminGateway, sess *session.Session, host ui.Host, forms *modal.Workflow, doctors, reports *ui.Region, opts Options) *Admin {
	logger := opts.logger("admin_dashboard")
	return &Admin{
		gw:      gw,
		sess:    sess,
		host:    host,
		forms:   forms,
		doctors: newDoctorListing(gw, sess, doctors, opts, logger),
		reports: reports,
		logger:  logger,
	}
}

// Render checks the session and loads the listing for the current filter.
func (a *Admin) Render(ctx context.Context) bool {
	if _, ok := Guard(ctx, a.sess, a.host); !ok {
		return false
	}
	return a.doctors.load(ctx)
}

// Reload re-queries the listing. It is the refresh hook for the doctor forms.
func (a *Admin) Reload(ctx context.Context) {
	a.doctors.load(ctx)
}

// Search exposes the filter controls.
func (a *Admin) Search() *search.Controller { return a.doctors.search }

// AddDoctor opens the add doctor form.
func (a *Admin) AddDoctor() {
	a.forms.Open(modal.AddDoctor{})
}

// EditDoctor opens the update form prefilled with the listed doctor.
func (a *Admin) EditDoctor(id int64) bool {
	doctor, ok := a.doctors.doctor(id)
	if !ok {
		a.logger.Warn("update requested for unlisted doctor", "doctor_id", id)
		return false
	}
	a.forms.Open(modal.UpdateDoctor{Doctor: doctor})
	return true
}

// DeleteDoctor asks for confirmation, deletes the doctor and removes only
// its card from the listing.
func (a *Admin) DeleteDoctor(ctx context.Context, id int64) gateway.Result {
	name := render.DoctorID(id)
	if doctor, ok := a.doctors.doctor(id); ok {
		name = doctor.Name
	}
	if !a.host.Confirm(fmt.Sprintf("Are you sure you want to delete %s?", name)) {
		return gateway.Result{}
	}
	token := a.sess.Token()
	if token == "" {
		a.host.Alert(MsgAdminTokenMissing)
		return gateway.Result{Message: MsgAdminTokenMissing}
	}

	res := a.gw.DeleteDoctor(ctx, token, id)
	switch {
	case res.Expired:
		Expire(ctx, a.sess, a.host, a.logger)
	case res.Success:
		a.doctors.region.Remove(render.DoctorID(id))
		a.doctors.forget(id)
		if len(a.doctors.region.Nodes()) == 0 {
			a.doctors.region.Message(render.MsgNoDoctors)
		}
		a.host.Alert(orDefault(res.Message, MsgDoctorDeleted))
		a.logger.Info("doctor deleted", "doctor_id", id)
	default:
		a.host.Alert(orDefault(res.Message, MsgDeleteFailed))
	}
	return res
}

// DailyReport shows every appointment on date (YYYY-MM-DD).
func (a *Admin) DailyReport(ctx context.Context, date string) bool {
	date = strings.TrimSpace(date)
	if date == "" {
		a.host.Alert(MsgPickDate)
		return false
	}
	token, ok := a.reportToken()
	if !ok {
		return false
	}
	rows, err := a.gw.DailyReport(ctx, token, date)
	if err != nil {
		return a.reportFailed(ctx, err, "Failed to load daily report")
	}
	a.reports.Replace(render.DailyReport(rows))
	return true
}

// TopDoctorByMonth ranks doctors for a month. Inputs are the raw form
// values.
func (a *Admin) TopDoctorByMonth(ctx context.Context, month, year string) bool {
	m, errM := strconv.Atoi(strings.TrimSpace(month))
	y, errY := strconv.Atoi(strings.TrimSpace(year))
	if errM != nil || errY != nil || m == 0 || y == 0 {
		a.host.Alert(MsgMonthAndYear)
		return false
	}
	token, ok := a.reportToken()
	if !ok {
		return false
	}
	rows, err := a.gw.TopDoctorByMonth(ctx, token, m, y)
	if err != nil {
		return a.reportFailed(ctx, err, "Failed to load month report")
	}
	a.reports.Replace(render.TopDoctors(rows, fmt.Sprintf("Top doctors for %02d/%d", m, y)))
	return true
}

// TopDoctorByYear ranks doctors for a year.
func (a *Admin) TopDoctorByYear(ctx context.Context, year string) bool {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y == 0 {
		a.host.Alert(MsgProvideYear)
		return false
	}
	token, ok := a.reportToken()
	if !ok {
		return false
	}
	rows, err := a.gw.TopDoctorByYear(ctx, token, y)
	if err != nil {
		return a.reportFailed(ctx, err, "Failed to load year report")
	}
	a.reports.Replace(render.TopDoctors(rows, fmt.Sprintf("Top doctors for %d", y)))
	return true
}

// BackToDoctors clears the reports panel and reloads the listing.
func (a *Admin) BackToDoctors(ctx context.Context) bool {
	a.reports.Replace(nil)
	return a.doctors.load(ctx)
}

func (a *Admin) reportToken() (string, bool) {
	token := a.sess.Token()
	if token == "" {
		a.host.Alert(MsgNotLoggedIn)
		return "", false
	}
	return token, true
}

func (a *Admin) reportFailed(ctx context.Context, err error, fallback string) bool {
	if errors.Is(err, gateway.ErrSessionExpired) {
		Expire(ctx, a.sess, a.host, a.logger)
		return false
	}
	a.logger.Warn("report failed", "error", err)
	a.host.Alert(gateway.MessageFrom(err, fallback))
	return false
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
