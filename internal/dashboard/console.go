package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	"github.com/wolfman30/clinic-dashboard/internal/render"
	"github.com/wolfman30/clinic-dashboard/internal/search"
	"github.com/wolfman30/clinic-dashboard/internal/session"
	"github.com/wolfman30/clinic-dashboard/internal/ui"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

// Mode is the doctor console listing mode.
type Mode string

const (
	ModeUpcoming Mode = "upcoming"
	ModeByDate   Mode = "byDate"
)

// Console is the doctor's appointment table. The date picker alone decides
// the mode: a date means byDate, a cleared date means upcoming.
type Console struct {
	gw     AppointmentGateway
	sess   *session.Session
	host   ui.Host
	region *ui.Region
	seq    *search.Sequencer
	now    func() time.Time
	logger *logging.Logger

	mu   sync.Mutex
	date string
	name string
}

// NewConsole builds the console in upcoming mode.
func NewConsole(gw AppointmentGateway, sess *session.Session, host ui.Host, region *ui.Region, opts Options) *Console {
	c := &Console{
		gw:     gw,
		sess:   sess,
		host:   host,
		region: region,
		seq:    search.NewSequencer("appointments", opts.Metrics),
		now:    time.Now,
		logger: opts.logger("doctor_console"),
	}
	if opts.Now != nil {
		c.now = opts.Now
	}
	return c
}

// Mode returns the active listing mode.
func (c *Console) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return modeFor(c.date)
}

// Date returns the selected date, "" in upcoming mode.
func (c *Console) Date() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.date
}

func modeFor(date string) Mode {
	if date == "" {
		return ModeUpcoming
	}
	return ModeByDate
}

// Render loads the table for the current mode.
func (c *Console) Render(ctx context.Context) bool {
	return c.refresh(ctx, func() {})
}

// SetDate selects a date (YYYY-MM-DD) or, with "", returns to upcoming.
func (c *Console) SetDate(ctx context.Context, date string) bool {
	return c.refresh(ctx, func() { c.date = strings.TrimSpace(date) })
}

// SetPatientName narrows the table by patient name. Blank clears it.
func (c *Console) SetPatientName(ctx context.Context, name string) bool {
	return c.refresh(ctx, func() { c.name = name })
}

// Today selects the current date.
func (c *Console) Today(ctx context.Context) bool {
	return c.refresh(ctx, func() { c.date = c.now().Format("2006-01-02") })
}

// Stop cancels the in-flight query.
func (c *Console) Stop() { c.seq.Stop() }

// refresh applies change and issues exactly one query for the resulting
// mode. It reports whether the answer reached the table.
func (c *Console) refresh(ctx context.Context, change func()) bool {
	c.mu.Lock()
	change()
	date := c.date
	name := presentName(c.name)
	rctx, seq := c.seq.Begin(ctx)
	c.mu.Unlock()

	snap, ok := Guard(ctx, c.sess, c.host)
	if !ok {
		return false
	}
	c.seq.Commit(seq, func() {
		c.region.Replace([]ui.Node{render.MessageRow(render.MsgLoading)})
	})

	var (
		appts []gateway.Appointment
		err   error
		empty string
	)
	if date == "" {
		appts, err = c.gw.UpcomingAppointments(rctx, snap.Token, name)
		empty = render.MsgNoUpcoming
	} else {
		appts, err = c.gw.AppointmentsByDate(rctx, snap.Token, date, name)
		empty = render.NoAppointmentsOn(date)
	}

	expired := false
	applied := c.seq.Commit(seq, func() {
		switch {
		case errors.Is(err, gateway.ErrSessionExpired):
			expired = true
		case err != nil:
			c.region.Replace([]ui.Node{render.MessageRow(render.MsgAppointmentErr)})
		default:
			c.region.Replace(render.AppointmentRows(appts, empty))
		}
	})
	if expired {
		Expire(ctx, c.sess, c.host, c.logger)
		return false
	}
	if applied && err != nil {
		c.logger.Warn("appointments failed", "mode", modeFor(date), "date", date, "error", err)
	}
	return applied
}

func presentName(name string) *string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return &name
}
