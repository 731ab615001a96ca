package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	"github.com/wolfman30/clinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/clinic-dashboard/internal/render"
	"github.com/wolfman30/clinic-dashboard/internal/search"
	"github.com/wolfman30/clinic-dashboard/internal/session"
	"github.com/wolfman30/clinic-dashboard/internal/ui"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

// MsgFilterFailed is shown when a doctor query fails without a server
// message.
const MsgFilterFailed = "An error occurred while filtering doctors."

// Options tune the views.
type Options struct {
	Logger   *logging.Logger
	Metrics  *metrics.GatewayMetrics
	Debounce time.Duration
	Now      func() time.Time // console clock
}

func (o Options) logger(component string) *logging.Logger {
	if o.Logger == nil {
		return logging.Default().Component(component)
	}
	return o.Logger.Component(component)
}

// doctorListing keeps a region in sync with the filter controls. Only the
// newest query's answer reaches the region.
type doctorListing struct {
	region *ui.Region
	sess   *session.Session
	search *search.Controller
	logger *logging.Logger

	mu      sync.RWMutex
	doctors map[int64]gateway.Doctor
}

func newDoctorListing(gw DoctorSearch, sess *session.Session, region *ui.Region, opts Options, logger *logging.Logger) *doctorListing {
	l := &doctorListing{region: region, sess: sess, logger: logger, doctors: map[int64]gateway.Doctor{}}
	searchOpts := []search.Option{search.WithLogger(logger), search.WithMetrics(opts.Metrics)}
	if opts.Debounce > 0 {
		searchOpts = append(searchOpts, search.WithDebounce(opts.Debounce))
	}
	l.search = search.NewController(gw, l.apply, searchOpts...)
	return l
}

func (l *doctorListing) apply(out search.Outcome) {
	if out.Err != nil {
		l.region.Message(gateway.MessageFrom(out.Err, MsgFilterFailed))
		return
	}
	byID := make(map[int64]gateway.Doctor, len(out.Doctors))
	for _, d := range out.Doctors {
		byID[d.ID] = d
	}
	l.mu.Lock()
	l.doctors = byID
	l.mu.Unlock()
	render.Doctors(l.region, out.Doctors, l.sess.Role())
}

func (l *doctorListing) load(ctx context.Context) bool {
	return l.search.Refresh(ctx)
}

func (l *doctorListing) doctor(id int64) (gateway.Doctor, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d, ok := l.doctors[id]
	return d, ok
}

func (l *doctorListing) forget(id int64) {
	l.mu.Lock()
	delete(l.doctors, id)
	l.mu.Unlock()
}
