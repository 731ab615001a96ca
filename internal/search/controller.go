// Package search drives the doctor filter: three independent controls feed
// one canonical criteria tuple, and only the newest query may update the
// listing.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	"github.com/wolfman30/clinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

// DefaultDebounce is the quiet period applied to the text control.
const DefaultDebounce = 300 * time.Millisecond

// Fetcher runs a filtered doctor query.
type Fetcher interface {
	FilterDoctors(ctx context.Context, f gateway.DoctorFilter) ([]gateway.Doctor, error)
}

// Outcome is the answer to the latest query.
type Outcome struct {
	Seq      uint64
	Criteria gateway.DoctorFilter
	Doctors  []gateway.Doctor
	Err      error
}

// Controller owns the name, time and specialty control values. The name
// control is debounced; the selects query immediately. Triggers return at
// once and the query runs in the background.
type Controller struct {
	mu        sync.Mutex
	name      string
	slot      string
	specialty string
	timer     *time.Timer
	delay     time.Duration

	fetch    Fetcher
	seq      *Sequencer
	onResult func(Outcome)
	logger   *logging.Logger
	wg       sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce overrides the text debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithMetrics counts stale responses.
func WithMetrics(m *metrics.GatewayMetrics) Option {
	return func(c *Controller) { c.seq = NewSequencer("doctors", m) }
}

// NewController creates a controller. onResult receives only the outcome of
// the newest query and must not call back into the controller.
func NewController(fetch Fetcher, onResult func(Outcome), opts ...Option) *Controller {
	c := &Controller{
		delay:    DefaultDebounce,
		fetch:    fetch,
		seq:      NewSequencer("doctors", nil),
		onResult: onResult,
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Component("search")
	return c
}

// SetName records the search box text and schedules a query after the
// debounce delay, replacing any pending one.
func (c *Controller) SetName(ctx context.Context, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = text
	if c.timer != nil && c.timer.Stop() {
		c.wg.Done()
	}
	c.wg.Add(1)
	c.timer = time.AfterFunc(c.delay, func() {
		defer c.wg.Done()
		c.Refresh(ctx)
	})
}

// SetTime records the time-slot select and queries immediately.
func (c *Controller) SetTime(ctx context.Context, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slot = value
	c.issueLocked(ctx)
}

// SetSpecialty records the specialty select and queries immediately.
func (c *Controller) SetSpecialty(ctx context.Context, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.specialty = value
	c.issueLocked(ctx)
}

// Criteria returns the canonical criteria for the current control values.
// Blank controls are absent dimensions.
func (c *Controller) Criteria() gateway.DoctorFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteriaLocked()
}

func (c *Controller) criteriaLocked() gateway.DoctorFilter {
	return gateway.DoctorFilter{
		Name:      present(c.name),
		Time:      present(c.slot),
		Specialty: present(c.specialty),
	}
}

func present(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// Refresh queries with the current criteria and waits for the answer. It
// reports whether the answer was applied.
func (c *Controller) Refresh(ctx context.Context) bool {
	c.mu.Lock()
	criteria := c.criteriaLocked()
	rctx, seq := c.seq.Begin(ctx)
	c.mu.Unlock()
	return c.run(rctx, seq, criteria)
}

// Flush fires a pending debounced query now and waits for it.
func (c *Controller) Flush(ctx context.Context) {
	c.mu.Lock()
	if c.timer == nil || !c.timer.Stop() {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()
	defer c.wg.Done()
	c.Refresh(ctx)
}

// Wait blocks until every scheduled and in-flight query has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Stop cancels the pending debounce and any in-flight query.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.timer != nil && c.timer.Stop() {
		c.wg.Done()
	}
	c.timer = nil
	c.mu.Unlock()
	c.seq.Stop()
}

// issueLocked begins a query with the criteria as of now. Sequence numbers
// are taken under c.mu so their order matches the order of control changes.
func (c *Controller) issueLocked(ctx context.Context) {
	criteria := c.criteriaLocked()
	rctx, seq := c.seq.Begin(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(rctx, seq, criteria)
	}()
}

func (c *Controller) run(ctx context.Context, seq uint64, criteria gateway.DoctorFilter) bool {
	doctors, err := c.fetch.FilterDoctors(ctx, criteria)
	applied := c.seq.Commit(seq, func() {
		if c.onResult != nil {
			c.onResult(Outcome{Seq: seq, Criteria: criteria, Doctors: doctors, Err: err})
		}
	})
	if !applied {
		c.logger.Debug("discarded stale doctor listing", "seq", seq, "criteria", criteria.String())
	} else if err != nil {
		c.logger.Warn("doctor filter failed", "seq", seq, "criteria", criteria.String(), "error", err)
	}
	return applied
}
