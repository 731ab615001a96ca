package search

import (
	"context"
	"sync"

	"github.com/wolfman30/clinic-dashboard/internal/observability/metrics"
)

// Sequencer enforces last-request-wins for a listing that re-queries on
// rapid input. Every query takes a ticket from Begin; only the holder of the
// most recent ticket may Commit. Beginning a new query cancels the context
// of the previous one.
type Sequencer struct {
	mu      sync.Mutex
	listing string
	latest  uint64
	cancel  context.CancelFunc
	metrics *metrics.GatewayMetrics
}

// NewSequencer creates a sequencer for the named listing. m may be nil.
func NewSequencer(listing string, m *metrics.GatewayMetrics) *Sequencer {
	return &Sequencer{listing: listing, metrics: m}
}

// Begin issues the next sequence number and a context that is cancelled
// once a newer query begins.
func (s *Sequencer) Begin(parent context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.latest++
	s.cancel = cancel
	return ctx, s.latest
}

// Commit runs apply if seq is still the latest issued number and reports
// whether it did. apply runs under the sequencer's lock, so it must not call
// Begin or Commit.
func (s *Sequencer) Commit(seq uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.latest {
		s.metrics.ObserveStale(s.listing)
		return false
	}
	apply()
	return true
}

// Latest returns the most recently issued sequence number.
func (s *Sequencer) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Stop cancels the in-flight query, if any, and invalidates its ticket.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.latest++
}
