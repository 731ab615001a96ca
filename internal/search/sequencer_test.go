package search

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/wolfman30/clinic-dashboard/internal/observability/metrics"
)

func TestSequencerOnlyLatestCommits(t *testing.T) {
	s := NewSequencer("doctors", metrics.NewGatewayMetrics(prometheus.NewRegistry()))
	_, first := s.Begin(context.Background())
	_, second := s.Begin(context.Background())

	var applied []uint64
	assert.True(t, s.Commit(second, func() { applied = append(applied, second) }))
	assert.False(t, s.Commit(first, func() { applied = append(applied, first) }))
	assert.Equal(t, []uint64{second}, applied)
	assert.Equal(t, second, s.Latest())
}

func TestSequencerNumbersIncrease(t *testing.T) {
	s := NewSequencer("doctors", nil)
	var last uint64
	for i := 0; i < 5; i++ {
		_, seq := s.Begin(context.Background())
		assert.Greater(t, seq, last)
		last = seq
	}
}

func TestSequencerBeginCancelsPrevious(t *testing.T) {
	s := NewSequencer("doctors", nil)
	first, _ := s.Begin(context.Background())
	second, _ := s.Begin(context.Background())

	assert.ErrorIs(t, first.Err(), context.Canceled)
	assert.NoError(t, second.Err())
}

func TestSequencerStopInvalidatesInFlight(t *testing.T) {
	s := NewSequencer("doctors", nil)
	ctx, seq := s.Begin(context.Background())
	s.Stop()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, s.Commit(seq, func() { t.Fatal("stale commit applied") }))
}
