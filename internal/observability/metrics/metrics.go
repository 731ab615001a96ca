package metrics

import "github.com/prometheus/client_golang/prometheus"

// GatewayMetrics exposes counters/histograms for backend API calls and the
// listings they feed.
type GatewayMetrics struct {
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	staleDropped   *prometheus.CounterVec
}

func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	m := &GatewayMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total backend API calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "gateway",
			Name:      "request_latency_seconds",
			Help:      "Latency of backend API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		staleDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "listing",
			Name:      "stale_responses_total",
			Help:      "Responses discarded because a newer query was issued",
		}, []string{"listing"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestLatency, m.staleDropped)
	return m
}

// ObserveRequest records one gateway call. outcome is one of "ok",
// "app_error", "transport_error", "expired".
func (m *GatewayMetrics) ObserveRequest(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(operation, outcome).Inc()
	m.requestLatency.WithLabelValues(operation).Observe(seconds)
}

// ObserveStale records a response that lost the race to a newer query.
func (m *GatewayMetrics) ObserveStale(listing string) {
	if m == nil {
		return
	}
	m.staleDropped.WithLabelValues(listing).Inc()
}
