package bootstrap

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	appconfig "github.com/wolfman30/clinic-dashboard/internal/config"
	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	"github.com/wolfman30/clinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

// BuildGateway wires the backend client from cfg. Metrics are recorded when
// reg is non-nil.
func BuildGateway(cfg *appconfig.Config, logger *logging.Logger, reg prometheus.Registerer) (*gateway.Client, *metrics.GatewayMetrics, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	var m *metrics.GatewayMetrics
	if reg != nil {
		m = metrics.NewGatewayMetrics(reg)
	}
	client := gateway.NewClient(cfg.APIBaseURL,
		gateway.WithLogger(logger),
		gateway.WithTimeout(cfg.RequestTimeout),
		gateway.WithMetrics(m),
		gateway.WithFilterEncoding(gateway.FilterEncoding(cfg.FilterEncoding)),
	)
	return client, m, nil
}
