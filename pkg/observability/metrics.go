package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/metric"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
}

// InitMetrics initializes the Prometheus metrics exporter.
// Returns the MeterProvider and an HTTP handler for the /metrics endpoint.
func InitMetrics(_ MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	handler := promhttp.Handler()

	return provider, handler, nil
}

// SettlementMetrics holds the counters emitted by the settlement coordinator.
type SettlementMetrics struct {
	IntentsCreated      metric.Int64Counter
	IntentsCaptured     metric.Int64Counter
	IntentsCancelled    metric.Int64Counter
	TransfersCreated    metric.Int64Counter
	AccountsLinked      metric.Int64Counter
	PropagationFailures metric.Int64Counter
}

// NewSettlementMetrics registers the settlement counters on the given meter.
func NewSettlementMetrics(meter metric.Meter) (*SettlementMetrics, error) {
	m := &SettlementMetrics{}

	var err error
	if m.IntentsCreated, err = meter.Int64Counter("settlement.intents.created"); err != nil {
		return nil, err
	}
	if m.IntentsCaptured, err = meter.Int64Counter("settlement.intents.captured"); err != nil {
		return nil, err
	}
	if m.IntentsCancelled, err = meter.Int64Counter("settlement.intents.cancelled"); err != nil {
		return nil, err
	}
	if m.TransfersCreated, err = meter.Int64Counter("settlement.transfers.created"); err != nil {
		return nil, err
	}
	if m.AccountsLinked, err = meter.Int64Counter("settlement.accounts.linked"); err != nil {
		return nil, err
	}
	if m.PropagationFailures, err = meter.Int64Counter("settlement.propagation.failures"); err != nil {
		return nil, err
	}

	return m, nil
}
