package metrics

import (
	"fmt"

	"go.opentelemetry.io/otel/metric/global"
	"go.opentelemetry.io/otel/metric/instrument"
)

// RequestCounters tracks JSON-RPC request volume and failures for an extractor.
type RequestCounters struct {
	RequestCount       instrument.Int64Counter
	FailedRequestCount instrument.Int64Counter
}

// NewRequestCounters creates the request/failed-request counter pair for the
// given chain, scoped under the "extract" meter.
func NewRequestCounters(chainName string) (*RequestCounters, error) {
	meter := global.MeterProvider().Meter("extract")

	reqCount, err := meter.Int64Counter(
		fmt.Sprintf("%s.request_count", chainName),
		instrument.WithDescription("Number of JSON-RPC requests issued to the provider"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request count counter: %s", err)
	}

	failedCount, err := meter.Int64Counter(
		fmt.Sprintf("%s.failed_request_count", chainName),
		instrument.WithDescription("Number of JSON-RPC request attempts that failed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed request count counter: %s", err)
	}

	return &RequestCounters{RequestCount: reqCount, FailedRequestCount: failedCount}, nil
}
