package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricRequestsTotal    = "flightboard.requests.total"
	MetricRequestDuration  = "flightboard.request.duration.seconds"
	MetricErrorsTotal      = "flightboard.errors.total"
	MetricInflightRequests = "flightboard.inflight.requests"
)

const (
	attrOp     = "op"
	attrStatus = "status"

	statusError = "error"
)

// durationBuckets spans 1ms report runs over a filtered year up to full
// dataset loads.
var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// REDMetrics records rate, errors and duration per operation.
type REDMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	errors   metric.Int64Counter
	inflight metric.Int64UpDownCounter
}

// NewREDMetrics creates the instruments on mt.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	requests, err := mt.Int64Counter(MetricRequestsTotal,
		metric.WithDescription("Total number of requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricRequestsTotal, err)
	}

	duration, err := mt.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("Request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricRequestDuration, err)
	}

	errs, err := mt.Int64Counter(MetricErrorsTotal,
		metric.WithDescription("Total number of failed requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(MetricInflightRequests,
		metric.WithDescription("Requests currently running"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricInflightRequests, err)
	}

	return &REDMetrics{
		requests: requests,
		duration: duration,
		errors:   errs,
		inflight: inflight,
	}, nil
}

// RecordRequest records one finished op with its status and duration.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requests.Add(ctx, 1, attrs)
	rm.duration.Record(ctx, elapsed.Seconds(), attrs)

	if status == statusError {
		rm.errors.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}

// TrackInflight increments the in-flight counter for op and returns the
// matching decrement.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflight.Add(ctx, 1, attrs)

	return func() {
		rm.inflight.Add(ctx, -1, attrs)
	}
}
