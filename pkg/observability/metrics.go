package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricOperationsTotal   = "chartdata.operations.total"
	metricOperationDuration = "chartdata.operation.duration.seconds"
	metricOperationErrors   = "chartdata.operation.errors.total"

	attrOp     = "op"
	attrStatus = "status"

	// StatusOK marks a successful operation.
	StatusOK = "ok"
	// StatusError marks a failed operation.
	StatusError = "error"
)

// durationBuckets spans 1ms to 60s: document loads and renders are short.
var durationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// OperationMetrics counts and times CLI commands and server requests.
type OperationMetrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// NewOperationMetrics creates the instruments from mt.
func NewOperationMetrics(mt metric.Meter) (*OperationMetrics, error) {
	total, err := mt.Int64Counter(metricOperationsTotal,
		metric.WithDescription("Total number of operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOperationsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricOperationDuration,
		metric.WithDescription("Operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOperationDuration, err)
	}

	errs, err := mt.Int64Counter(metricOperationErrors,
		metric.WithDescription("Total number of failed operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOperationErrors, err)
	}

	return &OperationMetrics{total: total, duration: duration, errors: errs}, nil
}

// Record records one finished operation.
func (om *OperationMetrics) Record(ctx context.Context, op string, err error, elapsed time.Duration) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}

	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	om.total.Add(ctx, 1, attrs)
	om.duration.Record(ctx, elapsed.Seconds(), attrs)

	if err != nil {
		om.errors.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}

// Track runs fn and records it under op.
func (om *OperationMetrics) Track(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	om.Record(ctx, op, err, time.Since(start))

	return err
}
