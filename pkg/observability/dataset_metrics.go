package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

const (
	metricDatasetChanges = "chartdata.dataset.changes.total"
	metricSeriesSize     = "chartdata.series.items"

	attrDataset = "dataset"
	attrSource  = "source"
)

// sizeBuckets are item counts.
var sizeBuckets = []float64{0, 10, 100, 1000, 10000, 100000, 1000000}

// itemCounter is implemented by every series and by pie datasets.
type itemCounter interface {
	ItemCount() int
}

// DatasetMetrics turns change events into OpenTelemetry measurements.
type DatasetMetrics struct {
	changes metric.Int64Counter
	size    metric.Int64Histogram
}

// NewDatasetMetrics creates the instruments from mt.
func NewDatasetMetrics(mt metric.Meter) (*DatasetMetrics, error) {
	changes, err := mt.Int64Counter(metricDatasetChanges,
		metric.WithDescription("Change events fired by series and datasets"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDatasetChanges, err)
	}

	size, err := mt.Int64Histogram(metricSeriesSize,
		metric.WithDescription("Item count of a series after a change"),
		metric.WithUnit("{item}"),
		metric.WithExplicitBucketBoundaries(sizeBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSeriesSize, err)
	}

	return &DatasetMetrics{changes: changes, size: size}, nil
}

// Listener returns a change listener that records events under name.
// Register it with AddChangeListener on any series or dataset.
func (dm *DatasetMetrics) Listener(ctx context.Context, name string) dataset.Listener {
	return &datasetListener{ctx: ctx, metrics: dm, name: name}
}

type datasetListener struct {
	ctx     context.Context //nolint:containedctx // listeners have no call context
	metrics *DatasetMetrics
	name    string
}

// Changed implements dataset.Listener.
func (l *datasetListener) Changed(event dataset.ChangeEvent) {
	source := fmt.Sprintf("%T", event.Source)

	l.metrics.changes.Add(l.ctx, 1, metric.WithAttributes(
		attribute.String(attrDataset, l.name),
		attribute.String(attrSource, source),
	))

	// Collections re-broadcast series events, so the series that changed
	// may sit further down the cause chain.
	for e := &event; e != nil; e = e.Cause {
		if counter, ok := e.Source.(itemCounter); ok {
			l.metrics.size.Record(l.ctx, int64(counter.ItemCount()), metric.WithAttributes(
				attribute.String(attrDataset, l.name),
			))

			return
		}
	}
}
