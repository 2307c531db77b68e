package xy

import (
	"fmt"
	"math"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

// XSource exposes the x-values a dataset holds, series by series.
type XSource interface {
	SeriesCount() int
	XValues(series int) []float64
}

// Firer is notified when an interval setting changes.
type Firer interface {
	Fire()
}

// IntervalDelegate turns x-values into intervals for bar-style rendering.
// The interval width is either fixed or, in auto mode, the smallest gap
// between consecutive x-values of any series. The position factor places
// x inside its interval: 0 puts x at the start, 1 at the end.
//
// A dataset registers its delegate as its first change listener so the auto
// width follows every change.
type IntervalDelegate struct {
	source            XSource
	owner             Firer
	autoWidth         bool
	positionFactor    float64
	fixedWidth        float64
	autoIntervalWidth float64
}

// Interval defaults.
const (
	DefaultIntervalPositionFactor = 0.5
	DefaultIntervalWidth          = 1.0
)

// NewIntervalDelegate creates a delegate in auto-width mode.
func NewIntervalDelegate(source XSource, owner Firer) *IntervalDelegate {
	return &IntervalDelegate{
		source:            source,
		owner:             owner,
		autoWidth:         true,
		positionFactor:    DefaultIntervalPositionFactor,
		fixedWidth:        DefaultIntervalWidth,
		autoIntervalWidth: DefaultIntervalWidth,
	}
}

// Changed recalculates the auto width.
func (d *IntervalDelegate) Changed(dataset.ChangeEvent) {
	if d.autoWidth {
		d.autoIntervalWidth = d.recalculate()
	}
}

// AutoWidth reports whether the width follows the data.
func (d *IntervalDelegate) AutoWidth() bool { return d.autoWidth }

// SetAutoWidth switches auto mode and notifies the owner.
func (d *IntervalDelegate) SetAutoWidth(auto bool) {
	d.autoWidth = auto

	if auto {
		d.autoIntervalWidth = d.recalculate()
	}

	d.owner.Fire()
}

// PositionFactor returns where x sits inside its interval.
func (d *IntervalDelegate) PositionFactor() float64 { return d.positionFactor }

// SetPositionFactor sets the position factor, which must lie in [0, 1].
func (d *IntervalDelegate) SetPositionFactor(factor float64) error {
	if !(factor >= 0 && factor <= 1) {
		return fmt.Errorf("%w: interval position factor %g outside [0,1]", dataset.ErrInvalidArgument, factor)
	}

	d.positionFactor = factor
	d.owner.Fire()

	return nil
}

// FixedWidth returns the width used outside auto mode.
func (d *IntervalDelegate) FixedWidth() float64 { return d.fixedWidth }

// SetFixedWidth sets a non-negative fixed width and leaves auto mode.
func (d *IntervalDelegate) SetFixedWidth(width float64) error {
	if !(width >= 0) {
		return fmt.Errorf("%w: negative interval width %g", dataset.ErrInvalidArgument, width)
	}

	d.fixedWidth = width
	d.autoWidth = false
	d.owner.Fire()

	return nil
}

// Width returns the effective interval width. Auto mode falls back to the
// fixed width while no series has two items.
func (d *IntervalDelegate) Width() float64 {
	if d.autoWidth && !math.IsInf(d.autoIntervalWidth, 0) {
		return d.autoIntervalWidth
	}

	return d.fixedWidth
}

// StartX returns the start of the interval around x.
func (d *IntervalDelegate) StartX(x float64) float64 {
	return x - d.positionFactor*d.Width()
}

// EndX returns the end of the interval around x.
func (d *IntervalDelegate) EndX(x float64) float64 {
	return x + (1-d.positionFactor)*d.Width()
}

// DomainBounds spans every x-value of the source, widened to whole
// intervals when includeInterval is set. It returns nil without x-values.
func (d *IntervalDelegate) DomainBounds(includeInterval bool) *dataset.Range {
	low, high := math.NaN(), math.NaN()

	for series := range d.source.SeriesCount() {
		for _, x := range d.source.XValues(series) {
			low = dataset.MinIgnoreNaN(low, x)
			high = dataset.MaxIgnoreNaN(high, x)
		}
	}

	if math.IsNaN(low) {
		return nil
	}

	if includeInterval {
		low, high = d.StartX(low), d.EndX(high)
	}

	return &dataset.Range{Lower: low, Upper: high}
}

func (d *IntervalDelegate) recalculate() float64 {
	width := math.Inf(1)

	for series := range d.source.SeriesCount() {
		xs := d.source.XValues(series)
		for i := 1; i < len(xs); i++ {
			width = dataset.MinIgnoreNaN(width, xs[i]-xs[i-1])
		}
	}

	return width
}
