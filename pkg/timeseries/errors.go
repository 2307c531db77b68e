// Package timeseries holds series of values indexed by regular time periods
// and a collection that exposes them as XY data.
package timeseries

import (
	"errors"
	"fmt"
)

// ErrSeries is the root of every series-specific failure.
var ErrSeries = errors.New("time series")

// Series errors.
var (
	// ErrInconsistentPeriodType reports a period whose kind differs from the
	// kind the series committed to with its first item.
	ErrInconsistentPeriodType = fmt.Errorf("%w: inconsistent period type", ErrSeries)
	// ErrDuplicatePeriod reports a strict add for a period already present.
	ErrDuplicatePeriod = fmt.Errorf("%w: duplicate period", ErrSeries)
	// ErrPeriodNotFound reports an update of a period that is not present.
	ErrPeriodNotFound = fmt.Errorf("%w: period not found", ErrSeries)
)
