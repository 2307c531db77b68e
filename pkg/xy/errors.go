// Package xy holds series of (x, y) pairs and the datasets that group them:
// a plain collection and a table dataset whose series all share the same
// set of x-values.
package xy

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

var (
	// ErrDuplicateX reports a strict add of an x-value the series already
	// holds while duplicates are not allowed.
	ErrDuplicateX = errors.New("duplicate x-value")
	// ErrDuplicateSeriesKey reports a series whose key is already in use by
	// the dataset.
	ErrDuplicateSeriesKey = fmt.Errorf("%w: duplicate series key", dataset.ErrInvalidArgument)
)
