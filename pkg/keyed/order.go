package keyed

import (
	"fmt"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

// SortOrder selects ascending or descending sorts.
type SortOrder int

// Sort orders.
const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) validate() error {
	if o != Ascending && o != Descending {
		return fmt.Errorf("%w: sort order %d", dataset.ErrInvalidArgument, int(o))
	}

	return nil
}

func (o SortOrder) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return fmt.Sprintf("SortOrder(%d)", int(o))
	}
}
