package timeseries

import (
	"fmt"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/period"
)

// DataItem pairs a period with a nullable value. It is a plain value, so
// items handed out by a Series are independent copies.
type DataItem struct {
	Period period.Period
	Value  dataset.Number
}

// Item builds a DataItem holding v.
func Item(p period.Period, v float64) DataItem {
	return DataItem{Period: p, Value: dataset.Num(v)}
}

// Compare orders items by period.
func (d DataItem) Compare(o DataItem) int {
	return d.Period.Compare(o.Period)
}

// Equal compares period and value.
func (d DataItem) Equal(o DataItem) bool {
	return d.Period == o.Period && d.Value.Equal(o.Value)
}

func (d DataItem) String() string {
	return fmt.Sprintf("%s=%s", d.Period, d.Value)
}
