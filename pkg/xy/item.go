package xy

import (
	"cmp"
	"fmt"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

// DataItem is one (x, y) pair. y may be null.
type DataItem struct {
	X float64
	Y dataset.Number
}

// Point builds an item with a present y.
func Point(x, y float64) DataItem {
	return DataItem{X: x, Y: dataset.Num(y)}
}

// Compare orders items by x.
func (d DataItem) Compare(o DataItem) int {
	return cmp.Compare(d.X, o.X)
}

// Equal compares both coordinates.
func (d DataItem) Equal(o DataItem) bool {
	return cmp.Compare(d.X, o.X) == 0 && d.Y.Equal(o.Y)
}

func (d DataItem) String() string {
	return fmt.Sprintf("[%g, %s]", d.X, d.Y)
}
