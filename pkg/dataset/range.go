package dataset

import (
	"fmt"
	"math"
)

// Range is a closed interval [Lower, Upper] on the real line. A degenerate
// range with NaN bounds stands for "no value in range".
type Range struct {
	Lower float64
	Upper float64
}

// NewRange validates lower <= upper. NaN bounds are accepted.
func NewRange(lower, upper float64) (Range, error) {
	if lower > upper {
		return Range{}, fmt.Errorf("%w: range lower bound %g exceeds upper bound %g", ErrInvalidArgument, lower, upper)
	}

	return Range{Lower: lower, Upper: upper}, nil
}

// NaNRange returns the degenerate range used when no value qualifies.
func NaNRange() Range {
	return Range{Lower: math.NaN(), Upper: math.NaN()}
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Lower && v <= r.Upper
}

// Length returns Upper - Lower.
func (r Range) Length() float64 {
	return r.Upper - r.Lower
}

// Central returns the midpoint of the range.
func (r Range) Central() float64 {
	return r.Lower/2 + r.Upper/2
}

// IsNaN reports whether both bounds are NaN.
func (r Range) IsNaN() bool {
	return math.IsNaN(r.Lower) && math.IsNaN(r.Upper)
}

// Combine returns the smallest range that covers both a and b, ignoring NaN
// bounds. A nil argument is treated as absent.
func Combine(a, b *Range) *Range {
	if a == nil {
		return b
	}

	if b == nil {
		return a
	}

	return &Range{
		Lower: MinIgnoreNaN(a.Lower, b.Lower),
		Upper: MaxIgnoreNaN(a.Upper, b.Upper),
	}
}

func (r Range) String() string {
	return fmt.Sprintf("Range[%g,%g]", r.Lower, r.Upper)
}
