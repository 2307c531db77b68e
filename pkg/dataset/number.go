package dataset

import (
	"math"
	"strconv"
)

// Number is a nullable float64. The zero value is null.
type Number struct {
	Float float64
	Valid bool
}

// Null is the absent value.
var Null = Number{}

// Num wraps v as a present value.
func Num(v float64) Number {
	return Number{Float: v, Valid: true}
}

// FromPtr converts a *float64 (nil meaning null) to a Number.
func FromPtr(p *float64) Number {
	if p == nil {
		return Null
	}

	return Num(*p)
}

// Ptr returns the value as a *float64, nil when null.
func (n Number) Ptr() *float64 {
	if !n.Valid {
		return nil
	}

	v := n.Float

	return &v
}

// IsNull reports whether n holds no value.
func (n Number) IsNull() bool {
	return !n.Valid
}

// OrNaN returns the value, or NaN when null.
func (n Number) OrNaN() float64 {
	if !n.Valid {
		return math.NaN()
	}

	return n.Float
}

// Finite reports whether n holds a value that is not NaN.
func (n Number) Finite() bool {
	return n.Valid && !math.IsNaN(n.Float)
}

// Equal compares two numbers. Two nulls are equal, and NaN equals NaN so
// that structural comparison of collections is reflexive.
func (n Number) Equal(o Number) bool {
	if n.Valid != o.Valid {
		return false
	}

	if !n.Valid {
		return true
	}

	if math.IsNaN(n.Float) && math.IsNaN(o.Float) {
		return true
	}

	return n.Float == o.Float
}

func (n Number) String() string {
	if !n.Valid {
		return "null"
	}

	return strconv.FormatFloat(n.Float, 'g', -1, 64)
}

// MinIgnoreNaN returns the smaller of a and b, ignoring a NaN argument.
// It returns NaN only when both are NaN.
func MinIgnoreNaN(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}

	if math.IsNaN(b) {
		return a
	}

	return math.Min(a, b)
}

// MaxIgnoreNaN returns the larger of a and b, ignoring a NaN argument.
func MaxIgnoreNaN(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}

	if math.IsNaN(b) {
		return a
	}

	return math.Max(a, b)
}
