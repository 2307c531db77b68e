// Package safeconv provides integer conversions that panic on overflow.
package safeconv

import "math"

// MustIntToUint32 converts int to uint32, panics on bounds violation.
// Use only when the value is known to fit, such as a document size.
func MustIntToUint32(v int) uint32 {
	if v < 0 || v > math.MaxUint32 {
		panic("safeconv: int to uint32 out of bounds")
	}

	return uint32(v)
}

// MustInt64ToUint64 converts int64 to uint64, panics if negative.
func MustInt64ToUint64(v int64) uint64 {
	if v < 0 {
		panic("safeconv: negative int64 to uint64 conversion")
	}

	return uint64(v)
}
