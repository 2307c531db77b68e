// Package stats summarizes nullable numeric values. Null, NaN and infinite
// values are counted but left out of every statistic.
package stats

import (
	"math"
	"slices"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

// PercentileMedian is the median threshold.
const PercentileMedian = 0.5

// Summary describes a set of values. Statistics are NaN when no value is
// finite.
type Summary struct {
	Count  int
	Finite int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// Summarize computes the summary of values.
func Summarize(values []dataset.Number) Summary {
	finite := Finite(values)

	s := Summary{
		Count:  len(values),
		Finite: len(finite),
		Min:    math.NaN(),
		Max:    math.NaN(),
		Mean:   math.NaN(),
		Median: math.NaN(),
	}

	if len(finite) == 0 {
		return s
	}

	slices.Sort(finite)

	s.Min = finite[0]
	s.Max = finite[len(finite)-1]
	s.Mean = Mean(finite)
	s.Median = sortedPercentile(finite, PercentileMedian)

	return s
}

// Finite returns the finite values in order.
func Finite(values []dataset.Number) []float64 {
	out := make([]float64, 0, len(values))

	for _, v := range values {
		if v.Finite() {
			out = append(out, v.Float)
		}
	}

	return out
}

// Mean returns the arithmetic mean of values, or NaN for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	var sum float64

	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// Percentile returns the p-th percentile of values using linear
// interpolation, or NaN for an empty slice. p is clamped to [0, 1] and
// values is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return sortedPercentile(sorted, max(0, min(p, 1)))
}

func sortedPercentile(sorted []float64, p float64) float64 {
	idx := p * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))

	if lower == upper {
		return sorted[lower]
	}

	frac := idx - float64(lower)

	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
