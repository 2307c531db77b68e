package timeseries

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/period"
)

// Clone returns an independent deep copy without listeners.
func (s *Series) Clone() *Series {
	c := s.emptyCopy()
	c.items = slices.Clone(s.items)
	c.minY, c.maxY = s.minY, s.maxY

	return c
}

// CreateCopy returns a new series holding the items at indices start
// through end inclusive. An end beyond the last item is clamped.
func (s *Series) CreateCopy(start, end int) (*Series, error) {
	if start < 0 {
		return nil, fmt.Errorf("%w: negative start index %d", dataset.ErrInvalidArgument, start)
	}

	if end < start {
		return nil, fmt.Errorf("%w: end %d before start %d", dataset.ErrInvalidArgument, end, start)
	}

	c := s.emptyCopy()

	if start < len(s.items) {
		end = min(end, len(s.items)-1)
		c.items = slices.Clone(s.items[start : end+1])
		c.rescan()
	}

	return c, nil
}

// CreateCopyBetween returns a new series holding the items whose periods
// lie within [start, end]. A range that overlaps no item yields an empty
// copy rather than an error.
func (s *Series) CreateCopyBetween(start, end period.Period) (*Series, error) {
	if start.Compare(end) > 0 {
		return nil, fmt.Errorf("%w: start %s after end %s", dataset.ErrInvalidArgument, start, end)
	}

	first, _ := s.search(start)

	last, found := s.search(end)
	if !found {
		last--
	}

	if first >= len(s.items) || last < first {
		return s.emptyCopy(), nil
	}

	return s.CreateCopy(first, last)
}

// ValueRange returns the cached value bounds, nil for an empty series.
func (s *Series) ValueRange() *dataset.Range {
	if len(s.items) == 0 {
		return nil
	}

	return &dataset.Range{Lower: s.minY, Upper: s.maxY}
}

// FindValueRange returns the bounds of the finite values whose period,
// mapped to an instant through anchor in loc, falls inside xRange (Unix
// milliseconds). It returns nil for an empty series and a NaN range when
// no value qualifies.
func (s *Series) FindValueRange(xRange dataset.Range, anchor period.Anchor, loc *time.Location) *dataset.Range {
	if len(s.items) == 0 {
		return nil
	}

	if loc == nil {
		loc = s.loc
	}

	low, high := math.Inf(1), math.Inf(-1)
	found := false

	for _, item := range s.items {
		x := float64(item.Period.MillisecondAt(anchor, loc))
		if !xRange.Contains(x) || !item.Value.Finite() {
			continue
		}

		low = math.Min(low, item.Value.Float)
		high = math.Max(high, item.Value.Float)
		found = true
	}

	if !found {
		r := dataset.NaNRange()

		return &r
	}

	return &dataset.Range{Lower: low, Upper: high}
}

// PeriodsUniqueToOther returns the periods of other that s does not hold.
func (s *Series) PeriodsUniqueToOther(other *Series) []period.Period {
	var out []period.Period

	for _, item := range other.items {
		if _, found := s.search(item.Period); !found {
			out = append(out, item.Period)
		}
	}

	return out
}

// Equal compares identity, settings and items. Listeners and the logger
// are ignored.
func (s *Series) Equal(o *Series) bool {
	if s == o {
		return true
	}

	if o == nil || s.key != o.key || s.description != o.description ||
		s.domainDescription != o.domainDescription || s.rangeDescription != o.rangeDescription ||
		s.kind != o.kind || s.maxItemCount != o.maxItemCount || s.maxItemAge != o.maxItemAge {
		return false
	}

	return slices.EqualFunc(s.items, o.items, DataItem.Equal)
}

func (s *Series) emptyCopy() *Series {
	c := &Series{
		key:               s.key,
		description:       s.description,
		domainDescription: s.domainDescription,
		rangeDescription:  s.rangeDescription,
		kind:              s.kind,
		maxItemCount:      s.maxItemCount,
		maxItemAge:        s.maxItemAge,
		minY:              math.NaN(),
		maxY:              math.NaN(),
		loc:               s.loc,
		logger:            s.logger,
	}
	c.Bind(c)

	return c
}
