package timeseries

import (
	"fmt"
	"time"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/keyed"
	"github.com/Sumatoshi-tech/chartdata/pkg/period"
)

// Collection presents time series as XY data. The x-value of an item is an
// instant of its period, in Unix milliseconds, selected by the collection's
// anchor in the collection's time zone.
//
// The collection listens to its series and re-broadcasts their changes.
type Collection struct {
	dataset.Notifier

	series *keyed.Objects[string, *Series]
	anchor period.Anchor
	loc    *time.Location
}

// NewCollection creates an empty collection using the start of each period
// as its x-value. A nil loc means UTC.
func NewCollection(loc *time.Location) *Collection {
	if loc == nil {
		loc = time.UTC
	}

	c := &Collection{
		series: keyed.NewObjects[string, *Series](),
		anchor: period.Start,
		loc:    loc,
	}
	c.Bind(c)

	return c
}

// Changed receives events from member series.
func (c *Collection) Changed(event dataset.ChangeEvent) {
	c.FireCaused(event)
}

// Location returns the time zone used for x-values.
func (c *Collection) Location() *time.Location { return c.loc }

// XPosition returns the anchor used for x-values.
func (c *Collection) XPosition() period.Anchor { return c.anchor }

// SetXPosition changes the anchor and notifies listeners.
func (c *Collection) SetXPosition(anchor period.Anchor) {
	c.anchor = anchor
	c.Fire()
}

// DomainOrder reports that x-values ascend within every series.
func (c *Collection) DomainOrder() dataset.DomainOrder {
	return dataset.DomainOrderAscending
}

// SeriesCount returns the number of series.
func (c *Collection) SeriesCount() int { return c.series.Len() }

// Series returns the series at index i.
func (c *Collection) Series(i int) (*Series, error) {
	return c.series.At(i)
}

// SeriesByKey returns the series with the given key.
func (c *Collection) SeriesByKey(key string) (*Series, error) {
	return c.series.Get(key)
}

// SeriesKeys returns the keys in order.
func (c *Collection) SeriesKeys() []string {
	return c.series.Keys()
}

// IndexOf returns the position of the series with key, or -1.
func (c *Collection) IndexOf(key string) int {
	return c.series.Index(key)
}

// AddSeries appends s and starts listening to it. Keys must be unique.
func (c *Collection) AddSeries(s *Series) error {
	if s == nil {
		return fmt.Errorf("%w: nil series", dataset.ErrInvalidArgument)
	}

	if c.series.Contains(s.Key()) {
		return fmt.Errorf("%w: duplicate series key %q", dataset.ErrInvalidArgument, s.Key())
	}

	c.series.Set(s.Key(), s)
	s.AddChangeListener(c)
	c.Fire()

	return nil
}

// RemoveSeries detaches and removes the series with key.
func (c *Collection) RemoveSeries(key string) error {
	if !c.series.Contains(key) {
		return fmt.Errorf("%w: series %q", dataset.ErrUnknownKey, key)
	}

	return c.RemoveSeriesAt(c.series.Index(key))
}

// RemoveSeriesAt detaches and removes the series at index i.
func (c *Collection) RemoveSeriesAt(i int) error {
	s, err := c.series.At(i)
	if err != nil {
		return err
	}

	s.RemoveChangeListener(c)

	if err := c.series.RemoveAt(i); err != nil {
		return err
	}

	c.Fire()

	return nil
}

// RemoveAllSeries detaches every series.
func (c *Collection) RemoveAllSeries() {
	for _, s := range c.series.Values() {
		s.RemoveChangeListener(c)
	}

	c.series.Clear()
	c.Fire()
}

// ItemCount returns the number of items in series i.
func (c *Collection) ItemCount(series int) (int, error) {
	s, err := c.series.At(series)
	if err != nil {
		return 0, err
	}

	return s.ItemCount(), nil
}

// X returns the anchored instant of an item.
func (c *Collection) X(series, item int) (int64, error) {
	p, err := c.period(series, item)
	if err != nil {
		return 0, err
	}

	return p.MillisecondAt(c.anchor, c.loc), nil
}

// StartX returns the first millisecond of an item's period.
func (c *Collection) StartX(series, item int) (int64, error) {
	p, err := c.period(series, item)
	if err != nil {
		return 0, err
	}

	return p.FirstMillisecond(c.loc), nil
}

// EndX returns the last millisecond of an item's period.
func (c *Collection) EndX(series, item int) (int64, error) {
	p, err := c.period(series, item)
	if err != nil {
		return 0, err
	}

	return p.LastMillisecond(c.loc), nil
}

// Y returns the value of an item.
func (c *Collection) Y(series, item int) (dataset.Number, error) {
	s, err := c.series.At(series)
	if err != nil {
		return dataset.Null, err
	}

	return s.Value(item)
}

// DomainBounds spans the x-values of every series. With includeInterval
// the whole first and last periods are covered instead of their anchors.
// It returns nil when no series has items.
func (c *Collection) DomainBounds(includeInterval bool) *dataset.Range {
	var out *dataset.Range

	for _, s := range c.series.Values() {
		n := s.ItemCount()
		if n == 0 {
			continue
		}

		first, last := s.items[0].Period, s.items[n-1].Period

		var r dataset.Range
		if includeInterval {
			r = dataset.Range{Lower: float64(first.FirstMillisecond(c.loc)), Upper: float64(last.LastMillisecond(c.loc))}
		} else {
			r = dataset.Range{
				Lower: float64(first.MillisecondAt(c.anchor, c.loc)),
				Upper: float64(last.MillisecondAt(c.anchor, c.loc)),
			}
		}

		out = dataset.Combine(out, &r)
	}

	return out
}

// RangeBounds combines the cached value bounds of every series.
func (c *Collection) RangeBounds() *dataset.Range {
	var out *dataset.Range

	for _, s := range c.series.Values() {
		out = dataset.Combine(out, s.ValueRange())
	}

	return out
}

// VisibleRangeBounds combines the value bounds of the named series over the
// items whose x-value lies in xRange.
func (c *Collection) VisibleRangeBounds(keys []string, xRange dataset.Range) (*dataset.Range, error) {
	var out *dataset.Range

	for _, key := range keys {
		s, err := c.series.Get(key)
		if err != nil {
			return nil, err
		}

		out = dataset.Combine(out, s.FindValueRange(xRange, c.anchor, c.loc))
	}

	return out, nil
}

// SurroundingItems returns the indices of the last item at or before
// millis and the first item at or after it, -1 when there is none.
func (c *Collection) SurroundingItems(series int, millis int64) (before, after int, err error) {
	s, err := c.series.At(series)
	if err != nil {
		return -1, -1, err
	}

	before, after = -1, -1

	for i, item := range s.items {
		x := item.Period.MillisecondAt(c.anchor, c.loc)
		if x <= millis {
			before = i
		}

		if x >= millis {
			after = i

			break
		}
	}

	return before, after, nil
}

func (c *Collection) period(series, item int) (period.Period, error) {
	s, err := c.series.At(series)
	if err != nil {
		return period.Period{}, err
	}

	return s.TimePeriod(item)
}
