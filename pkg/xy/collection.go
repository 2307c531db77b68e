package xy

import (
	"fmt"
	"math"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/keyed"
)

// Collection is an ordered set of uniquely keyed series. It listens to its
// series and re-broadcasts their changes.
type Collection struct {
	dataset.Notifier

	series   *keyed.Objects[string, *Series]
	interval *IntervalDelegate
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	c := &Collection{series: keyed.NewObjects[string, *Series]()}
	c.Bind(c)
	c.interval = NewIntervalDelegate(c, c)
	c.AddChangeListener(c.interval)

	return c
}

// Changed receives events from member series.
func (c *Collection) Changed(event dataset.ChangeEvent) {
	c.FireCaused(event)
}

// Interval returns the interval settings of the collection.
func (c *Collection) Interval() *IntervalDelegate { return c.interval }

// SeriesCount returns the number of series.
func (c *Collection) SeriesCount() int { return c.series.Len() }

// Series returns the series at index i.
func (c *Collection) Series(i int) (*Series, error) { return c.series.At(i) }

// SeriesByKey returns the series with key, failing with ErrUnknownKey.
func (c *Collection) SeriesByKey(key string) (*Series, error) { return c.series.Get(key) }

// SeriesKeys returns the keys in order.
func (c *Collection) SeriesKeys() []string { return c.series.Keys() }

// IndexOf returns the position of the series with key, or -1.
func (c *Collection) IndexOf(key string) int { return c.series.Index(key) }

// AddSeries appends s and starts listening to it.
func (c *Collection) AddSeries(s *Series) error {
	if s == nil {
		return fmt.Errorf("%w: nil series", dataset.ErrInvalidArgument)
	}

	if c.series.Contains(s.Key()) {
		return fmt.Errorf("%w: %q", ErrDuplicateSeriesKey, s.Key())
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

// XValues returns the x-values of series i, nil for a bad index.
func (c *Collection) XValues(series int) []float64 {
	s, err := c.series.At(series)
	if err != nil {
		return nil
	}

	return s.XValues()
}

// X returns an item's x-value.
func (c *Collection) X(series, item int) (float64, error) {
	s, err := c.series.At(series)
	if err != nil {
		return 0, err
	}

	return s.X(item)
}

// Y returns an item's y-value.
func (c *Collection) Y(series, item int) (dataset.Number, error) {
	s, err := c.series.At(series)
	if err != nil {
		return dataset.Null, err
	}

	return s.Y(item)
}

// StartX returns the start of an item's interval.
func (c *Collection) StartX(series, item int) (float64, error) {
	x, err := c.X(series, item)

	return c.interval.StartX(x), err
}

// EndX returns the end of an item's interval.
func (c *Collection) EndX(series, item int) (float64, error) {
	x, err := c.X(series, item)

	return c.interval.EndX(x), err
}

// DomainBounds spans the x-values of all series, nil when there are none.
func (c *Collection) DomainBounds(includeInterval bool) *dataset.Range {
	if includeInterval {
		return c.interval.DomainBounds(true)
	}

	return boundsOf(c.series.Values(), func(s *Series) (float64, float64) { return s.MinX(), s.MaxX() })
}

// RangeBounds spans the finite y-values of all series.
func (c *Collection) RangeBounds() *dataset.Range {
	return boundsOf(c.series.Values(), func(s *Series) (float64, float64) { return s.MinY(), s.MaxY() })
}

func boundsOf(series []*Series, bounds func(*Series) (float64, float64)) *dataset.Range {
	var out *dataset.Range

	for _, s := range series {
		low, high := bounds(s)
		if math.IsNaN(low) {
			continue
		}

		out = dataset.Combine(out, &dataset.Range{Lower: low, Upper: high})
	}

	return out
}
