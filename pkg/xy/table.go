package xy

import (
	"fmt"
	"math"
	"slices"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/keyed"
)

// TableDataset keeps its series aligned on one shared set of x-values:
// every series holds exactly one item, possibly null, for every x-value
// any of them holds. Series that allow duplicate x-values are rejected.
//
// A change to any series triggers a resynchronisation pass, run with the
// dataset muted so the null placeholders it injects do not cascade, and
// then a single re-broadcast of the change.
type TableDataset struct {
	dataset.Notifier

	series    *keyed.Objects[string, *Series]
	xPoints   []float64
	autoPrune bool
	interval  *IntervalDelegate
}

// NewTableDataset creates an empty dataset. With autoPrune, x-values that
// are null in every series are dropped when a series is removed.
func NewTableDataset(autoPrune bool) *TableDataset {
	d := &TableDataset{
		series:    keyed.NewObjects[string, *Series](),
		autoPrune: autoPrune,
	}
	d.Bind(d)
	d.interval = NewIntervalDelegate(d, d)
	d.AddChangeListener(d.interval)

	return d
}

// Changed resynchronises x-values after a series changed and re-broadcasts
// the event. Events that arrive during a resynchronisation are ignored.
func (d *TableDataset) Changed(event dataset.ChangeEvent) {
	if d.Muted() {
		return
	}

	d.syncAll()
	d.FireCaused(event)
}

// Interval returns the interval settings of the dataset.
func (d *TableDataset) Interval() *IntervalDelegate { return d.interval }

// AutoPrune reports whether all-null x-values are pruned on series removal.
func (d *TableDataset) AutoPrune() bool { return d.autoPrune }

// SetAutoPrune switches auto pruning; enabling it prunes immediately.
func (d *TableDataset) SetAutoPrune(autoPrune bool) {
	d.autoPrune = autoPrune

	if autoPrune {
		d.Prune()
	}
}

// SeriesCount returns the number of series.
func (d *TableDataset) SeriesCount() int { return d.series.Len() }

// Series returns the series at index i.
func (d *TableDataset) Series(i int) (*Series, error) { return d.series.At(i) }

// SeriesByKey returns the series with key, failing with ErrUnknownKey.
func (d *TableDataset) SeriesByKey(key string) (*Series, error) { return d.series.Get(key) }

// SeriesKeys returns the keys in order.
func (d *TableDataset) SeriesKeys() []string { return d.series.Keys() }

// XPoints returns the shared x-values in ascending order.
func (d *TableDataset) XPoints() []float64 { return slices.Clone(d.xPoints) }

// AddSeries attaches s after aligning it with the existing series: x-values
// missing from s are added to it as nulls and its own new x-values are
// added as nulls to every other series. One event is fired.
func (d *TableDataset) AddSeries(s *Series) error {
	if s == nil {
		return fmt.Errorf("%w: nil series", dataset.ErrInvalidArgument)
	}

	if s.AllowsDuplicateX() {
		return fmt.Errorf("%w: series %q allows duplicate x-values", dataset.ErrInvalidArgument, s.Key())
	}

	if d.series.Contains(s.Key()) {
		return fmt.Errorf("%w: %q", ErrDuplicateSeriesKey, s.Key())
	}

	release := d.Mute()
	d.sync(s)
	release()

	d.series.Set(s.Key(), s)
	s.AddChangeListener(d)
	d.Fire()

	return nil
}

// RemoveSeries detaches and removes the series with key.
func (d *TableDataset) RemoveSeries(key string) error {
	if !d.series.Contains(key) {
		return fmt.Errorf("%w: series %q", dataset.ErrUnknownKey, key)
	}

	return d.RemoveSeriesAt(d.series.Index(key))
}

// RemoveSeriesAt detaches and removes the series at index i. Removing the
// last series clears the shared x-values; otherwise auto pruning applies.
func (d *TableDataset) RemoveSeriesAt(i int) error {
	s, err := d.series.At(i)
	if err != nil {
		return err
	}

	s.RemoveChangeListener(d)

	if err := d.series.RemoveAt(i); err != nil {
		return err
	}

	release := d.Mute()

	switch {
	case d.series.Len() == 0:
		d.xPoints = nil
	case d.autoPrune:
		d.prune()
	}

	release()
	d.Fire()

	return nil
}

// RemoveAllSeries detaches every series and clears the x-values.
func (d *TableDataset) RemoveAllSeries() {
	for _, s := range d.series.Values() {
		s.RemoveChangeListener(d)
	}

	d.series.Clear()
	d.xPoints = nil
	d.Fire()
}

// ItemCount returns the number of items of series i, which is the same for
// every series.
func (d *TableDataset) ItemCount(series int) (int, error) {
	s, err := d.series.At(series)
	if err != nil {
		return 0, err
	}

	return s.ItemCount(), nil
}

// XValues returns the x-values of series i, nil for a bad index.
func (d *TableDataset) XValues(series int) []float64 {
	s, err := d.series.At(series)
	if err != nil {
		return nil
	}

	return s.XValues()
}

// X returns an item's x-value.
func (d *TableDataset) X(series, item int) (float64, error) {
	s, err := d.series.At(series)
	if err != nil {
		return 0, err
	}

	return s.X(item)
}

// Y returns an item's y-value.
func (d *TableDataset) Y(series, item int) (dataset.Number, error) {
	s, err := d.series.At(series)
	if err != nil {
		return dataset.Null, err
	}

	return s.Y(item)
}

// StartX returns the start of an item's interval.
func (d *TableDataset) StartX(series, item int) (float64, error) {
	x, err := d.X(series, item)

	return d.interval.StartX(x), err
}

// EndX returns the end of an item's interval.
func (d *TableDataset) EndX(series, item int) (float64, error) {
	x, err := d.X(series, item)

	return d.interval.EndX(x), err
}

// DomainBounds spans the shared x-values, nil when there are none.
func (d *TableDataset) DomainBounds(includeInterval bool) *dataset.Range {
	if includeInterval {
		return d.interval.DomainBounds(true)
	}

	return boundsOf(d.series.Values(), func(s *Series) (float64, float64) { return s.MinX(), s.MaxX() })
}

// RangeBounds spans the finite y-values of all series.
func (d *TableDataset) RangeBounds() *dataset.Range {
	return boundsOf(d.series.Values(), func(s *Series) (float64, float64) { return s.MinY(), s.MaxY() })
}

// CanPrune reports whether every series holds null at x.
func (d *TableDataset) CanPrune(x float64) bool {
	for _, s := range d.series.Values() {
		if i := s.IndexOf(x); i >= 0 && !s.items[i].Y.IsNull() {
			return false
		}
	}

	return true
}

// Prune removes every x-value that is null in all series.
func (d *TableDataset) Prune() {
	release := d.Mute()
	removed := d.prune()
	release()

	if removed > 0 {
		d.Fire()
	}
}

// RemoveAllValuesForX removes x from every series and from the shared set.
func (d *TableDataset) RemoveAllValuesForX(x float64) error {
	i, found := slices.BinarySearch(d.xPoints, x)
	if !found {
		return fmt.Errorf("%w: x %g", dataset.ErrUnknownKey, x)
	}

	release := d.Mute()
	d.removeX(i, x)
	release()
	d.Fire()

	return nil
}

func (d *TableDataset) prune() int {
	removed := 0

	for _, x := range slices.Clone(d.xPoints) {
		if !d.CanPrune(x) {
			continue
		}

		i, _ := slices.BinarySearch(d.xPoints, x)
		d.removeX(i, x)
		removed++
	}

	return removed
}

// removeX drops x from every series. The caller holds the mute guard.
func (d *TableDataset) removeX(i int, x float64) {
	for _, s := range d.series.Values() {
		if j := s.IndexOf(x); j >= 0 {
			_, _ = s.Remove(j)
		}
	}

	d.xPoints = slices.Delete(d.xPoints, i, i+1)
}

// syncAll realigns every series, muted.
func (d *TableDataset) syncAll() {
	release := d.Mute()
	defer release()

	for _, s := range d.series.Values() {
		d.sync(s)
	}
}

// sync adds the x-values of s that are new to the dataset to every other
// series and the dataset's x-values that s lacks to s, all as nulls. The
// caller holds the mute guard.
func (d *TableDataset) sync(s *Series) {
	seen := make(map[float64]struct{}, s.ItemCount())
	hasNaN := false

	for _, x := range s.XValues() {
		if math.IsNaN(x) {
			hasNaN = true
		} else {
			seen[x] = struct{}{}
		}

		i, found := slices.BinarySearch(d.xPoints, x)
		if found {
			continue
		}

		d.xPoints = slices.Insert(d.xPoints, i, x)

		// x is new to the dataset, so no series holds it yet and Add
		// cannot fail.
		for _, other := range d.series.Values() {
			if other != s {
				_ = other.Add(x, dataset.Null)
			}
		}
	}

	for _, x := range slices.Clone(d.xPoints) {
		if _, ok := seen[x]; ok || (hasNaN && math.IsNaN(x)) {
			continue
		}

		_ = s.Add(x, dataset.Null)
	}
}
