package xy

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

// Series is a keyed sequence of (x, y) items. By default items are kept
// sorted by x and duplicate x-values are allowed; both can be switched off
// at construction. The series caches the bounds of its x and y values.
type Series struct {
	dataset.Notifier

	key             string
	description     string
	autoSort        bool
	allowDuplicateX bool
	maxItemCount    int

	items []DataItem

	minX, maxX float64
	minY, maxY float64
}

// SeriesOption configures a Series.
type SeriesOption func(*Series)

// WithAutoSort keeps items sorted by x when set, in insertion order when not.
func WithAutoSort(autoSort bool) SeriesOption {
	return func(s *Series) {
		s.autoSort = autoSort
	}
}

// WithDuplicateX allows or forbids repeated x-values.
func WithDuplicateX(allow bool) SeriesOption {
	return func(s *Series) {
		s.allowDuplicateX = allow
	}
}

// NewSeries creates an empty series. The key never changes afterwards.
func NewSeries(key string, opts ...SeriesOption) *Series {
	s := &Series{
		key:             key,
		autoSort:        true,
		allowDuplicateX: true,
		maxItemCount:    math.MaxInt,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.resetBounds()
	s.Bind(s)

	return s
}

// Key returns the series key.
func (s *Series) Key() string { return s.key }

// Description returns the free-text description.
func (s *Series) Description() string { return s.description }

// SetDescription replaces the description.
func (s *Series) SetDescription(description string) { s.description = description }

// AutoSort reports whether items are kept in x order.
func (s *Series) AutoSort() bool { return s.autoSort }

// AllowsDuplicateX reports whether repeated x-values are accepted.
func (s *Series) AllowsDuplicateX() bool { return s.allowDuplicateX }

// ItemCount returns the number of items.
func (s *Series) ItemCount() int { return len(s.items) }

// MinX returns the smallest x, NaN when empty.
func (s *Series) MinX() float64 { return s.minX }

// MaxX returns the largest x, NaN when empty.
func (s *Series) MaxX() float64 { return s.maxX }

// MinY returns the smallest finite y, NaN when there is none.
func (s *Series) MinY() float64 { return s.minY }

// MaxY returns the largest finite y, NaN when there is none.
func (s *Series) MaxY() float64 { return s.maxY }

// Items returns a copy of the items.
func (s *Series) Items() []DataItem {
	return slices.Clone(s.items)
}

// XValues returns the x-values in item order.
func (s *Series) XValues() []float64 {
	out := make([]float64, len(s.items))
	for i, item := range s.items {
		out[i] = item.X
	}

	return out
}

// DataItem returns the item at index i.
func (s *Series) DataItem(i int) (DataItem, error) {
	if err := s.checkIndex(i); err != nil {
		return DataItem{}, err
	}

	return s.items[i], nil
}

// X returns the x-value at index i.
func (s *Series) X(i int) (float64, error) {
	item, err := s.DataItem(i)

	return item.X, err
}

// Y returns the y-value at index i.
func (s *Series) Y(i int) (dataset.Number, error) {
	item, err := s.DataItem(i)

	return item.Y, err
}

// IndexOf returns the position of the first item with x, or -1.
func (s *Series) IndexOf(x float64) int {
	i, found := s.search(x)
	if !found {
		return -1
	}

	return i
}

// MaximumItemCount returns the item count limit.
func (s *Series) MaximumItemCount() int { return s.maxItemCount }

// SetMaximumItemCount sets the limit and drops the first items over it.
func (s *Series) SetMaximumItemCount(limit int) error {
	if limit < 0 {
		return fmt.Errorf("%w: negative maximum item count %d", dataset.ErrInvalidArgument, limit)
	}

	s.maxItemCount = limit

	if excess := len(s.items) - limit; excess > 0 {
		s.items = slices.Delete(s.items, 0, excess)
		s.rescan()
		s.Fire()
	}

	return nil
}

// Add inserts (x, y) and notifies listeners.
func (s *Series) Add(x float64, y dataset.Number) error {
	return s.AddItem(DataItem{X: x, Y: y}, true)
}

// AddItem inserts item. A sorted series places it after any items with the
// same x; an unsorted one appends it. When duplicates are forbidden an
// existing x fails with ErrDuplicateX.
func (s *Series) AddItem(item DataItem, notify bool) error {
	i, found := s.search(item.X)

	if found && !s.allowDuplicateX {
		return fmt.Errorf("%w: %g in series %q", ErrDuplicateX, item.X, s.key)
	}

	switch {
	case !s.autoSort:
		i = len(s.items)
	case found:
		for i < len(s.items) && cmp.Compare(s.items[i].X, item.X) == 0 {
			i++
		}
	}

	s.insert(i, item)

	if notify {
		s.Fire()
	}

	return nil
}

// AddOrUpdate sets y for x. With duplicates forbidden an existing item is
// overwritten and its prior state returned; otherwise the item is added.
func (s *Series) AddOrUpdate(x float64, y dataset.Number) (*DataItem, error) {
	if s.allowDuplicateX {
		return nil, s.Add(x, y)
	}

	i, found := s.search(x)
	if !found {
		if !s.autoSort {
			i = len(s.items)
		}

		s.insert(i, DataItem{X: x, Y: y})
		s.Fire()

		return nil, nil
	}

	prior := s.items[i]
	s.replace(i, y)
	s.Fire()

	return &prior, nil
}

// Update replaces y of the first item with x.
func (s *Series) Update(x float64, y dataset.Number) error {
	i, found := s.search(x)
	if !found {
		return fmt.Errorf("%w: x %g in series %q", dataset.ErrUnknownKey, x, s.key)
	}

	s.replace(i, y)
	s.Fire()

	return nil
}

// UpdateAt replaces y at index i.
func (s *Series) UpdateAt(i int, y dataset.Number) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}

	s.replace(i, y)
	s.Fire()

	return nil
}

// Remove deletes and returns the item at index i.
func (s *Series) Remove(i int) (DataItem, error) {
	if err := s.checkIndex(i); err != nil {
		return DataItem{}, err
	}

	removed := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)

	if s.onBoundary(removed) {
		s.rescan()
	}

	s.Fire()

	return removed, nil
}

// RemoveX deletes the first item with x.
func (s *Series) RemoveX(x float64) (DataItem, error) {
	i, found := s.search(x)
	if !found {
		return DataItem{}, fmt.Errorf("%w: x %g in series %q", dataset.ErrUnknownKey, x, s.key)
	}

	return s.Remove(i)
}

// Delete removes the items at indices start through end inclusive.
func (s *Series) Delete(start, end int) error {
	if end < start {
		return fmt.Errorf("%w: end %d before start %d", dataset.ErrInvalidArgument, end, start)
	}

	if err := s.checkIndex(start); err != nil {
		return err
	}

	if err := s.checkIndex(end); err != nil {
		return err
	}

	s.items = slices.Delete(s.items, start, end+1)
	s.rescan()
	s.Fire()

	return nil
}

// Clear removes every item.
func (s *Series) Clear() {
	if len(s.items) == 0 {
		return
	}

	s.items = nil
	s.resetBounds()
	s.Fire()
}

// CreateCopy returns a new series with the items at indices start through
// end inclusive; end is clamped to the last item.
func (s *Series) CreateCopy(start, end int) (*Series, error) {
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: copy range [%d,%d]", dataset.ErrInvalidArgument, start, end)
	}

	c := s.emptyCopy()

	if start < len(s.items) {
		c.items = slices.Clone(s.items[start : min(end, len(s.items)-1)+1])
		c.rescan()
	}

	return c, nil
}

// Clone returns an independent copy without listeners.
func (s *Series) Clone() *Series {
	c := s.emptyCopy()
	c.items = slices.Clone(s.items)
	c.minX, c.maxX, c.minY, c.maxY = s.minX, s.maxX, s.minY, s.maxY

	return c
}

// Equal compares key, policies and items.
func (s *Series) Equal(o *Series) bool {
	if s == o {
		return true
	}

	if o == nil || s.key != o.key || s.description != o.description || s.autoSort != o.autoSort ||
		s.allowDuplicateX != o.allowDuplicateX || s.maxItemCount != o.maxItemCount {
		return false
	}

	return slices.EqualFunc(s.items, o.items, DataItem.Equal)
}

func (s *Series) emptyCopy() *Series {
	c := &Series{
		key:             s.key,
		description:     s.description,
		autoSort:        s.autoSort,
		allowDuplicateX: s.allowDuplicateX,
		maxItemCount:    s.maxItemCount,
	}
	c.resetBounds()
	c.Bind(c)

	return c
}

func (s *Series) checkIndex(i int) error {
	if i < 0 || i >= len(s.items) {
		return fmt.Errorf("%w: index %d outside [0,%d)", dataset.ErrInvalidArgument, i, len(s.items))
	}

	return nil
}

// search finds the first item with x. For a sorted series a miss returns
// the insertion point.
func (s *Series) search(x float64) (int, bool) {
	if s.autoSort {
		return slices.BinarySearchFunc(s.items, x, func(item DataItem, target float64) int {
			return cmp.Compare(item.X, target)
		})
	}

	i := slices.IndexFunc(s.items, func(item DataItem) bool {
		return cmp.Compare(item.X, x) == 0
	})

	return i, i >= 0
}

func (s *Series) insert(i int, item DataItem) {
	s.items = slices.Insert(s.items, i, item)
	s.include(item)

	if len(s.items) > s.maxItemCount {
		removed := s.items[0]
		s.items = slices.Delete(s.items, 0, 1)

		if s.onBoundary(removed) {
			s.rescan()
		}
	}
}

func (s *Series) replace(i int, y dataset.Number) {
	old := s.items[i].Y
	s.items[i].Y = y

	if old.Finite() && (old.Float <= s.minY || old.Float >= s.maxY) {
		s.rescan()

		return
	}

	s.include(s.items[i])
}

func (s *Series) onBoundary(item DataItem) bool {
	if item.X <= s.minX || item.X >= s.maxX {
		return true
	}

	return item.Y.Finite() && (item.Y.Float <= s.minY || item.Y.Float >= s.maxY)
}

func (s *Series) include(item DataItem) {
	s.minX = dataset.MinIgnoreNaN(s.minX, item.X)
	s.maxX = dataset.MaxIgnoreNaN(s.maxX, item.X)

	if item.Y.Finite() {
		s.minY = dataset.MinIgnoreNaN(s.minY, item.Y.Float)
		s.maxY = dataset.MaxIgnoreNaN(s.maxY, item.Y.Float)
	}
}

func (s *Series) resetBounds() {
	s.minX, s.maxX = math.NaN(), math.NaN()
	s.minY, s.maxY = math.NaN(), math.NaN()
}

func (s *Series) rescan() {
	s.resetBounds()

	for _, item := range s.items {
		s.include(item)
	}
}
