package timeseries

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/period"
)

// Default series settings.
const (
	DefaultDomainDescription = "Time"
	DefaultRangeDescription  = "Value"

	unlimitedCount = math.MaxInt
	unlimitedAge   = math.MaxInt64
)

// Series is a sequence of (period, value) items kept in strictly increasing
// period order. All periods share one kind, committed by the first item
// added and released by Clear.
//
// The series caches the minimum and maximum of its finite values and
// evicts the oldest items whenever the item count or the age span (in
// serial index units of its own kind) exceeds the configured maximum.
type Series struct {
	dataset.Notifier

	key               string
	description       string
	domainDescription string
	rangeDescription  string

	kind  period.Kind
	items []DataItem

	maxItemCount int
	maxItemAge   int64

	minY float64
	maxY float64

	loc    *time.Location
	logger *slog.Logger
}

// Option configures a Series.
type Option func(*Series)

// WithLocation sets the time zone used to turn periods into instants.
// The default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Series) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the logger that receives eviction records.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Series) {
		s.logger = logger
	}
}

// WithDescription sets the free-text description.
func WithDescription(description string) Option {
	return func(s *Series) {
		s.description = description
	}
}

// New creates an empty series. The key never changes afterwards.
func New(key string, opts ...Option) *Series {
	s := &Series{
		key:               key,
		domainDescription: DefaultDomainDescription,
		rangeDescription:  DefaultRangeDescription,
		maxItemCount:      unlimitedCount,
		maxItemAge:        unlimitedAge,
		minY:              math.NaN(),
		maxY:              math.NaN(),
		loc:               time.UTC,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.Bind(s)

	return s
}

// Key returns the series key.
func (s *Series) Key() string { return s.key }

// Description returns the free-text description.
func (s *Series) Description() string { return s.description }

// SetDescription replaces the description.
func (s *Series) SetDescription(description string) { s.description = description }

// DomainDescription labels the time axis.
func (s *Series) DomainDescription() string { return s.domainDescription }

// SetDomainDescription replaces the time axis label.
func (s *Series) SetDomainDescription(description string) { s.domainDescription = description }

// RangeDescription labels the value axis.
func (s *Series) RangeDescription() string { return s.rangeDescription }

// SetRangeDescription replaces the value axis label.
func (s *Series) SetRangeDescription(description string) { s.rangeDescription = description }

// Kind returns the committed period kind, or zero while unconstrained.
func (s *Series) Kind() period.Kind { return s.kind }

// Location returns the time zone used for instants.
func (s *Series) Location() *time.Location { return s.loc }

// ItemCount returns the number of items.
func (s *Series) ItemCount() int { return len(s.items) }

// IsEmpty reports whether the series has no items.
func (s *Series) IsEmpty() bool { return len(s.items) == 0 }

// MinY returns the smallest finite value, or NaN when there is none.
func (s *Series) MinY() float64 { return s.minY }

// MaxY returns the largest finite value, or NaN when there is none.
func (s *Series) MaxY() float64 { return s.maxY }

// Items returns a copy of all items in period order.
func (s *Series) Items() []DataItem {
	return slices.Clone(s.items)
}

// DataItem returns the item at index i.
func (s *Series) DataItem(i int) (DataItem, error) {
	if err := s.checkIndex(i); err != nil {
		return DataItem{}, err
	}

	return s.items[i], nil
}

// DataItemFor returns the item for period p.
func (s *Series) DataItemFor(p period.Period) (DataItem, bool) {
	i, found := s.search(p)
	if !found {
		return DataItem{}, false
	}

	return s.items[i], true
}

// TimePeriod returns the period at index i.
func (s *Series) TimePeriod(i int) (period.Period, error) {
	item, err := s.DataItem(i)

	return item.Period, err
}

// TimePeriods returns all periods in order.
func (s *Series) TimePeriods() []period.Period {
	out := make([]period.Period, len(s.items))
	for i, item := range s.items {
		out[i] = item.Period
	}

	return out
}

// Value returns the value at index i.
func (s *Series) Value(i int) (dataset.Number, error) {
	item, err := s.DataItem(i)

	return item.Value, err
}

// ValueFor returns the value for period p, null when p is absent.
func (s *Series) ValueFor(p period.Period) dataset.Number {
	item, _ := s.DataItemFor(p)

	return item.Value
}

// Index returns the position of p, or -1 when absent.
func (s *Series) Index(p period.Period) int {
	i, found := s.search(p)
	if !found {
		return -1
	}

	return i
}

// NextTimePeriod returns the period following the last item.
func (s *Series) NextTimePeriod() (period.Period, bool) {
	if len(s.items) == 0 {
		return period.Period{}, false
	}

	return s.items[len(s.items)-1].Period.Next()
}

// MaximumItemCount returns the item count limit.
func (s *Series) MaximumItemCount() int { return s.maxItemCount }

// SetMaximumItemCount sets the item count limit and drops the oldest items
// that exceed it.
func (s *Series) SetMaximumItemCount(limit int) error {
	if limit < 0 {
		return fmt.Errorf("%w: negative maximum item count %d", dataset.ErrInvalidArgument, limit)
	}

	s.maxItemCount = limit

	if excess := len(s.items) - limit; excess > 0 {
		s.removeFront(excess)
		s.log().Debug("evicted items over count limit", "series", s.key, "removed", excess, "limit", limit)
		s.Fire()
	}

	return nil
}

// MaximumItemAge returns the age limit in periods.
func (s *Series) MaximumItemAge() int64 { return s.maxItemAge }

// SetMaximumItemAge sets the age limit, in periods of the series kind, and
// drops items older than the newest item by more than that.
func (s *Series) SetMaximumItemAge(periods int64) error {
	if periods < 0 {
		return fmt.Errorf("%w: negative maximum item age %d", dataset.ErrInvalidArgument, periods)
	}

	s.maxItemAge = periods
	s.RemoveAgedItems(true)

	return nil
}

// Add appends value v for period p and notifies listeners.
func (s *Series) Add(p period.Period, v dataset.Number) error {
	return s.AddItem(DataItem{Period: p, Value: v}, true)
}

// AddItem inserts item in period order. It fails when the period kind does
// not match the series or the period is already present. Limits are
// enforced afterwards. Listeners are notified when notify is set.
func (s *Series) AddItem(item DataItem, notify bool) error {
	if err := s.checkPeriod(item.Period); err != nil {
		return err
	}

	i, found := s.search(item.Period)
	if found {
		return fmt.Errorf("%w: %s in series %q", ErrDuplicatePeriod, item.Period, s.key)
	}

	s.insert(i, item)

	if notify {
		s.Fire()
	}

	return nil
}

// AddOrUpdate sets the value for p, inserting the period if needed. When
// the period existed, the item it replaced is returned.
func (s *Series) AddOrUpdate(p period.Period, v dataset.Number) (*DataItem, error) {
	if err := s.checkPeriod(p); err != nil {
		return nil, err
	}

	var overwritten *DataItem

	i, found := s.search(p)
	if found {
		prior := s.items[i]
		overwritten = &prior

		s.replace(i, v)
		s.enforceAge()
	} else {
		s.insert(i, DataItem{Period: p, Value: v})
	}

	s.Fire()

	return overwritten, nil
}

// AddOrUpdateSeries merges every item of other into s and returns a series
// holding the items it overwrote. Listeners are notified once.
func (s *Series) AddOrUpdateSeries(other *Series) (*Series, error) {
	overwritten := New("Overwritten values from: "+s.key, WithLocation(s.loc), WithLogger(s.logger))

	if other.IsEmpty() {
		return overwritten, nil
	}

	if s.kind != 0 && other.kind != s.kind {
		return nil, fmt.Errorf("%w: cannot merge %s periods into %s series %q",
			ErrInconsistentPeriodType, other.kind, s.kind, s.key)
	}

	release := s.Mute()

	for _, item := range other.items {
		prior, err := s.AddOrUpdate(item.Period, item.Value)
		if err != nil {
			release()

			return nil, err
		}

		if prior != nil {
			overwritten.insert(len(overwritten.items), *prior)
		}
	}

	release()
	s.Fire()

	return overwritten, nil
}

// Update replaces the value of an existing period.
func (s *Series) Update(p period.Period, v dataset.Number) error {
	i, found := s.search(p)
	if !found {
		return fmt.Errorf("%w: %s in series %q", ErrPeriodNotFound, p, s.key)
	}

	s.replace(i, v)
	s.Fire()

	return nil
}

// UpdateAt replaces the value at index i.
func (s *Series) UpdateAt(i int, v dataset.Number) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}

	s.replace(i, v)
	s.Fire()

	return nil
}

// Delete removes the item for period p and reports whether it was present.
func (s *Series) Delete(p period.Period) bool {
	i, found := s.search(p)
	if !found {
		return false
	}

	s.items = slices.Delete(s.items, i, i+1)
	s.releaseKindIfEmpty()
	s.rescan()
	s.Fire()

	return true
}

// DeleteRange removes the items at indices start through end inclusive.
func (s *Series) DeleteRange(start, end int) error {
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
	s.releaseKindIfEmpty()
	s.rescan()
	s.Fire()

	return nil
}

// Clear removes every item and releases the period kind constraint.
func (s *Series) Clear() {
	if len(s.items) == 0 {
		return
	}

	s.items = nil
	s.kind = 0
	s.minY, s.maxY = math.NaN(), math.NaN()
	s.Fire()
}

// RemoveAgedItems drops items whose age relative to the newest item
// exceeds the maximum item age. One event covers the whole batch.
func (s *Series) RemoveAgedItems(notify bool) {
	if len(s.items) < 2 {
		return
	}

	if s.removeAged(s.items[len(s.items)-1].Period.SerialIndex()) > 0 && notify {
		s.Fire()
	}
}

// RemoveAgedItemsAt drops items whose age relative to the period containing
// latest exceeds the maximum item age.
func (s *Series) RemoveAgedItemsAt(latest time.Time, notify bool) error {
	if len(s.items) == 0 {
		return nil
	}

	ref, err := period.At(s.kind, latest, s.loc)
	if err != nil {
		return fmt.Errorf("reference period for %q: %w", s.key, err)
	}

	if s.removeAged(ref.SerialIndex()) > 0 && notify {
		s.Fire()
	}

	return nil
}

func (s *Series) checkIndex(i int) error {
	if i < 0 || i >= len(s.items) {
		return fmt.Errorf("%w: index %d outside [0,%d)", dataset.ErrInvalidArgument, i, len(s.items))
	}

	return nil
}

func (s *Series) checkPeriod(p period.Period) error {
	if p.IsZero() {
		return fmt.Errorf("%w: zero period", dataset.ErrInvalidArgument)
	}

	if s.kind != 0 && p.Kind() != s.kind {
		return fmt.Errorf("%w: series %q holds %s periods, got %s",
			ErrInconsistentPeriodType, s.key, s.kind, p.Kind())
	}

	return nil
}

// search locates p, appending being the common case.
func (s *Series) search(p period.Period) (int, bool) {
	n := len(s.items)
	if n == 0 || s.items[n-1].Period.Compare(p) < 0 {
		return n, false
	}

	return slices.BinarySearchFunc(s.items, p, func(item DataItem, target period.Period) int {
		return item.Period.Compare(target)
	})
}

func (s *Series) insert(i int, item DataItem) {
	s.kind = item.Period.Kind()
	s.items = slices.Insert(s.items, i, item)
	s.include(item.Value)

	if excess := len(s.items) - s.maxItemCount; excess > 0 {
		s.removeFront(excess)
		s.log().Debug("evicted items over count limit", "series", s.key, "removed", excess)
	}

	s.enforceAge()
}

func (s *Series) enforceAge() {
	if len(s.items) > 1 {
		s.removeAged(s.items[len(s.items)-1].Period.SerialIndex())
	}
}

func (s *Series) replace(i int, v dataset.Number) {
	old := s.items[i].Value
	s.items[i].Value = v

	if s.isExtremum(old) {
		s.rescan()

		return
	}

	s.include(v)
}

// removeAged drops items older than latest by more than the age limit and
// returns how many went.
func (s *Series) removeAged(latest int64) int {
	n := 0
	for n < len(s.items) && latest-s.items[n].Period.SerialIndex() > s.maxItemAge {
		n++
	}

	if n > 0 {
		s.removeFront(n)
		s.log().Debug("evicted aged items", "series", s.key, "removed", n, "max_age", s.maxItemAge)
	}

	return n
}

func (s *Series) removeFront(n int) {
	rescan := false

	for _, item := range s.items[:n] {
		if s.isExtremum(item.Value) {
			rescan = true

			break
		}
	}

	s.items = slices.Delete(s.items, 0, n)
	s.releaseKindIfEmpty()

	if rescan {
		s.rescan()
	}
}

// releaseKindIfEmpty lifts the period kind constraint once no item is left.
func (s *Series) releaseKindIfEmpty() {
	if len(s.items) == 0 {
		s.kind = 0
	}
}

// isExtremum reports whether losing v may change the cached bounds.
func (s *Series) isExtremum(v dataset.Number) bool {
	return v.Finite() && (v.Float <= s.minY || v.Float >= s.maxY)
}

func (s *Series) include(v dataset.Number) {
	if !v.Finite() {
		return
	}

	s.minY = dataset.MinIgnoreNaN(s.minY, v.Float)
	s.maxY = dataset.MaxIgnoreNaN(s.maxY, v.Float)
}

func (s *Series) rescan() {
	s.minY, s.maxY = math.NaN(), math.NaN()

	for _, item := range s.items {
		s.include(item.Value)
	}
}

func (s *Series) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}

	return slog.Default()
}
