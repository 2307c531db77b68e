package keyed

import (
	"cmp"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

// Values is an insertion-ordered map from unique keys to nullable numbers.
//
// Invariant: keys[i] pairs with values[i] and index[keys[i]] == i.
type Values[K cmp.Ordered] struct {
	keys   []K
	values []dataset.Number
	index  map[K]int
}

// NewValues creates an empty collection.
func NewValues[K cmp.Ordered]() *Values[K] {
	return &Values[K]{index: make(map[K]int)}
}

// Len returns the number of entries.
func (v *Values[K]) Len() int {
	return len(v.keys)
}

// Key returns the key at position i.
func (v *Values[K]) Key(i int) (K, error) {
	if i < 0 || i >= len(v.keys) {
		var zero K

		return zero, fmt.Errorf("%w: index %d outside [0,%d)", dataset.ErrInvalidArgument, i, len(v.keys))
	}

	return v.keys[i], nil
}

// Index returns the position of key, or -1 when absent.
func (v *Values[K]) Index(key K) int {
	i, ok := v.index[key]
	if !ok {
		return -1
	}

	return i
}

// Keys returns a copy of the keys in order.
func (v *Values[K]) Keys() []K {
	return slices.Clone(v.keys)
}

// ValueAt returns the value at position i.
func (v *Values[K]) ValueAt(i int) (dataset.Number, error) {
	if i < 0 || i >= len(v.values) {
		return dataset.Null, fmt.Errorf("%w: index %d outside [0,%d)", dataset.ErrInvalidArgument, i, len(v.values))
	}

	return v.values[i], nil
}

// Value returns the value stored under key. An absent key is ErrUnknownKey;
// a present key holding null is not an error.
func (v *Values[K]) Value(key K) (dataset.Number, error) {
	i, ok := v.index[key]
	if !ok {
		return dataset.Null, fmt.Errorf("%w: %v", dataset.ErrUnknownKey, key)
	}

	return v.values[i], nil
}

// All iterates over the entries in order.
func (v *Values[K]) All() iter.Seq2[K, dataset.Number] {
	return func(yield func(K, dataset.Number) bool) {
		for i, k := range v.keys {
			if !yield(k, v.values[i]) {
				return
			}
		}
	}
}

// Set updates key in place or appends it.
func (v *Values[K]) Set(key K, value dataset.Number) {
	if i, ok := v.index[key]; ok {
		v.values[i] = value

		return
	}

	if v.index == nil {
		v.index = make(map[K]int)
	}

	v.keys = append(v.keys, key)
	v.values = append(v.values, value)
	v.index[key] = len(v.keys) - 1
}

// Add is an alias of Set.
func (v *Values[K]) Add(key K, value dataset.Number) {
	v.Set(key, value)
}

// Insert places key at position. If key already sits at position it is
// updated in place; if it sits elsewhere it is moved. position must lie in
// [0, Len()]. When a moved key is asked to go to Len(), it lands last.
func (v *Values[K]) Insert(position int, key K, value dataset.Number) error {
	if position < 0 || position > len(v.keys) {
		return fmt.Errorf("%w: position %d outside [0,%d]", dataset.ErrInvalidArgument, position, len(v.keys))
	}

	current := v.Index(key)
	if current == position {
		v.values[current] = value

		return nil
	}

	if current >= 0 {
		v.keys = slices.Delete(v.keys, current, current+1)
		v.values = slices.Delete(v.values, current, current+1)
		position = min(position, len(v.keys))
	}

	v.keys = slices.Insert(v.keys, position, key)
	v.values = slices.Insert(v.values, position, value)
	v.rebuildIndex()

	return nil
}

// RemoveAt deletes the entry at position i.
func (v *Values[K]) RemoveAt(i int) error {
	if i < 0 || i >= len(v.keys) {
		return fmt.Errorf("%w: index %d outside [0,%d)", dataset.ErrInvalidArgument, i, len(v.keys))
	}

	v.keys = slices.Delete(v.keys, i, i+1)
	v.values = slices.Delete(v.values, i, i+1)
	v.rebuildIndex()

	return nil
}

// Remove deletes key, failing with ErrUnknownKey when absent.
func (v *Values[K]) Remove(key K) error {
	i, ok := v.index[key]
	if !ok {
		return fmt.Errorf("%w: %v", dataset.ErrUnknownKey, key)
	}

	return v.RemoveAt(i)
}

// Clear removes all entries.
func (v *Values[K]) Clear() {
	v.keys = nil
	v.values = nil
	v.index = make(map[K]int)
}

// SortByKeys reorders entries by key.
func (v *Values[K]) SortByKeys(order SortOrder) error {
	if err := order.validate(); err != nil {
		return err
	}

	v.sort(func(a, b entry[K]) int {
		c := cmp.Compare(a.key, b.key)
		if order == Descending {
			c = -c
		}

		return c
	})

	return nil
}

// SortByValues reorders entries by value. The sort is stable and null
// values go to the end in either order.
func (v *Values[K]) SortByValues(order SortOrder) error {
	if err := order.validate(); err != nil {
		return err
	}

	v.sort(func(a, b entry[K]) int {
		return compareNullsLast(a.value, b.value, order)
	})

	return nil
}

// Clone returns an independent copy. Keys are shared; they are treated as
// immutable.
func (v *Values[K]) Clone() *Values[K] {
	c := &Values[K]{
		keys:   slices.Clone(v.keys),
		values: slices.Clone(v.values),
	}
	c.rebuildIndex()

	return c
}

// Equal compares keys and values position by position.
func (v *Values[K]) Equal(o *Values[K]) bool {
	if o == nil || len(v.keys) != len(o.keys) {
		return false
	}

	for i := range v.keys {
		if v.keys[i] != o.keys[i] || !v.values[i].Equal(o.values[i]) {
			return false
		}
	}

	return true
}

type entry[K cmp.Ordered] struct {
	key   K
	value dataset.Number
}

func (v *Values[K]) sort(compare func(a, b entry[K]) int) {
	entries := make([]entry[K], len(v.keys))
	for i := range v.keys {
		entries[i] = entry[K]{key: v.keys[i], value: v.values[i]}
	}

	slices.SortStableFunc(entries, compare)

	for i, e := range entries {
		v.keys[i] = e.key
		v.values[i] = e.value
	}

	v.rebuildIndex()
}

func (v *Values[K]) rebuildIndex() {
	v.index = make(map[K]int, len(v.keys))
	for i, k := range v.keys {
		v.index[k] = i
	}
}

// compareNullsLast orders numbers by value; null sorts after every value
// regardless of order. NaN ranks above every number, +Inf included, so it
// sorts last ascending and first descending.
func compareNullsLast(a, b dataset.Number, order SortOrder) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return 1
	case !b.Valid:
		return -1
	}

	c := compareNaNLargest(a.Float, b.Float)
	if order == Descending {
		c = -c
	}

	return c
}

func compareNaNLargest(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)

	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	default:
		return cmp.Compare(a, b)
	}
}
