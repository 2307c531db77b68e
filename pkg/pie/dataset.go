// Package pie provides a change-notifying ordered map of category keys to
// values, the data behind pie and ring charts.
package pie

import (
	"cmp"
	"iter"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/keyed"
)

// Dataset is a keyed.Values that notifies listeners after every mutation.
type Dataset[K cmp.Ordered] struct {
	dataset.Notifier

	data *keyed.Values[K]
}

// New creates an empty dataset.
func New[K cmp.Ordered]() *Dataset[K] {
	return wrap(keyed.NewValues[K]())
}

func wrap[K cmp.Ordered](v *keyed.Values[K]) *Dataset[K] {
	d := &Dataset[K]{data: v}
	d.Bind(d)

	return d
}

// ItemCount returns the number of sections.
func (d *Dataset[K]) ItemCount() int { return d.data.Len() }

// Keys returns the keys in order.
func (d *Dataset[K]) Keys() []K { return d.data.Keys() }

// Key returns the key at position i.
func (d *Dataset[K]) Key(i int) (K, error) { return d.data.Key(i) }

// Index returns the position of key, or -1.
func (d *Dataset[K]) Index(key K) int { return d.data.Index(key) }

// ValueAt returns the value at position i.
func (d *Dataset[K]) ValueAt(i int) (dataset.Number, error) { return d.data.ValueAt(i) }

// Value returns the value of key, failing with ErrUnknownKey when absent.
func (d *Dataset[K]) Value(key K) (dataset.Number, error) { return d.data.Value(key) }

// All iterates over the sections in order.
func (d *Dataset[K]) All() iter.Seq2[K, dataset.Number] { return d.data.All() }

// Set updates or appends a section and notifies listeners.
func (d *Dataset[K]) Set(key K, value dataset.Number) {
	d.data.Set(key, value)
	d.Fire()
}

// Insert places a section at position, moving it if the key exists.
func (d *Dataset[K]) Insert(position int, key K, value dataset.Number) error {
	return d.fireOnSuccess(d.data.Insert(position, key, value))
}

// Remove deletes a section.
func (d *Dataset[K]) Remove(key K) error {
	return d.fireOnSuccess(d.data.Remove(key))
}

// Clear removes every section.
func (d *Dataset[K]) Clear() {
	if d.data.Len() == 0 {
		return
	}

	d.data.Clear()
	d.Fire()
}

// SortByKeys reorders the sections by key.
func (d *Dataset[K]) SortByKeys(order keyed.SortOrder) error {
	return d.fireOnSuccess(d.data.SortByKeys(order))
}

// SortByValues reorders the sections by value, nulls last.
func (d *Dataset[K]) SortByValues(order keyed.SortOrder) error {
	return d.fireOnSuccess(d.data.SortByValues(order))
}

// Total returns the sum of the positive values, which is what the sections
// of a pie divide.
func (d *Dataset[K]) Total() float64 {
	total := 0.0

	for _, v := range d.data.All() {
		if v.Finite() && v.Float > 0 {
			total += v.Float
		}
	}

	return total
}

// Clone returns an independent copy without listeners.
func (d *Dataset[K]) Clone() *Dataset[K] {
	return wrap(d.data.Clone())
}

// Equal compares contents.
func (d *Dataset[K]) Equal(o *Dataset[K]) bool {
	return o != nil && d.data.Equal(o.data)
}

func (d *Dataset[K]) fireOnSuccess(err error) error {
	if err != nil {
		return err
	}

	d.Fire()

	return nil
}
