package keyed

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

// Objects is an insertion-ordered map from unique keys to arbitrary objects.
// It uses the same slice plus index layout as Values.
type Objects[K cmp.Ordered, V any] struct {
	keys    []K
	objects []V
	index   map[K]int
}

// NewObjects creates an empty collection.
func NewObjects[K cmp.Ordered, V any]() *Objects[K, V] {
	return &Objects[K, V]{index: make(map[K]int)}
}

// Len returns the number of entries.
func (o *Objects[K, V]) Len() int {
	return len(o.keys)
}

// Index returns the position of key, or -1 when absent.
func (o *Objects[K, V]) Index(key K) int {
	i, ok := o.index[key]
	if !ok {
		return -1
	}

	return i
}

// Contains reports whether key is present.
func (o *Objects[K, V]) Contains(key K) bool {
	_, ok := o.index[key]

	return ok
}

// Key returns the key at position i.
func (o *Objects[K, V]) Key(i int) (K, error) {
	if i < 0 || i >= len(o.keys) {
		var zero K

		return zero, fmt.Errorf("%w: index %d outside [0,%d)", dataset.ErrInvalidArgument, i, len(o.keys))
	}

	return o.keys[i], nil
}

// Keys returns a copy of the keys in order.
func (o *Objects[K, V]) Keys() []K {
	return slices.Clone(o.keys)
}

// At returns the object at position i.
func (o *Objects[K, V]) At(i int) (V, error) {
	if i < 0 || i >= len(o.objects) {
		var zero V

		return zero, fmt.Errorf("%w: index %d outside [0,%d)", dataset.ErrInvalidArgument, i, len(o.objects))
	}

	return o.objects[i], nil
}

// Get returns the object stored under key, failing with ErrUnknownKey.
func (o *Objects[K, V]) Get(key K) (V, error) {
	i, ok := o.index[key]
	if !ok {
		var zero V

		return zero, fmt.Errorf("%w: %v", dataset.ErrUnknownKey, key)
	}

	return o.objects[i], nil
}

// All iterates over the entries in order.
func (o *Objects[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, k := range o.keys {
			if !yield(k, o.objects[i]) {
				return
			}
		}
	}
}

// Values returns a copy of the objects in order.
func (o *Objects[K, V]) Values() []V {
	return slices.Clone(o.objects)
}

// Set updates key in place or appends it.
func (o *Objects[K, V]) Set(key K, object V) {
	if i, ok := o.index[key]; ok {
		o.objects[i] = object

		return
	}

	if o.index == nil {
		o.index = make(map[K]int)
	}

	o.keys = append(o.keys, key)
	o.objects = append(o.objects, object)
	o.index[key] = len(o.keys) - 1
}

// Insert places key at position, moving it when already present elsewhere.
func (o *Objects[K, V]) Insert(position int, key K, object V) error {
	if position < 0 || position > len(o.keys) {
		return fmt.Errorf("%w: position %d outside [0,%d]", dataset.ErrInvalidArgument, position, len(o.keys))
	}

	current := o.Index(key)
	if current == position {
		o.objects[current] = object

		return nil
	}

	if current >= 0 {
		o.keys = slices.Delete(o.keys, current, current+1)
		o.objects = slices.Delete(o.objects, current, current+1)
		position = min(position, len(o.keys))
	}

	o.keys = slices.Insert(o.keys, position, key)
	o.objects = slices.Insert(o.objects, position, object)
	o.rebuildIndex()

	return nil
}

// RemoveAt deletes the entry at position i.
func (o *Objects[K, V]) RemoveAt(i int) error {
	if i < 0 || i >= len(o.keys) {
		return fmt.Errorf("%w: index %d outside [0,%d)", dataset.ErrInvalidArgument, i, len(o.keys))
	}

	o.keys = slices.Delete(o.keys, i, i+1)
	o.objects = slices.Delete(o.objects, i, i+1)
	o.rebuildIndex()

	return nil
}

// Remove deletes key, failing with ErrUnknownKey when absent.
func (o *Objects[K, V]) Remove(key K) error {
	i, ok := o.index[key]
	if !ok {
		return fmt.Errorf("%w: %v", dataset.ErrUnknownKey, key)
	}

	return o.RemoveAt(i)
}

// Clear removes all entries.
func (o *Objects[K, V]) Clear() {
	o.keys = nil
	o.objects = nil
	o.index = make(map[K]int)
}

// Clone returns a copy. When cloneV is nil objects are copied shallowly.
func (o *Objects[K, V]) Clone(cloneV func(V) V) *Objects[K, V] {
	c := &Objects[K, V]{
		keys:    slices.Clone(o.keys),
		objects: slices.Clone(o.objects),
	}

	if cloneV != nil {
		for i, obj := range c.objects {
			c.objects[i] = cloneV(obj)
		}
	}

	c.rebuildIndex()

	return c
}

func (o *Objects[K, V]) rebuildIndex() {
	o.index = make(map[K]int, len(o.keys))
	for i, k := range o.keys {
		o.index[k] = i
	}
}
