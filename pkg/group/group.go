// Package group maps arbitrary keys onto a small ordered set of groups, as
// used by renderers that stack series into named groups. Unmapped keys
// belong to a distinguished default group.
package group

import (
	"fmt"
	"iter"
	"maps"
	"reflect"
	"slices"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

// Cloner is implemented by group values that need a deep copy when the
// mapping is cloned. Other values are copied by assignment.
type Cloner[T any] interface {
	Clone() T
}

// Map is a many-to-one mapping from keys to groups.
//
// The default group always has index 0. Every other group that currently has
// at least one key mapped to it follows in first-use order. A group that
// loses its last key leaves the order; mapping a key to it again appends it
// at the end.
type Map[K, G comparable] struct {
	defaultGroup G
	groups       []G
	keyToGroup   map[K]G
}

// New creates a mapping with the given default group, which must not be nil,
// whether as a nil interface or a typed nil pointer.
func New[K, G comparable](defaultGroup G) (*Map[K, G], error) {
	if isNil(defaultGroup) {
		return nil, fmt.Errorf("%w: nil default group", dataset.ErrInvalidArgument)
	}

	return &Map[K, G]{
		defaultGroup: defaultGroup,
		keyToGroup:   make(map[K]G),
	}, nil
}

// DefaultGroup returns the default group.
func (m *Map[K, G]) DefaultGroup() G {
	return m.defaultGroup
}

// GroupCount returns the number of groups, the default group included.
func (m *Map[K, G]) GroupCount() int {
	return len(m.groups) + 1
}

// Groups returns the default group followed by the groups in use.
func (m *Map[K, G]) Groups() []G {
	result := make([]G, 0, len(m.groups)+1)
	result = append(result, m.defaultGroup)

	for _, g := range m.groups {
		if !slices.Contains(result, g) {
			result = append(result, g)
		}
	}

	return result
}

// GroupIndex returns 0 for the default group, 1..N for groups in use and -1
// for any other value.
func (m *Map[K, G]) GroupIndex(group G) int {
	if i := slices.Index(m.groups, group); i >= 0 {
		return i + 1
	}

	if group == m.defaultGroup {
		return 0
	}

	return -1
}

// Group returns the group of key, the default group when unmapped.
func (m *Map[K, G]) Group(key K) G {
	if g, ok := m.keyToGroup[key]; ok {
		return g
	}

	return m.defaultGroup
}

// MapKeyToGroup assigns key to group. A nil group (possible when G is an
// interface or pointer type) clears the mapping like UnmapKey. Mapping a key
// explicitly to the default group records the mapping but never lists the
// default among the groups in use. A nil key, typed nil pointers included,
// is rejected.
func (m *Map[K, G]) MapKeyToGroup(key K, group G) error {
	if isNil(key) {
		return fmt.Errorf("%w: nil key", dataset.ErrInvalidArgument)
	}

	if isNil(group) {
		m.UnmapKey(key)

		return nil
	}

	m.release(key, group, true)

	if group != m.defaultGroup && !slices.Contains(m.groups, group) {
		m.groups = append(m.groups, group)
	}

	m.keyToGroup[key] = group

	return nil
}

// Mappings yields every explicit key to group mapping in no particular
// order.
func (m *Map[K, G]) Mappings() iter.Seq2[K, G] {
	return maps.All(m.keyToGroup)
}

// UnmapKey clears the explicit mapping of key so that it falls back to the
// default group.
func (m *Map[K, G]) UnmapKey(key K) {
	var zero G

	m.release(key, zero, false)
	delete(m.keyToGroup, key)
}

// KeyCount counts the keys explicitly mapped to group. Keys that were never
// mapped are not counted, so the result for the default group only covers
// explicit mappings.
func (m *Map[K, G]) KeyCount(group G) int {
	count := 0

	for _, g := range m.keyToGroup {
		if g == group {
			count++
		}
	}

	return count
}

// Clone returns a deep copy. Group values implementing Cloner are cloned
// once each, so the copy keeps a single instance per distinct group.
func (m *Map[K, G]) Clone() *Map[K, G] {
	clones := make(map[G]G, len(m.groups)+1)
	cloneOnce := func(g G) G {
		if c, ok := clones[g]; ok {
			return c
		}

		c := cloneValue(g)
		clones[g] = c

		return c
	}

	c := &Map[K, G]{
		defaultGroup: cloneOnce(m.defaultGroup),
		groups:       make([]G, len(m.groups)),
		keyToGroup:   make(map[K]G, len(m.keyToGroup)),
	}

	for i, g := range m.groups {
		c.groups[i] = cloneOnce(g)
	}

	for k, g := range m.keyToGroup {
		c.keyToGroup[k] = cloneOnce(g)
	}

	return c
}

// Equal compares default group, group order and mappings.
func (m *Map[K, G]) Equal(o *Map[K, G]) bool {
	if o == nil {
		return false
	}

	return m.defaultGroup == o.defaultGroup &&
		slices.Equal(m.groups, o.groups) &&
		maps.Equal(m.keyToGroup, o.keyToGroup)
}

func (m *Map[K, G]) String() string {
	return fmt.Sprintf("group.Map{default: %v, groups: %v, keys: %d}", m.defaultGroup, m.groups, len(m.keyToGroup))
}

// release drops the current group of key from the in-use list when key is
// its last member and the key is moving elsewhere.
func (m *Map[K, G]) release(key K, next G, hasNext bool) {
	current := m.Group(key)
	if current == m.defaultGroup {
		return
	}

	if hasNext && current == next {
		return
	}

	if m.KeyCount(current) == 1 {
		if i := slices.Index(m.groups, current); i >= 0 {
			m.groups = slices.Delete(m.groups, i, i+1)
		}
	}
}

func cloneValue[G any](g G) G {
	if c, ok := any(g).(Cloner[G]); ok {
		return c.Clone()
	}

	return g
}

// isNil reports nil interfaces as well as typed nil pointers, maps, slices,
// channels and funcs.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
