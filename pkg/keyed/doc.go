// Package keyed provides insertion-ordered, index-addressable keyed
// collections: a key to nullable-number map (Values), a key to object map
// (Objects) and a sparse two-dimensional table built from rows of Values
// (Table).
//
// Each collection keeps a dense slice of entries plus a key to position
// index. Appends and in-place updates touch the index in O(1); positional
// inserts, moves and removals shift the slice and rebuild the index in O(n).
//
// None of these types emit change events; notification is the job of the
// series or dataset that owns them.
package keyed
