// Package category provides a change-notifying table of values addressed by
// (row key, column key), the data behind bar, line and stacked charts.
package category

import (
	"cmp"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/keyed"
)

// Dataset is a keyed.Table that notifies listeners after every mutation.
type Dataset[R, C cmp.Ordered] struct {
	dataset.Notifier

	data *keyed.Table[R, C]
}

// New creates an empty dataset with rows in insertion order.
func New[R, C cmp.Ordered]() *Dataset[R, C] {
	return wrap(keyed.NewTable[R, C]())
}

// NewSorted creates an empty dataset whose rows stay sorted by key.
func NewSorted[R, C cmp.Ordered]() *Dataset[R, C] {
	return wrap(keyed.NewSortedTable[R, C]())
}

// FromTable wraps an existing table. The dataset takes ownership of t.
func FromTable[R, C cmp.Ordered](t *keyed.Table[R, C]) *Dataset[R, C] {
	return wrap(t)
}

func wrap[R, C cmp.Ordered](t *keyed.Table[R, C]) *Dataset[R, C] {
	d := &Dataset[R, C]{data: t}
	d.Bind(d)

	return d
}

// RowCount returns the number of rows.
func (d *Dataset[R, C]) RowCount() int { return d.data.RowCount() }

// ColumnCount returns the number of columns.
func (d *Dataset[R, C]) ColumnCount() int { return d.data.ColumnCount() }

// RowKey returns the key of row i.
func (d *Dataset[R, C]) RowKey(i int) (R, error) { return d.data.RowKey(i) }

// ColumnKey returns the key of column i.
func (d *Dataset[R, C]) ColumnKey(i int) (C, error) { return d.data.ColumnKey(i) }

// RowKeys returns the row keys in order.
func (d *Dataset[R, C]) RowKeys() []R { return d.data.RowKeys() }

// ColumnKeys returns the column keys in order.
func (d *Dataset[R, C]) ColumnKeys() []C { return d.data.ColumnKeys() }

// RowIndex returns the position of a row key, or -1.
func (d *Dataset[R, C]) RowIndex(key R) int { return d.data.RowIndex(key) }

// ColumnIndex returns the position of a column key, or -1.
func (d *Dataset[R, C]) ColumnIndex(key C) int { return d.data.ColumnIndex(key) }

// ValueAt returns the cell at (row, column); a missing cell is null.
func (d *Dataset[R, C]) ValueAt(row, column int) (dataset.Number, error) {
	return d.data.ValueAt(row, column)
}

// Value returns the cell at (rowKey, columnKey), failing with ErrUnknownKey
// when either key is not registered.
func (d *Dataset[R, C]) Value(rowKey R, columnKey C) (dataset.Number, error) {
	return d.data.Value(rowKey, columnKey)
}

// Set stores a value and notifies listeners.
func (d *Dataset[R, C]) Set(value dataset.Number, rowKey R, columnKey C) {
	d.data.Set(value, rowKey, columnKey)
	d.Fire()
}

// Add is an alias of Set.
func (d *Dataset[R, C]) Add(value dataset.Number, rowKey R, columnKey C) {
	d.Set(value, rowKey, columnKey)
}

// Increment adds delta to an existing cell, treating null as zero. Both
// keys must already be registered.
func (d *Dataset[R, C]) Increment(delta float64, rowKey R, columnKey C) error {
	current, err := d.data.Value(rowKey, columnKey)
	if err != nil {
		return err
	}

	base := 0.0
	if current.Valid {
		base = current.Float
	}

	d.Set(dataset.Num(base+delta), rowKey, columnKey)

	return nil
}

// Remove nulls a cell and prunes its row and column once they are empty.
func (d *Dataset[R, C]) Remove(rowKey R, columnKey C) error {
	if err := d.data.Remove(rowKey, columnKey); err != nil {
		return err
	}

	d.Fire()

	return nil
}

// RemoveRow deletes a row unconditionally.
func (d *Dataset[R, C]) RemoveRow(key R) error {
	return d.fireOnSuccess(d.data.RemoveRow(key))
}

// RemoveRowAt deletes row i unconditionally.
func (d *Dataset[R, C]) RemoveRowAt(i int) error {
	return d.fireOnSuccess(d.data.RemoveRowAt(i))
}

// RemoveColumn deletes a column from every row.
func (d *Dataset[R, C]) RemoveColumn(key C) error {
	return d.fireOnSuccess(d.data.RemoveColumn(key))
}

// RemoveColumnAt deletes column i from every row.
func (d *Dataset[R, C]) RemoveColumnAt(i int) error {
	return d.fireOnSuccess(d.data.RemoveColumnAt(i))
}

// Clear removes all rows and columns.
func (d *Dataset[R, C]) Clear() {
	d.data.Clear()
	d.Fire()
}

// Table returns a deep copy of the underlying table.
func (d *Dataset[R, C]) Table() *keyed.Table[R, C] {
	return d.data.Clone()
}

// Clone returns an independent copy without listeners.
func (d *Dataset[R, C]) Clone() *Dataset[R, C] {
	return wrap(d.data.Clone())
}

// Equal compares contents.
func (d *Dataset[R, C]) Equal(o *Dataset[R, C]) bool {
	return o != nil && d.data.Equal(o.data)
}

func (d *Dataset[R, C]) fireOnSuccess(err error) error {
	if err != nil {
		return err
	}

	d.Fire()

	return nil
}
