package keyed

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

// Table is a sparse two-dimensional table of nullable numbers addressed by
// (row key, column key). Each row is a Values keyed by column; a row may lack
// any column, which reads as null.
//
// Rows are kept in insertion order, or in ascending key order for tables
// created with NewSortedTable. Columns are kept in first-use order.
type Table[R, C cmp.Ordered] struct {
	rows        *Objects[R, *Values[C]]
	columns     *Objects[C, struct{}]
	sortRowKeys bool
}

// NewTable creates an empty table with insertion-ordered rows.
func NewTable[R, C cmp.Ordered]() *Table[R, C] {
	return &Table[R, C]{
		rows:    NewObjects[R, *Values[C]](),
		columns: NewObjects[C, struct{}](),
	}
}

// NewSortedTable creates an empty table whose rows stay sorted by key.
func NewSortedTable[R, C cmp.Ordered]() *Table[R, C] {
	t := NewTable[R, C]()
	t.sortRowKeys = true

	return t
}

// SortedRowKeys reports whether rows are kept in key order.
func (t *Table[R, C]) SortedRowKeys() bool {
	return t.sortRowKeys
}

// RowCount returns the number of rows.
func (t *Table[R, C]) RowCount() int {
	return t.rows.Len()
}

// ColumnCount returns the number of columns.
func (t *Table[R, C]) ColumnCount() int {
	return t.columns.Len()
}

// RowKey returns the key of row i.
func (t *Table[R, C]) RowKey(i int) (R, error) {
	return t.rows.Key(i)
}

// ColumnKey returns the key of column i.
func (t *Table[R, C]) ColumnKey(i int) (C, error) {
	return t.columns.Key(i)
}

// RowKeys returns a copy of the row keys in order.
func (t *Table[R, C]) RowKeys() []R {
	return t.rows.Keys()
}

// ColumnKeys returns a copy of the column keys in order.
func (t *Table[R, C]) ColumnKeys() []C {
	return t.columns.Keys()
}

// RowIndex returns the position of a row key, or -1.
func (t *Table[R, C]) RowIndex(key R) int {
	return t.rows.Index(key)
}

// ColumnIndex returns the position of a column key, or -1.
func (t *Table[R, C]) ColumnIndex(key C) int {
	return t.columns.Index(key)
}

// ValueAt returns the cell at (row, column) by position. A row without an
// entry for the column yields null; only out-of-bounds positions fail.
func (t *Table[R, C]) ValueAt(row, column int) (dataset.Number, error) {
	rowData, err := t.rows.At(row)
	if err != nil {
		return dataset.Null, err
	}

	columnKey, err := t.columns.Key(column)
	if err != nil {
		return dataset.Null, err
	}

	i := rowData.Index(columnKey)
	if i < 0 {
		return dataset.Null, nil
	}

	return rowData.values[i], nil
}

// Value returns the cell at (rowKey, columnKey). Either key not being
// registered with the table is ErrUnknownKey, even when the other exists.
func (t *Table[R, C]) Value(rowKey R, columnKey C) (dataset.Number, error) {
	rowData, err := t.rows.Get(rowKey)
	if err != nil {
		return dataset.Null, fmt.Errorf("row: %w", err)
	}

	if !t.columns.Contains(columnKey) {
		return dataset.Null, fmt.Errorf("column: %w: %v", dataset.ErrUnknownKey, columnKey)
	}

	i := rowData.Index(columnKey)
	if i < 0 {
		return dataset.Null, nil
	}

	return rowData.values[i], nil
}

// Row returns a copy of row i.
func (t *Table[R, C]) Row(i int) (*Values[C], error) {
	rowData, err := t.rows.At(i)
	if err != nil {
		return nil, err
	}

	return rowData.Clone(), nil
}

// Set stores value at (rowKey, columnKey), creating the row and registering
// the column as needed.
func (t *Table[R, C]) Set(value dataset.Number, rowKey R, columnKey C) {
	rowData, err := t.rows.Get(rowKey)
	if err != nil {
		rowData = NewValues[C]()
		t.insertRow(rowKey, rowData)
	}

	rowData.Set(columnKey, value)

	if !t.columns.Contains(columnKey) {
		t.columns.Set(columnKey, struct{}{})
	}
}

// AddColumn registers a column key that holds no values yet. A known key is
// left in place.
func (t *Table[R, C]) AddColumn(key C) {
	if !t.columns.Contains(key) {
		t.columns.Set(key, struct{}{})
	}
}

// AddRow registers a row key that holds no values yet. A known key is left
// in place.
func (t *Table[R, C]) AddRow(key R) {
	if !t.rows.Contains(key) {
		t.insertRow(key, NewValues[C]())
	}
}

// Add is an alias of Set.
func (t *Table[R, C]) Add(value dataset.Number, rowKey R, columnKey C) {
	t.Set(value, rowKey, columnKey)
}

// Remove nulls the cell at (rowKey, columnKey), then deletes the row if all
// its values are null and deletes the column from every row if no row holds a
// value for it. Both can disappear in the same call.
func (t *Table[R, C]) Remove(rowKey R, columnKey C) error {
	rowData, err := t.rows.Get(rowKey)
	if err != nil {
		return fmt.Errorf("row: %w", err)
	}

	if !t.columns.Contains(columnKey) {
		return fmt.Errorf("column: %w: %v", dataset.ErrUnknownKey, columnKey)
	}

	rowData.Set(columnKey, dataset.Null)

	if allNull(rowData) {
		// The row is known to exist, so Remove cannot fail.
		_ = t.rows.Remove(rowKey)
	}

	for _, r := range t.rows.objects {
		if i := r.Index(columnKey); i >= 0 && r.values[i].Valid {
			return nil
		}
	}

	t.dropColumn(columnKey)

	return nil
}

// RemoveRowAt deletes row i unconditionally.
func (t *Table[R, C]) RemoveRowAt(i int) error {
	return t.rows.RemoveAt(i)
}

// RemoveRow deletes the row with the given key unconditionally.
func (t *Table[R, C]) RemoveRow(key R) error {
	return t.rows.Remove(key)
}

// RemoveColumnAt deletes column i from every row unconditionally.
func (t *Table[R, C]) RemoveColumnAt(i int) error {
	key, err := t.columns.Key(i)
	if err != nil {
		return err
	}

	t.dropColumn(key)

	return nil
}

// RemoveColumn deletes the column with the given key from every row.
func (t *Table[R, C]) RemoveColumn(key C) error {
	if !t.columns.Contains(key) {
		return fmt.Errorf("%w: %v", dataset.ErrUnknownKey, key)
	}

	t.dropColumn(key)

	return nil
}

// Clear removes all rows and columns.
func (t *Table[R, C]) Clear() {
	t.rows.Clear()
	t.columns.Clear()
}

// Clone returns a deep copy: rows are copied, keys are shared.
func (t *Table[R, C]) Clone() *Table[R, C] {
	return &Table[R, C]{
		rows:        t.rows.Clone((*Values[C]).Clone),
		columns:     t.columns.Clone(nil),
		sortRowKeys: t.sortRowKeys,
	}
}

// Equal compares row keys, column keys and every cell by position.
func (t *Table[R, C]) Equal(o *Table[R, C]) bool {
	if o == nil {
		return false
	}

	if !slices.Equal(t.rows.keys, o.rows.keys) || !slices.Equal(t.columns.keys, o.columns.keys) {
		return false
	}

	for r := range t.RowCount() {
		for c := range t.ColumnCount() {
			a, _ := t.ValueAt(r, c)
			b, _ := o.ValueAt(r, c)

			if !a.Equal(b) {
				return false
			}
		}
	}

	return true
}

func (t *Table[R, C]) insertRow(key R, rowData *Values[C]) {
	if !t.sortRowKeys {
		t.rows.Set(key, rowData)

		return
	}

	position, _ := slices.BinarySearch(t.rows.keys, key)
	// position is within [0, Len()] by construction.
	_ = t.rows.Insert(position, key, rowData)
}

func (t *Table[R, C]) dropColumn(key C) {
	for _, r := range t.rows.objects {
		if i := r.Index(key); i >= 0 {
			_ = r.RemoveAt(i)
		}
	}

	_ = t.columns.Remove(key)
}

func allNull[K cmp.Ordered](v *Values[K]) bool {
	for _, n := range v.values {
		if n.Valid {
			return false
		}
	}

	return true
}
