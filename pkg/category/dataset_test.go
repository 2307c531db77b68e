package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartdata/pkg/category"
	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

type counter struct {
	n int
}

func (c *counter) Changed(dataset.ChangeEvent) { c.n++ }

func TestDataset_SetAndRead(t *testing.T) {
	t.Parallel()

	d := category.New[string, string]()
	events := &counter{}
	d.AddChangeListener(events)

	d.Set(dataset.Num(1), "Q1", "north")
	d.Add(dataset.Num(2), "Q2", "south")

	assert.Equal(t, 2, events.n)
	assert.Equal(t, []string{"Q1", "Q2"}, d.RowKeys())
	assert.Equal(t, []string{"north", "south"}, d.ColumnKeys())

	v, err := d.ValueAt(0, 1)
	require.NoError(t, err)
	assert.Equal(t, dataset.Null, v)

	_, err = d.Value("Q3", "north")
	require.ErrorIs(t, err, dataset.ErrUnknownKey)

	v, err = d.Value("Q2", "south")
	require.NoError(t, err)
	assert.Equal(t, dataset.Num(2), v)
}

func TestDataset_Increment(t *testing.T) {
	t.Parallel()

	d := category.New[string, int]()
	d.Set(dataset.Num(3), "r", 1)
	d.Set(dataset.Num(1), "s", 2)

	require.NoError(t, d.Increment(2, "r", 1))
	v, err := d.Value("r", 1)
	require.NoError(t, err)
	assert.Equal(t, dataset.Num(5), v)

	// The cell (r, 2) is missing but both keys are known, so it counts as zero.
	require.NoError(t, d.Increment(4, "r", 2))
	v, err = d.Value("r", 2)
	require.NoError(t, err)
	assert.Equal(t, dataset.Num(4), v)

	require.ErrorIs(t, d.Increment(1, "x", 1), dataset.ErrUnknownKey)
}

func TestDataset_RemovePrunesRowAndColumn(t *testing.T) {
	t.Parallel()

	d := category.NewSorted[string, string]()
	d.Set(dataset.Num(1), "b", "c1")
	d.Set(dataset.Num(2), "a", "c2")
	assert.Equal(t, []string{"a", "b"}, d.RowKeys())

	events := &counter{}
	d.AddChangeListener(events)

	require.NoError(t, d.Remove("b", "c1"))
	assert.Equal(t, []string{"a"}, d.RowKeys())
	assert.Equal(t, []string{"c2"}, d.ColumnKeys())
	assert.Equal(t, 1, events.n)

	require.ErrorIs(t, d.Remove("b", "c1"), dataset.ErrUnknownKey)
	assert.Equal(t, 1, events.n)
}

func TestDataset_ExplicitRemovalAndClone(t *testing.T) {
	t.Parallel()

	d := category.New[string, string]()
	d.Set(dataset.Num(1), "r1", "c1")
	d.Set(dataset.Num(2), "r2", "c2")

	c := d.Clone()
	assert.True(t, d.Equal(c))

	require.NoError(t, d.RemoveColumn("c1"))
	require.NoError(t, d.RemoveRowAt(0))
	assert.Equal(t, []string{"r2"}, d.RowKeys())
	assert.Equal(t, []string{"c2"}, d.ColumnKeys())
	require.ErrorIs(t, d.RemoveColumn("c1"), dataset.ErrUnknownKey)
	require.ErrorIs(t, d.RemoveColumnAt(5), dataset.ErrInvalidArgument)

	assert.False(t, d.Equal(c))
	assert.Equal(t, 2, c.RowCount())

	table := d.Table()
	table.Clear()
	assert.Equal(t, 1, d.RowCount())

	d.Clear()
	assert.Equal(t, 0, d.RowCount())
	assert.Equal(t, 0, d.ColumnCount())
}
