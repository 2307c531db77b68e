package pie_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/keyed"
	"github.com/Sumatoshi-tech/chartdata/pkg/pie"
)

type counter struct {
	n int
}

func (c *counter) Changed(dataset.ChangeEvent) { c.n++ }

func TestDataset_Sections(t *testing.T) {
	t.Parallel()

	d := pie.New[string]()
	events := &counter{}
	d.AddChangeListener(events)

	d.Set("go", dataset.Num(60))
	d.Set("rust", dataset.Num(30))
	d.Set("zig", dataset.Null)
	require.NoError(t, d.Insert(0, "zig", dataset.Num(10)))

	assert.Equal(t, []string{"zig", "go", "rust"}, d.Keys())
	assert.Equal(t, 1, d.Index("go"))
	assert.InDelta(t, 100.0, d.Total(), 0)
	assert.Equal(t, 4, events.n)

	_, err := d.Value("c")
	require.ErrorIs(t, err, dataset.ErrUnknownKey)

	require.ErrorIs(t, d.Insert(9, "c", dataset.Num(1)), dataset.ErrInvalidArgument)
	assert.Equal(t, 4, events.n)
}

func TestDataset_Sorting(t *testing.T) {
	t.Parallel()

	d := pie.New[string]()
	d.Set("b", dataset.Num(2))
	d.Set("n", dataset.Null)
	d.Set("a", dataset.Num(3))
	d.Set("c", dataset.Num(-1))

	require.NoError(t, d.SortByValues(keyed.Descending))
	assert.Equal(t, []string{"a", "b", "c", "n"}, d.Keys())

	require.NoError(t, d.SortByKeys(keyed.Ascending))
	assert.Equal(t, []string{"a", "b", "c", "n"}, d.Keys())

	require.ErrorIs(t, d.SortByKeys(keyed.SortOrder(7)), dataset.ErrInvalidArgument)

	// Negative sections do not add to the pie.
	assert.InDelta(t, 5.0, d.Total(), 0)
}

func TestDataset_RemoveCloneClear(t *testing.T) {
	t.Parallel()

	d := pie.New[int]()
	d.Set(1, dataset.Num(1))
	d.Set(2, dataset.Num(2))

	c := d.Clone()
	require.NoError(t, d.Remove(1))
	require.ErrorIs(t, d.Remove(1), dataset.ErrUnknownKey)

	assert.False(t, d.Equal(c))
	assert.Equal(t, 2, c.ItemCount())

	keys := make([]int, 0, 2)
	for k := range c.All() {
		keys = append(keys, k)
	}

	assert.Equal(t, []int{1, 2}, keys)

	events := &counter{}
	d.AddChangeListener(events)
	d.Clear()
	d.Clear()
	assert.Equal(t, 1, events.n)
	assert.Equal(t, 0, d.ItemCount())
}
