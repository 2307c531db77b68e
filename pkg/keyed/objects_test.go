package keyed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/keyed"
)

func TestObjects_Basics(t *testing.T) {
	t.Parallel()

	o := keyed.NewObjects[string, []int]()
	o.Set("x", []int{1})
	o.Set("y", []int{2})

	assert.True(t, o.Contains("x"))
	assert.Equal(t, 1, o.Index("y"))

	got, err := o.Get("y")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, got)

	_, err = o.Get("z")
	require.ErrorIs(t, err, dataset.ErrUnknownKey)

	require.NoError(t, o.Insert(0, "y", []int{3}))
	assert.Equal(t, []string{"y", "x"}, o.Keys())
	assert.Equal(t, 0, o.Index("y"))

	require.NoError(t, o.Remove("y"))
	assert.Equal(t, 0, o.Index("x"))
	require.ErrorIs(t, o.Remove("y"), dataset.ErrUnknownKey)
}

func TestObjects_CloneDeep(t *testing.T) {
	t.Parallel()

	o := keyed.NewObjects[string, []int]()
	o.Set("x", []int{1})

	c := o.Clone(func(v []int) []int { return append([]int(nil), v...) })

	first, err := c.At(0)
	require.NoError(t, err)

	first[0] = 99

	orig, err := o.Get("x")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, orig)
}
