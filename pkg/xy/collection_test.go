package xy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/xy"
)

func TestCollection_KeysAndEvents(t *testing.T) {
	t.Parallel()

	c := xy.NewCollection()
	rec := &recorder{}
	c.AddChangeListener(rec)

	a := xy.NewSeries("a")
	require.NoError(t, c.AddSeries(a))

	err := c.AddSeries(xy.NewSeries("a"))
	require.ErrorIs(t, err, xy.ErrDuplicateSeriesKey)
	require.ErrorIs(t, err, dataset.ErrInvalidArgument)

	_, err = c.SeriesByKey("missing")
	require.ErrorIs(t, err, dataset.ErrUnknownKey)

	require.NoError(t, a.Add(1, dataset.Num(1)))
	require.Len(t, rec.events, 2)
	assert.Same(t, a, rec.events[1].Cause.Source)

	require.NoError(t, c.RemoveSeries("a"))
	assert.False(t, a.HasListener(c))
	require.ErrorIs(t, c.RemoveSeries("a"), dataset.ErrUnknownKey)
}

func TestCollection_BoundsAndIntervals(t *testing.T) {
	t.Parallel()

	c := xy.NewCollection()
	assert.Nil(t, c.DomainBounds(false))
	assert.Nil(t, c.DomainBounds(true))

	a := xy.NewSeries("a")
	addAll(t, a, xy.Point(0, 5), xy.Point(4, 1))
	b := xy.NewSeries("b")
	addAll(t, b, xy.Point(10, 2), xy.Point(12, 8))

	require.NoError(t, c.AddSeries(a))
	require.NoError(t, c.AddSeries(b))

	assert.Equal(t, &dataset.Range{Lower: 0, Upper: 12}, c.DomainBounds(false))
	assert.Equal(t, &dataset.Range{Lower: 1, Upper: 8}, c.RangeBounds())

	// Auto width is the smallest gap between neighbouring x-values.
	assert.InDelta(t, 2.0, c.Interval().Width(), 0)

	start, err := c.StartX(1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 9.0, start, 0)

	end, err := c.EndX(1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 11.0, end, 0)

	assert.Equal(t, &dataset.Range{Lower: -1, Upper: 13}, c.DomainBounds(true))

	require.NoError(t, a.Add(0.5, dataset.Num(1)))
	assert.InDelta(t, 0.5, c.Interval().Width(), 0)

	require.NoError(t, c.Interval().SetFixedWidth(4))
	assert.False(t, c.Interval().AutoWidth())
	assert.InDelta(t, 4.0, c.Interval().Width(), 0)

	require.NoError(t, c.Interval().SetPositionFactor(0))
	start, err = c.StartX(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, start, 0)

	require.ErrorIs(t, c.Interval().SetPositionFactor(1.5), dataset.ErrInvalidArgument)
	require.ErrorIs(t, c.Interval().SetFixedWidth(-1), dataset.ErrInvalidArgument)

	c.Interval().SetAutoWidth(true)
	assert.InDelta(t, 0.5, c.Interval().Width(), 0)
}

func TestCollection_AutoWidthFallsBackToFixed(t *testing.T) {
	t.Parallel()

	c := xy.NewCollection()
	s := xy.NewSeries("single")
	require.NoError(t, s.Add(3, dataset.Num(1)))
	require.NoError(t, c.AddSeries(s))

	assert.InDelta(t, xy.DefaultIntervalWidth, c.Interval().Width(), 0)
}
