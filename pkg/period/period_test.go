package period_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartdata/pkg/period"
)

func mustDay(t *testing.T, y int, m time.Month, d int) period.Period {
	t.Helper()

	p, err := period.NewDay(y, m, d)
	require.NoError(t, err)

	return p
}

func TestConstructors_Validate(t *testing.T) {
	t.Parallel()

	_, err := period.NewYear(1899)
	require.ErrorIs(t, err, period.ErrOutOfRange)

	_, err = period.NewQuarter(2024, 5)
	require.ErrorIs(t, err, period.ErrOutOfRange)

	_, err = period.NewMonth(2024, 13)
	require.ErrorIs(t, err, period.ErrOutOfRange)

	_, err = period.NewDay(2023, time.February, 29)
	require.ErrorIs(t, err, period.ErrOutOfRange)

	_, err = period.NewDay(2024, time.February, 29)
	require.NoError(t, err)

	_, err = period.NewWeek(2021, 53)
	require.ErrorIs(t, err, period.ErrOutOfRange)

	_, err = period.NewWeek(2020, 53)
	require.NoError(t, err)

	_, err = period.NewHour(2024, time.January, 1, 24)
	require.ErrorIs(t, err, period.ErrOutOfRange)

	_, err = period.NewMillisecond(2024, time.January, 1, 0, 0, 0, 1000)
	require.ErrorIs(t, err, period.ErrOutOfRange)
}

func TestPeriod_IsComparableValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, mustDay(t, 2024, time.March, 5), mustDay(t, 2024, time.March, 5))
	assert.True(t, mustDay(t, 2024, time.March, 5) == mustDay(t, 2024, time.March, 5))
	assert.True(t, period.Period{}.IsZero())
}

func TestSerialIndex_ContiguousAcrossBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		start func() (period.Period, error)
	}{
		{"year", func() (period.Period, error) { return period.NewYear(2023) }},
		{"quarter", func() (period.Period, error) { return period.NewQuarter(2023, 4) }},
		{"month", func() (period.Period, error) { return period.NewMonth(2023, time.December) }},
		{"week", func() (period.Period, error) { return period.NewWeek(2020, 53) }},
		{"day", func() (period.Period, error) { return period.NewDay(2023, time.December, 31) }},
		{"hour", func() (period.Period, error) { return period.NewHour(2023, time.December, 31, 23) }},
		{"minute", func() (period.Period, error) { return period.NewMinute(2023, time.December, 31, 23, 59) }},
		{"second", func() (period.Period, error) { return period.NewSecond(2023, time.December, 31, 23, 59, 59) }},
		{"milli", func() (period.Period, error) {
			return period.NewMillisecond(2023, time.December, 31, 23, 59, 59, 999)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p, err := tc.start()
			require.NoError(t, err)

			next, ok := p.Next()
			require.True(t, ok)
			assert.Equal(t, p.Kind(), next.Kind())
			assert.Equal(t, p.SerialIndex()+1, next.SerialIndex())
			assert.Equal(t, -1, p.Compare(next))

			back, ok := next.Previous()
			require.True(t, ok)
			assert.Equal(t, p, back)
		})
	}
}

func TestSerialIndex_Day(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(2), mustDay(t, 1900, time.January, 1).SerialIndex())
	assert.Equal(t, int64(25569), mustDay(t, 1970, time.January, 1).SerialIndex())
}

func TestNextPrevious_RangeBoundaries(t *testing.T) {
	t.Parallel()

	first, err := period.NewMonth(period.MinYear, time.January)
	require.NoError(t, err)

	_, ok := first.Previous()
	assert.False(t, ok)

	last, err := period.NewMillisecond(period.MaxYear, time.December, 31, 23, 59, 59, 999)
	require.NoError(t, err)

	_, ok = last.Next()
	assert.False(t, ok)

	week, err := period.NewWeek(period.MinYear, 1)
	require.NoError(t, err)

	_, ok = week.Previous()
	assert.False(t, ok)

	_, ok = period.Period{}.Next()
	assert.False(t, ok)
}

func TestWeek_StepAcrossYears(t *testing.T) {
	t.Parallel()

	w, err := period.NewWeek(2021, 1)
	require.NoError(t, err)

	prev, ok := w.Previous()
	require.True(t, ok)
	assert.Equal(t, 2020, prev.Year())
	assert.Equal(t, 53, prev.Week())
}

func TestBounds_UTC(t *testing.T) {
	t.Parallel()

	day := mustDay(t, 2024, time.January, 1)
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

	assert.Equal(t, start, day.FirstMillisecond(time.UTC))
	assert.Equal(t, start+86_400_000-1, day.LastMillisecond(time.UTC))
	assert.Equal(t, start+(86_400_000-1)/2, day.MillisecondAt(period.Middle, time.UTC))
	assert.Equal(t, period.Bounds{First: start, Last: start + 86_399_999}, day.Bounds(nil))

	q, err := period.NewQuarter(2024, 2)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), q.Start(time.UTC))
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), q.End(time.UTC))

	w, err := period.NewWeek(2025, 1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), w.Start(time.UTC))
}

func TestBounds_DependOnZone(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*60*60)
	day := mustDay(t, 2024, time.January, 1)

	assert.Equal(t, day.FirstMillisecond(time.UTC)-9*3_600_000, day.FirstMillisecond(tokyo))
}

func TestMillisecondAt_UnknownAnchorPanics(t *testing.T) {
	t.Parallel()

	day := mustDay(t, 2024, time.January, 1)

	assert.Panics(t, func() { day.MillisecondAt(period.Anchor(9), time.UTC) })
}

func TestAt(t *testing.T) {
	t.Parallel()

	instant := time.Date(2024, time.March, 31, 23, 30, 15, 250*int(time.Millisecond), time.UTC)

	q, err := period.At(period.Quarter, instant, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Quarter())

	// Thirty minutes later in UTC+1 it is already April.
	m, err := period.At(period.Month, instant, time.FixedZone("CET", 3600))
	require.NoError(t, err)
	assert.Equal(t, time.April, m.Month())

	ms, err := period.At(period.Millisecond, instant, nil)
	require.NoError(t, err)
	assert.Equal(t, 250, ms.Millisecond())
	assert.Equal(t, instant.UnixMilli(), ms.FirstMillisecond(time.UTC))

	_, err = period.At(period.Kind(0), instant, nil)
	require.ErrorIs(t, err, period.ErrUnknownKind)
}

func TestKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, period.Quarter, period.Year.Finer())
	assert.Equal(t, period.Day, period.Week.Finer())
	assert.Equal(t, period.Millisecond, period.Millisecond.Finer())

	k, err := period.ParseKind("minute")
	require.NoError(t, err)
	assert.Equal(t, period.Minute, k)

	_, err = period.ParseKind("fortnight")
	require.ErrorIs(t, err, period.ErrUnknownKind)

	text, err := period.Day.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Day", string(text))

	var decoded period.Kind
	require.NoError(t, decoded.UnmarshalText([]byte("Week")))
	assert.Equal(t, period.Week, decoded)
}

func TestStringParseRoundTrip(t *testing.T) {
	t.Parallel()

	samples := []func() (period.Period, error){
		func() (period.Period, error) { return period.NewYear(2024) },
		func() (period.Period, error) { return period.NewQuarter(2024, 3) },
		func() (period.Period, error) { return period.NewMonth(2024, time.November) },
		func() (period.Period, error) { return period.NewWeek(2024, 5) },
		func() (period.Period, error) { return period.NewDay(2024, time.January, 2) },
		func() (period.Period, error) { return period.NewHour(2024, time.January, 2, 13) },
		func() (period.Period, error) { return period.NewMinute(2024, time.January, 2, 13, 4) },
		func() (period.Period, error) { return period.NewSecond(2024, time.January, 2, 13, 4, 5) },
		func() (period.Period, error) { return period.NewMillisecond(2024, time.January, 2, 13, 4, 5, 6) },
	}

	for _, mk := range samples {
		p, err := mk()
		require.NoError(t, err)

		parsed, err := period.Parse(p.Kind(), p.String())
		require.NoError(t, err, p.String())
		assert.Equal(t, p, parsed)
	}

	assert.Equal(t, "2024-W05", func() string {
		w, _ := period.NewWeek(2024, 5)

		return w.String()
	}())

	_, err := period.Parse(period.Month, "2024-13")
	require.ErrorIs(t, err, period.ErrOutOfRange)

	_, err = period.Parse(period.Year, "20x4")
	require.Error(t, err)
}

func TestParseAnchor(t *testing.T) {
	t.Parallel()

	a, err := period.ParseAnchor(" Middle ")
	require.NoError(t, err)
	assert.Equal(t, period.Middle, a)

	_, err = period.ParseAnchor("centre")
	require.ErrorIs(t, err, period.ErrUnknownAnchor)
}
