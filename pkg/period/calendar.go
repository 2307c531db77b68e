package period

import (
	"fmt"
	"time"
)

// Bounds is the pair of first and last instants of a period in one time
// zone, in Unix milliseconds. It is the pegged form of a period.
type Bounds struct {
	First int64
	Last  int64
}

// Start returns the first instant of p in loc.
func (p Period) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	y, m, d := p.firstDate()

	return time.Date(y, m, d, p.hour, p.minute, p.second, p.milli*int(time.Millisecond), loc)
}

// End returns the instant just after p in loc, which is the start of the
// following period.
func (p Period) End(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	y, m, d := p.firstDate()

	switch p.kind {
	case Year:
		return time.Date(y+1, m, d, 0, 0, 0, 0, loc)
	case Quarter:
		return time.Date(y, m+3, d, 0, 0, 0, 0, loc)
	case Month:
		return time.Date(y, m+1, d, 0, 0, 0, 0, loc)
	case Week:
		return time.Date(y, m, d+7, 0, 0, 0, 0, loc)
	case Day:
		return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	case Hour:
		return time.Date(y, m, d, p.hour+1, 0, 0, 0, loc)
	case Minute:
		return time.Date(y, m, d, p.hour, p.minute+1, 0, 0, loc)
	case Second:
		return time.Date(y, m, d, p.hour, p.minute, p.second+1, 0, loc)
	default:
		return time.Date(y, m, d, p.hour, p.minute, p.second, (p.milli+1)*int(time.Millisecond), loc)
	}
}

// FirstMillisecond returns the first instant of p in loc as Unix milliseconds.
func (p Period) FirstMillisecond(loc *time.Location) int64 {
	return p.Start(loc).UnixMilli()
}

// LastMillisecond returns the last instant of p in loc as Unix milliseconds.
func (p Period) LastMillisecond(loc *time.Location) int64 {
	return p.End(loc).UnixMilli() - 1
}

// MiddleMillisecond returns the midpoint between first and last millisecond.
func (p Period) MiddleMillisecond(loc *time.Location) int64 {
	first := p.FirstMillisecond(loc)
	last := p.LastMillisecond(loc)

	return first + (last-first)/2
}

// Bounds returns the first and last instants of p in loc.
func (p Period) Bounds(loc *time.Location) Bounds {
	return Bounds{First: p.FirstMillisecond(loc), Last: p.LastMillisecond(loc)}
}

// MillisecondAt returns the instant selected by anchor. An unknown anchor is
// a programming error and panics.
func (p Period) MillisecondAt(anchor Anchor, loc *time.Location) int64 {
	switch anchor {
	case Start:
		return p.FirstMillisecond(loc)
	case Middle:
		return p.MiddleMillisecond(loc)
	case End:
		return p.LastMillisecond(loc)
	default:
		panic(fmt.Sprintf("period: unrecognised anchor %d", uint8(anchor)))
	}
}

// firstDate returns the calendar date on which p starts.
func (p Period) firstDate() (int, time.Month, int) {
	switch p.kind {
	case Year:
		return p.year, time.January, 1
	case Quarter:
		return p.year, time.Month((p.sub-1)*3 + 1), 1
	case Month:
		return p.year, time.Month(p.sub), 1
	case Week:
		return isoWeekStart(p.year, p.sub)
	default:
		return p.year, time.Month(p.sub), p.day
	}
}

// isoWeekStart returns the Monday of ISO week w of year.
func isoWeekStart(year, w int) (int, time.Month, int) {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset+(w-1)*7)

	return monday.Year(), monday.Month(), monday.Day()
}
