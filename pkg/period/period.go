package period

import (
	"cmp"
	"fmt"
	"time"
)

// Period is a calendar-aligned span of one Kind. The zero Period is invalid.
//
// Fields not used by the kind are zero, so two periods are equal with == iff
// they denote the same span of the same kind. For Week, year is the ISO
// week-numbering year and sub is the ISO week; for Quarter and Month, sub is
// the quarter or month number.
type Period struct {
	kind   Kind
	year   int
	sub    int
	day    int
	hour   int
	minute int
	second int
	milli  int
}

// NewYear returns the period for a calendar year.
func NewYear(year int) (Period, error) {
	if err := checkYear(year); err != nil {
		return Period{}, err
	}

	return Period{kind: Year, year: year}, nil
}

// NewQuarter returns quarter q (1..4) of year.
func NewQuarter(year, q int) (Period, error) {
	if err := checkYear(year); err != nil {
		return Period{}, err
	}

	if q < 1 || q > 4 {
		return Period{}, fmt.Errorf("%w: quarter %d", ErrOutOfRange, q)
	}

	return Period{kind: Quarter, year: year, sub: q}, nil
}

// NewMonth returns a calendar month.
func NewMonth(year int, month time.Month) (Period, error) {
	if err := checkYear(year); err != nil {
		return Period{}, err
	}

	if month < time.January || month > time.December {
		return Period{}, fmt.Errorf("%w: month %d", ErrOutOfRange, month)
	}

	return Period{kind: Month, year: year, sub: int(month)}, nil
}

// NewWeek returns ISO week w of the ISO week-numbering year.
func NewWeek(year, w int) (Period, error) {
	if err := checkYear(year); err != nil {
		return Period{}, err
	}

	if w < 1 || w > isoWeeksInYear(year) {
		return Period{}, fmt.Errorf("%w: week %d of %d", ErrOutOfRange, w, year)
	}

	return Period{kind: Week, year: year, sub: w}, nil
}

// NewDay returns a calendar day.
func NewDay(year int, month time.Month, day int) (Period, error) {
	return newFine(Day, year, month, day, 0, 0, 0, 0)
}

// NewHour returns an hour (0..23) of a calendar day.
func NewHour(year int, month time.Month, day, hour int) (Period, error) {
	return newFine(Hour, year, month, day, hour, 0, 0, 0)
}

// NewMinute returns a minute of a calendar day.
func NewMinute(year int, month time.Month, day, hour, minute int) (Period, error) {
	return newFine(Minute, year, month, day, hour, minute, 0, 0)
}

// NewSecond returns a second of a calendar day.
func NewSecond(year int, month time.Month, day, hour, minute, second int) (Period, error) {
	return newFine(Second, year, month, day, hour, minute, second, 0)
}

// NewMillisecond returns a millisecond of a calendar day.
func NewMillisecond(year int, month time.Month, day, hour, minute, second, milli int) (Period, error) {
	return newFine(Millisecond, year, month, day, hour, minute, second, milli)
}

// At returns the period of the given kind containing instant t as seen in loc.
func At(kind Kind, t time.Time, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}

	t = t.In(loc)

	switch kind {
	case Year:
		return NewYear(t.Year())
	case Quarter:
		return NewQuarter(t.Year(), (int(t.Month())-1)/3+1)
	case Month:
		return NewMonth(t.Year(), t.Month())
	case Week:
		y, w := t.ISOWeek()

		return NewWeek(y, w)
	case Day, Hour, Minute, Second, Millisecond:
		return fromFields(kind, t)
	default:
		return Period{}, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(kind))
	}
}

// Kind returns the granularity.
func (p Period) Kind() Kind {
	return p.kind
}

// IsZero reports whether p is the zero (invalid) period.
func (p Period) IsZero() bool {
	return p.kind == 0
}

// Year returns the calendar year, or the ISO week-numbering year for weeks.
func (p Period) Year() int {
	return p.year
}

// Quarter returns the quarter (1..4) of a Quarter period, derived from the
// month for finer kinds, and 0 for years and weeks.
func (p Period) Quarter() int {
	switch p.kind {
	case Quarter:
		return p.sub
	case Month, Day, Hour, Minute, Second, Millisecond:
		return (p.sub-1)/3 + 1
	default:
		return 0
	}
}

// Month returns the month of Month and finer periods, 0 otherwise.
func (p Period) Month() time.Month {
	if p.kind == Month || p.kind >= Day {
		return time.Month(p.sub)
	}

	return 0
}

// Week returns the ISO week of a Week period, 0 otherwise.
func (p Period) Week() int {
	if p.kind == Week {
		return p.sub
	}

	return 0
}

// Day returns the day of month of Day and finer periods.
func (p Period) Day() int { return p.day }

// Hour returns the hour of Hour and finer periods.
func (p Period) Hour() int { return p.hour }

// Minute returns the minute of Minute and finer periods.
func (p Period) Minute() int { return p.minute }

// Second returns the second of Second and finer periods.
func (p Period) Second() int { return p.second }

// Millisecond returns the millisecond of a Millisecond period.
func (p Period) Millisecond() int { return p.milli }

// SerialIndex returns an index that increases by one from each period to
// the next within one kind. Week indexes skip one value after 52-week years.
func (p Period) SerialIndex() int64 {
	y := int64(p.year)

	switch p.kind {
	case Year:
		return y
	case Quarter:
		return y*4 + int64(p.sub)
	case Month:
		return y*12 + int64(p.sub)
	case Week:
		return y*53 + int64(p.sub)
	case Day:
		return p.serialDay()
	case Hour:
		return p.serialDay()*24 + int64(p.hour)
	case Minute:
		return (p.serialDay()*24+int64(p.hour))*60 + int64(p.minute)
	case Second:
		return ((p.serialDay()*24+int64(p.hour))*60+int64(p.minute))*60 + int64(p.second)
	case Millisecond:
		s := ((p.serialDay()*24+int64(p.hour))*60+int64(p.minute))*60 + int64(p.second)

		return s*1000 + int64(p.milli)
	default:
		return 0
	}
}

// Compare orders periods by kind, then chronologically. It returns -1, 0 or 1.
func (p Period) Compare(o Period) int {
	if c := cmp.Compare(p.kind, o.kind); c != 0 {
		return c
	}

	return cmp.Compare(p.SerialIndex(), o.SerialIndex())
}

// Before reports whether p sorts before o.
func (p Period) Before(o Period) bool {
	return p.Compare(o) < 0
}

// Next returns the following period of the same kind, or false at the end
// of the representable range.
func (p Period) Next() (Period, bool) {
	return p.step(1)
}

// Previous returns the preceding period of the same kind, or false at the
// start of the representable range.
func (p Period) Previous() (Period, bool) {
	return p.step(-1)
}

func (p Period) step(dir int) (Period, bool) {
	var (
		next Period
		err  error
	)

	switch p.kind {
	case Year:
		next, err = NewYear(p.year + dir)
	case Quarter:
		y, q := carry(p.year, p.sub-1+dir, 4)
		next, err = NewQuarter(y, q+1)
	case Month:
		y, m := carry(p.year, p.sub-1+dir, 12)
		next, err = NewMonth(y, time.Month(m+1))
	case Week:
		next, err = p.stepWeek(dir)
	case Day:
		next, err = fromFields(Day, p.utc().AddDate(0, 0, dir))
	case Hour, Minute, Second, Millisecond:
		next, err = fromFields(p.kind, p.utc().Add(time.Duration(dir)*p.kind.fixedLength()))
	default:
		return Period{}, false
	}

	if err != nil {
		return Period{}, false
	}

	return next, true
}

func (p Period) stepWeek(dir int) (Period, error) {
	w := p.sub + dir

	switch {
	case w < 1:
		return NewWeek(p.year-1, isoWeeksInYear(p.year-1))
	case w > isoWeeksInYear(p.year):
		return NewWeek(p.year+1, 1)
	default:
		return NewWeek(p.year, w)
	}
}

// serialDay numbers days so that 1 January 1900 is 2, matching the common
// spreadsheet serial date convention.
func (p Period) serialDay() int64 {
	const unixEpochSerial = 25569

	days := time.Date(p.year, time.Month(p.sub), p.day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay

	return days + unixEpochSerial
}

// utc returns the first instant of p with its fields read as UTC. Used for
// calendar arithmetic that must not be affected by daylight saving.
func (p Period) utc() time.Time {
	return time.Date(p.year, time.Month(p.sub), p.day, p.hour, p.minute, p.second, p.milli*int(time.Millisecond), time.UTC)
}

func (k Kind) fixedLength() time.Duration {
	switch k {
	case Hour:
		return time.Hour
	case Minute:
		return time.Minute
	case Second:
		return time.Second
	default:
		return time.Millisecond
	}
}

const secondsPerDay = 24 * 60 * 60

func newFine(kind Kind, year int, month time.Month, day, hour, minute, second, milli int) (Period, error) {
	if err := checkYear(year); err != nil {
		return Period{}, err
	}

	if month < time.January || month > time.December {
		return Period{}, fmt.Errorf("%w: month %d", ErrOutOfRange, month)
	}

	if day < 1 || day > daysIn(year, month) {
		return Period{}, fmt.Errorf("%w: day %d of %d-%02d", ErrOutOfRange, day, year, month)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 || milli < 0 || milli > 999 {
		return Period{}, fmt.Errorf("%w: time %02d:%02d:%02d.%03d", ErrOutOfRange, hour, minute, second, milli)
	}

	p := Period{kind: kind, year: year, sub: int(month), day: day}

	if kind >= Hour {
		p.hour = hour
	}

	if kind >= Minute {
		p.minute = minute
	}

	if kind >= Second {
		p.second = second
	}

	if kind == Millisecond {
		p.milli = milli
	}

	return p, nil
}

func fromFields(kind Kind, t time.Time) (Period, error) {
	return newFine(kind, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(time.Millisecond))
}

func checkYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: year %d outside [%d,%d]", ErrOutOfRange, year, MinYear, MaxYear)
	}

	return nil
}

// carry normalises a zero-based sub-year index into (year, index).
func carry(year, idx, per int) (int, int) {
	year += idx / per
	idx %= per

	if idx < 0 {
		idx += per
		year--
	}

	return year, idx
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isoWeeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()

	return w
}
