package period

import (
	"fmt"
	"time"
)

// Layouts used by String and Parse for the kinds time.Parse can handle.
const (
	layoutDay    = "2006-01-02"
	layoutHour   = "2006-01-02T15"
	layoutMinute = "2006-01-02T15:04"
	layoutSecond = "2006-01-02T15:04:05"
	layoutMilli  = "2006-01-02T15:04:05.000"
)

// String formats p in an ISO-8601 style: 2024, 2024-Q1, 2024-01, 2024-W05,
// 2024-01-02, 2024-01-02T13, 2024-01-02T13:04, 2024-01-02T13:04:05 and
// 2024-01-02T13:04:05.006.
func (p Period) String() string {
	switch p.kind {
	case Year:
		return fmt.Sprintf("%04d", p.year)
	case Quarter:
		return fmt.Sprintf("%04d-Q%d", p.year, p.sub)
	case Month:
		return fmt.Sprintf("%04d-%02d", p.year, p.sub)
	case Week:
		return fmt.Sprintf("%04d-W%02d", p.year, p.sub)
	case Day, Hour, Minute, Second, Millisecond:
		return p.utc().Format(p.kind.layout())
	default:
		return "invalid period"
	}
}

// Parse reads the String form of a period of the given kind.
func Parse(kind Kind, s string) (Period, error) {
	var (
		year, sub int
		n         int
		err       error
	)

	switch kind {
	case Year:
		n, err = fmt.Sscanf(s, "%4d", &year)
		if err == nil && n == 1 && len(s) == 4 {
			return NewYear(year)
		}
	case Quarter:
		n, err = fmt.Sscanf(s, "%4d-Q%1d", &year, &sub)
		if err == nil && n == 2 && len(s) == 7 {
			return NewQuarter(year, sub)
		}
	case Month:
		n, err = fmt.Sscanf(s, "%4d-%2d", &year, &sub)
		if err == nil && n == 2 && len(s) == 7 {
			return NewMonth(year, time.Month(sub))
		}
	case Week:
		n, err = fmt.Sscanf(s, "%4d-W%2d", &year, &sub)
		if err == nil && n == 2 && len(s) == 8 {
			return NewWeek(year, sub)
		}
	case Day, Hour, Minute, Second, Millisecond:
		t, perr := time.Parse(kind.layout(), s)
		if perr != nil {
			return Period{}, fmt.Errorf("parse %s %q: %w", kind, s, perr)
		}

		return fromFields(kind, t)
	default:
		return Period{}, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(kind))
	}

	if err == nil {
		err = ErrOutOfRange
	}

	return Period{}, fmt.Errorf("parse %s %q: %w", kind, s, err)
}

func (k Kind) layout() string {
	switch k {
	case Hour:
		return layoutHour
	case Minute:
		return layoutMinute
	case Second:
		return layoutSecond
	case Millisecond:
		return layoutMilli
	default:
		return layoutDay
	}
}
