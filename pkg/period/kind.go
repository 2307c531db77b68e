// Package period models calendar-aligned time spans of a fixed granularity:
// years, quarters, ISO weeks, months, days, hours, minutes, seconds and
// milliseconds.
//
// A Period is an immutable, comparable value. Its identity is its calendar
// fields; instants are derived on demand against a *time.Location. Every
// period carries a serial index that grows by one per step within its kind.
// Weeks are the exception: the index is year*53+week, so 52-week years
// leave a gap.
package period

import (
	"errors"
	"fmt"
	"strings"
)

// Representable year range, inclusive.
const (
	MinYear = 1900
	MaxYear = 9999
)

// ErrOutOfRange reports a calendar field outside its valid range or a year
// outside [MinYear, MaxYear].
var ErrOutOfRange = errors.New("period field out of range")

// ErrUnknownKind reports an unrecognised period kind name.
var ErrUnknownKind = errors.New("unknown period kind")

// Kind is the granularity of a period. The zero Kind is not a granularity;
// series use it to mean "no kind committed yet".
type Kind uint8

// Period kinds, coarsest first.
const (
	Year Kind = iota + 1
	Quarter
	Month
	Week
	Day
	Hour
	Minute
	Second
	Millisecond
)

var kindNames = [...]string{
	Year:        "Year",
	Quarter:     "Quarter",
	Month:       "Month",
	Week:        "Week",
	Day:         "Day",
	Hour:        "Hour",
	Minute:      "Minute",
	Second:      "Second",
	Millisecond: "Millisecond",
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= Year && k <= Millisecond
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}

	return kindNames[k]
}

// Finer returns the next finer granularity used when a period has to be split:
// Year to Quarter, Quarter to Month, Month and Week to Day, and so on down to
// Millisecond, which maps to itself.
func (k Kind) Finer() Kind {
	switch k {
	case Year:
		return Quarter
	case Quarter:
		return Month
	case Month, Week:
		return Day
	case Day:
		return Hour
	case Hour:
		return Minute
	case Minute:
		return Second
	default:
		return Millisecond
	}
}

// ParseKind parses a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for k := Year; k <= Millisecond; k++ {
		if strings.EqualFold(kindNames[k], s) {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}

	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}
