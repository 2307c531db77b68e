package period

import (
	"errors"
	"fmt"
	"strings"
)

// Anchor selects the instant that represents a period on a continuous axis.
type Anchor uint8

// Anchors.
const (
	Start Anchor = iota
	Middle
	End
)

// ErrUnknownAnchor reports an unrecognised anchor name.
var ErrUnknownAnchor = errors.New("unknown anchor")

func (a Anchor) String() string {
	switch a {
	case Start:
		return "start"
	case Middle:
		return "middle"
	case End:
		return "end"
	default:
		return fmt.Sprintf("Anchor(%d)", uint8(a))
	}
}

// ParseAnchor parses "start", "middle" or "end".
func ParseAnchor(s string) (Anchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start":
		return Start, nil
	case "middle":
		return Middle, nil
	case "end":
		return End, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAnchor, s)
	}
}
