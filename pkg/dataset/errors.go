package dataset

import "errors"

// Sentinel errors shared by the collection packages.
var (
	// ErrInvalidArgument reports a nil key, an out-of-range index or position,
	// a negative limit or an unknown enum value. It is always detected before
	// any state is mutated.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownKey reports a lookup by a key that was never registered. A key
	// that is registered but holds no value is not an error.
	ErrUnknownKey = errors.New("unknown key")
)
