package selection

import (
	"errors"
	"fmt"
)

// Kind classifies why a selection token was rejected.
type Kind int

const (
	InvalidIndex Kind = iota + 1
	InvalidRange
	OutOfRange
)

var (
	ErrInvalidIndex = errors.New("invalid index")
	ErrInvalidRange = errors.New("invalid range")
	ErrOutOfRange   = errors.New("index out of range")
)

func (k Kind) sentinel() error {
	switch k {
	case InvalidIndex:
		return ErrInvalidIndex
	case InvalidRange:
		return ErrInvalidRange
	case OutOfRange:
		return ErrOutOfRange
	default:
		return errors.New("unknown selection error")
	}
}

func (k Kind) String() string {
	return k.sentinel().Error()
}

// Error reports the token that made a selection unusable. Value and
// Available are only set for OutOfRange.
type Error struct {
	Kind      Kind
	Token     string
	Value     int
	Available int
}

func (e *Error) Error() string {
	if e.Kind == OutOfRange {
		return fmt.Sprintf("%v: %q (%d not in 1-%d)", e.Kind, e.Token, e.Value, e.Available)
	}
	return fmt.Sprintf("%v: %q", e.Kind, e.Token)
}

func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}
