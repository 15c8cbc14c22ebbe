package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the trading server.
var (
	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidSymbol = errors.New("invalid symbol")

	// Session errors
	ErrUnknownAdvisor   = errors.New("unknown expert advisor number")
	ErrUnknownIndicator = errors.New("unknown indicator number")
)

// ProgrammingError is a fatal invariant violation: acting on an unknown order
// id, unbalanced currency blocking, or submitting an order before the
// required market context exists. It is never silently absorbed; the affected
// session terminates rather than continue in a possibly-inconsistent state.
type ProgrammingError struct {
	Msg   string
	Cause error
}

func (e *ProgrammingError) Error() string {
	if e.Cause != nil {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}

func (e *ProgrammingError) Unwrap() error {
	return e.Cause
}

// NewProgrammingError creates a ProgrammingError with a formatted message.
func NewProgrammingError(format string, args ...any) error {
	return &ProgrammingError{Msg: fmt.Sprintf(format, args...)}
}

// IsProgrammingError reports whether err is or wraps a ProgrammingError.
func IsProgrammingError(err error) bool {
	var pe *ProgrammingError
	return errors.As(err, &pe)
}
