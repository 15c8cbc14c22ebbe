// Package protocol implements the server side of the terminal protocol: the
// message vocabulary, the typed codec on top of the wire stream, and the
// session loops for expert advisors and trend indicators.
package protocol

import (
	"errors"
	"fmt"
)

// ErrNormalClose reports that the remote terminal closed the connection at a
// message boundary. This is the expected end of every session.
var ErrNormalClose = errors.New("the client closed the connection")

// AbnormalCloseError reports that the connection broke down at a point where
// the client was not allowed to close it, or that the network failed.
type AbnormalCloseError struct {
	Cause error
}

func (e *AbnormalCloseError) Error() string {
	return fmt.Sprintf("the connection broke down unexpectedly: %v", e.Cause)
}

func (e *AbnormalCloseError) Unwrap() error {
	return e.Cause
}

// ProtocolError reports that the client violated the communication protocol,
// e.g. by requesting an unknown algorithm or sending a message that is not
// legal in the current state.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string {
	return e.Msg
}

func protocolErr(format string, args ...any) error {
	return &ProtocolError{Msg: fmt.Sprintf(format, args...)}
}

// MessageReadError reports that the bytes received could not be decoded into
// the expected message.
type MessageReadError struct {
	Msg   string
	Cause error
}

func (e *MessageReadError) Error() string {
	if e.Cause == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
}

func (e *MessageReadError) Unwrap() error {
	return e.Cause
}

func readErr(format string, args ...any) error {
	return &MessageReadError{Msg: fmt.Sprintf(format, args...)}
}
