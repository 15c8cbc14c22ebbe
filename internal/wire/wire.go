// Package wire implements the low-level binary stream the trading terminal
// speaks: big-endian primitives over a buffered TCP connection.
package wire

import (
	"errors"
	"fmt"
	"io"
)

// ErrPeerClosed reports that the remote side closed the stream at a point
// where closing is not an error in itself. Callers decide whether the close
// came at an acceptable moment.
var ErrPeerClosed = errors.New("the remote terminal closed the connection")

// Conn is a bidirectional stream of wire primitives. Writes are buffered
// until Flush. Implementations are not safe for concurrent use; the protocol
// layer serializes access.
type Conn interface {
	ReceiveByte() (byte, error)
	ReceiveInt32() (int32, error)
	ReceiveInt64() (int64, error)
	ReceiveFloat64() (float64, error)
	ReceiveString() (string, error)

	SendByte(v byte) error
	SendInt32(v int32) error
	SendInt64(v int64) error
	SendFloat64(v float64) error
	SendString(v string) error

	// Flush writes all buffered data to the underlying stream.
	Flush() error
	// Close closes the underlying stream.
	Close() error
	// String describes the remote endpoint for log messages.
	String() string
}

// asPeerClosed maps a clean end-of-stream onto ErrPeerClosed and wraps every
// other read failure.
func asPeerClosed(op string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrPeerClosed
	}
	return fmt.Errorf("%s: %w", op, err)
}
