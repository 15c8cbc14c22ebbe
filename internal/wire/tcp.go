package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net"
)

// maxStringLen bounds outgoing strings to what a uint16 length prefix can
// frame. Any incoming length is representable and needs no check.
const maxStringLen = 1 << 16

// TCPConn is the production Conn over a TCP socket. All primitives are
// big-endian; strings are a 16-bit length followed by UTF-8 bytes.
type TCPConn struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
}

// NewTCPConn wraps an accepted socket.
func NewTCPConn(conn net.Conn) *TCPConn {
	return &TCPConn{
		conn: conn,
		r:    bufio.NewReader(conn),
		w:    bufio.NewWriter(conn),
	}
}

func (c *TCPConn) ReceiveByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		return 0, asPeerClosed("receive byte", err)
	}
	return b, nil
}

func (c *TCPConn) ReceiveInt32() (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(c.r, buf[:]); err != nil {
		return 0, asPeerClosed("receive int32", err)
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

func (c *TCPConn) ReceiveInt64() (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(c.r, buf[:]); err != nil {
		return 0, asPeerClosed("receive int64", err)
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

func (c *TCPConn) ReceiveFloat64() (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(c.r, buf[:]); err != nil {
		return 0, asPeerClosed("receive float64", err)
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf[:])), nil
}

func (c *TCPConn) ReceiveString() (string, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(c.r, lenBuf[:]); err != nil {
		return "", asPeerClosed("receive string length", err)
	}
	buf := make([]byte, binary.BigEndian.Uint16(lenBuf[:]))
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return "", asPeerClosed("receive string", err)
	}
	return string(buf), nil
}

func (c *TCPConn) SendByte(v byte) error {
	if err := c.w.WriteByte(v); err != nil {
		return fmt.Errorf("send byte: %w", err)
	}
	return nil
}

func (c *TCPConn) SendInt32(v int32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	if _, err := c.w.Write(buf[:]); err != nil {
		return fmt.Errorf("send int32: %w", err)
	}
	return nil
}

func (c *TCPConn) SendInt64(v int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	if _, err := c.w.Write(buf[:]); err != nil {
		return fmt.Errorf("send int64: %w", err)
	}
	return nil
}

func (c *TCPConn) SendFloat64(v float64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	if _, err := c.w.Write(buf[:]); err != nil {
		return fmt.Errorf("send float64: %w", err)
	}
	return nil
}

func (c *TCPConn) SendString(v string) error {
	if len(v) >= maxStringLen {
		return fmt.Errorf("send string: length %d exceeds the protocol limit", len(v))
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(v)))
	if _, err := c.w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("send string length: %w", err)
	}
	if _, err := c.w.WriteString(v); err != nil {
		return fmt.Errorf("send string: %w", err)
	}
	return nil
}

func (c *TCPConn) Flush() error {
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func (c *TCPConn) Close() error {
	return c.conn.Close()
}

func (c *TCPConn) String() string {
	return c.conn.RemoteAddr().String()
}
