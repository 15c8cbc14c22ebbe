package protocol

import (
	"errors"
	"fmt"

	"github.com/tathienbao/trading-server/internal/wire"
)

// fakeConn is a scripted wire connection. Reads pop scripted values in
// order; an exhausted script behaves like a peer that closed the connection.
// Everything sent is recorded.
type fakeConn struct {
	reads    []any
	writes   []any
	flushes  int
	closes   int
	closeErr error
}

var errScriptMisuse = errors.New("the scripted value does not match the requested type")

func (c *fakeConn) pop() (any, error) {
	if len(c.reads) == 0 {
		return nil, wire.ErrPeerClosed
	}
	v := c.reads[0]
	c.reads = c.reads[1:]
	if err, ok := v.(error); ok {
		return nil, err
	}
	return v, nil
}

func (c *fakeConn) ReceiveByte() (byte, error) {
	v, err := c.pop()
	if err != nil {
		return 0, err
	}
	b, ok := v.(byte)
	if !ok {
		return 0, fmt.Errorf("%w: want byte, scripted %T", errScriptMisuse, v)
	}
	return b, nil
}

func (c *fakeConn) ReceiveInt32() (int32, error) {
	v, err := c.pop()
	if err != nil {
		return 0, err
	}
	i, ok := v.(int32)
	if !ok {
		return 0, fmt.Errorf("%w: want int32, scripted %T", errScriptMisuse, v)
	}
	return i, nil
}

func (c *fakeConn) ReceiveInt64() (int64, error) {
	v, err := c.pop()
	if err != nil {
		return 0, err
	}
	i, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("%w: want int64, scripted %T", errScriptMisuse, v)
	}
	return i, nil
}

func (c *fakeConn) ReceiveFloat64() (float64, error) {
	v, err := c.pop()
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: want float64, scripted %T", errScriptMisuse, v)
	}
	return f, nil
}

func (c *fakeConn) ReceiveString() (string, error) {
	v, err := c.pop()
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: want string, scripted %T", errScriptMisuse, v)
	}
	return s, nil
}

func (c *fakeConn) SendByte(v byte) error       { c.writes = append(c.writes, v); return nil }
func (c *fakeConn) SendInt32(v int32) error     { c.writes = append(c.writes, v); return nil }
func (c *fakeConn) SendInt64(v int64) error     { c.writes = append(c.writes, v); return nil }
func (c *fakeConn) SendFloat64(v float64) error { c.writes = append(c.writes, v); return nil }
func (c *fakeConn) SendString(v string) error   { c.writes = append(c.writes, v); return nil }

func (c *fakeConn) Flush() error {
	c.flushes++
	return nil
}

func (c *fakeConn) Close() error {
	c.closes++
	return c.closeErr
}

func (c *fakeConn) String() string {
	return "fake client"
}

// environmentScript is the scripted wire form of a plausible trading
// environment message.
func environmentScript() []any {
	return []any{
		byte(KindTradingEnvironment),
		"TestBroker",      // broker name
		int64(4711),       // account number
		"USD",             // account currency
		"EURUSD",          // trade symbol
		"USDUSD",          // account symbol
		int32(5),          // markup in pipettes
		int32(10),         // commission in pipettes
		int64(1700000000), // non-historic time
		int64(1000),       // min volume
		int64(10000000),   // max volume
		int64(1000),       // volume step
	}
}

// fullCandleScript is the scripted wire form of a full market data message.
func fullCandleScript(epoch int64, price float64) []any {
	return []any{
		byte(KindNewMarketData),
		epoch,
		price, price, price, price, // open, high, low, close
		int32(12),  // spread in pipettes
		int32(100), // volume
		int32(42),  // tick count
	}
}
