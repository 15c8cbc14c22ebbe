package broker

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"
)

// fakeBroker records submitted orders and keeps the listener so tests can
// drive order events by hand.
type fakeBroker struct {
	orders    []types.PendingOrder
	listener  OrderEventListener
	mgmt      *fakeManagement
	sendErr   error
	rejectOn  string // when set, SendOrder rejects synchronously
	rejectErr error
}

func (b *fakeBroker) SendOrder(order types.PendingOrder, listener OrderEventListener) (OrderManagement, error) {
	if b.sendErr != nil {
		return nil, b.sendErr
	}
	b.orders = append(b.orders, order)
	b.listener = listener
	if b.rejectOn != "" {
		if err := listener.OrderRejected(b.rejectOn); err != nil {
			return nil, err
		}
		if b.rejectErr != nil {
			return nil, b.rejectErr
		}
		return NoopManagement{}, nil
	}
	b.mgmt = &fakeManagement{}
	return b.mgmt, nil
}

type fakeManagement struct {
	closed     bool
	conditions []types.CloseConditions
	rejection  *Rejection
	closeErr   error
}

func (m *fakeManagement) CloseOrCancelOrder() error {
	m.closed = true
	return m.closeErr
}

func (m *fakeManagement) ChangeCloseConditions(conditions types.CloseConditions) (*Rejection, error) {
	m.conditions = append(m.conditions, conditions)
	return m.rejection, nil
}

// recordingListener records every event it receives.
type recordingListener struct {
	rejections []string
	opened     int
	closed     int
	failWith   error // returned from every callback when set
}

func (l *recordingListener) OrderRejected(reason string) error {
	l.rejections = append(l.rejections, reason)
	return l.failWith
}

func (l *recordingListener) OrderOpened(time.Time, decimal.Decimal) error {
	l.opened++
	return l.failWith
}

func (l *recordingListener) OrderClosed(time.Time, decimal.Decimal) error {
	l.closed++
	return l.failWith
}

var errConnectionLost = errors.New("connection to the trading terminal lost")

// testOrder builds a plausible unsized buy stop order.
func testOrder() types.PendingOrder {
	return types.NewOrderBuilder().
		Type(types.OrderTypeBuy).
		Condition(types.ExecutionConditionStop).
		EntryPrice(decimal.RequireFromString("1.25100")).
		CloseConditions(types.CloseConditions{
			TakeProfit: decimal.RequireFromString("1.25500"),
			StopLoss:   decimal.RequireFromString("1.24900"),
		}).
		Build()
}

func testCandle(close string) types.Candle {
	return types.Candle{
		Time:  time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		Open:  decimal.RequireFromString(close),
		High:  decimal.RequireFromString(close),
		Low:   decimal.RequireFromString(close),
		Close: decimal.RequireFromString(close),
	}
}
