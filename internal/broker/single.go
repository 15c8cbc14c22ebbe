package broker

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"
)

// ReasonOrderActive is the rejection reason while another order is outstanding.
const ReasonOrderActive = "there is another active pending order or trade and only one is allowed at a time"

// SingleOrder is a broker gate that allows at most one outstanding order at a
// time. The gate clears when the outstanding order is rejected or closed, or
// when the caller cancels it.
type SingleOrder struct {
	inner  Broker
	active *singleOrderGuard
}

// NewSingleOrder wraps the given broker in a single-active-order gate.
func NewSingleOrder(inner Broker) *SingleOrder {
	return &SingleOrder{inner: inner}
}

// SendOrder implements Broker. A second order while one is outstanding is
// rejected without reaching the inner broker.
func (s *SingleOrder) SendOrder(order types.PendingOrder, listener OrderEventListener) (OrderManagement, error) {
	if s.active != nil {
		if err := listener.OrderRejected(ReasonOrderActive); err != nil {
			return nil, err
		}
		return NoopManagement{}, nil
	}

	guard := &singleOrderGuard{gate: s, listener: listener}
	s.active = guard

	mgmt, err := s.inner.SendOrder(order, guard)
	if err != nil {
		s.clear(guard)
		return nil, err
	}
	// A synchronous rejection has already cleared the gate through the
	// guard's callback at this point.
	guard.mgmt = mgmt
	return guard, nil
}

func (s *SingleOrder) clear(guard *singleOrderGuard) {
	if s.active == guard {
		s.active = nil
	}
}

// singleOrderGuard observes the outstanding order and clears the gate on
// every terminal path.
type singleOrderGuard struct {
	gate     *SingleOrder
	listener OrderEventListener
	mgmt     OrderManagement
}

func (g *singleOrderGuard) OrderRejected(reason string) error {
	g.gate.clear(g)
	return g.listener.OrderRejected(reason)
}

func (g *singleOrderGuard) OrderOpened(t time.Time, price decimal.Decimal) error {
	return g.listener.OrderOpened(t, price)
}

func (g *singleOrderGuard) OrderClosed(t time.Time, price decimal.Decimal) error {
	g.gate.clear(g)
	return g.listener.OrderClosed(t, price)
}

func (g *singleOrderGuard) CloseOrCancelOrder() error {
	g.gate.clear(g)
	return g.mgmt.CloseOrCancelOrder()
}

func (g *singleOrderGuard) ChangeCloseConditions(conditions types.CloseConditions) (*Rejection, error) {
	return g.mgmt.ChangeCloseConditions(conditions)
}
