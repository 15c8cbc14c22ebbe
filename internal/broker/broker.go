// Package broker defines the order-execution capability and the decorator
// pipeline that is wrapped around it before a strategy gets to see it.
//
// Business rejections are always delivered through the listener's
// OrderRejected callback, never through returned errors. Returned errors are
// reserved for connection faults and fatal invariant violations; they thread
// explicitly through every decorator up to the per-session fault handler.
package broker

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"
)

// OrderEventListener receives the asynchronous events of one submitted order.
// Exactly one resolution is delivered per order: either OrderRejected, or
// OrderOpened optionally followed by OrderClosed. The error returns carry
// connection faults and invariant violations raised while handling the event,
// never business conditions.
type OrderEventListener interface {
	OrderRejected(reason string) error
	OrderOpened(t time.Time, price decimal.Decimal) error
	OrderClosed(t time.Time, price decimal.Decimal) error
}

// Rejection is the reason the broker declined a management action. It is a
// business condition, fully recoverable for the caller.
type Rejection struct {
	Reason string
}

func (r *Rejection) String() string {
	return r.Reason
}

// OrderManagement is the live handle for one submitted order. After the
// listener received a terminal event or a cancellation completed, the handle
// is retired and no further calls may be made through it.
type OrderManagement interface {
	// CloseOrCancelOrder closes the trade if it was opened or cancels the
	// pending order otherwise.
	CloseOrCancelOrder() error

	// ChangeCloseConditions replaces the close conditions of the order. A
	// non-nil Rejection means the broker declined the change and the old
	// conditions remain active.
	ChangeCloseConditions(conditions types.CloseConditions) (*Rejection, error)
}

// Broker accepts pending orders for execution.
type Broker interface {
	// SendOrder submits the order and returns a management handle for it.
	// The listener receives exactly one resolution, possibly before
	// SendOrder returns; a handle returned after a rejection is inert.
	SendOrder(order types.PendingOrder, listener OrderEventListener) (OrderManagement, error)
}

// NoopManagement is the inert handle returned together with a rejection.
type NoopManagement struct{}

var noopRejection = &Rejection{
	Reason: "changing close conditions is not supported because the order has already been rejected or canceled",
}

// CloseOrCancelOrder does nothing.
func (NoopManagement) CloseOrCancelOrder() error {
	return nil
}

// ChangeCloseConditions always reports a rejection.
func (NoopManagement) ChangeCloseConditions(types.CloseConditions) (*Rejection, error) {
	return noopRejection, nil
}
