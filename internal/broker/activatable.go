package broker

import "github.com/tathienbao/trading-server/internal/types"

// ReasonDeactivated is the rejection reason used while trading is switched off.
const ReasonDeactivated = "trading is programmatically deactivated at the moment"

// Activatable is a broker gate that rejects every order until it is
// activated. It starts deactivated; a strategy activates it once it has
// enough market context to trade.
type Activatable struct {
	inner     Broker
	activated bool
}

// NewActivatable wraps the given broker in a deactivated gate.
func NewActivatable(inner Broker) *Activatable {
	return &Activatable{inner: inner}
}

// Activate lets orders pass through.
func (a *Activatable) Activate() {
	a.activated = true
}

// Deactivate rejects all further orders until the next Activate.
func (a *Activatable) Deactivate() {
	a.activated = false
}

// SendOrder implements Broker.
func (a *Activatable) SendOrder(order types.PendingOrder, listener OrderEventListener) (OrderManagement, error) {
	if !a.activated {
		if err := listener.OrderRejected(ReasonDeactivated); err != nil {
			return nil, err
		}
		return NoopManagement{}, nil
	}
	return a.inner.SendOrder(order, listener)
}
