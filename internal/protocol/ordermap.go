package protocol

import (
	"github.com/tathienbao/trading-server/internal/broker"
	"github.com/tathienbao/trading-server/internal/types"
)

// OrderMap correlates the order ids the remote terminal assigns with the
// listeners waiting for events of those orders. Looking up or removing an id
// that is not registered is a fatal invariant violation.
type OrderMap struct {
	listeners map[int32]broker.OrderEventListener
}

// NewOrderMap creates an empty map.
func NewOrderMap() *OrderMap {
	return &OrderMap{listeners: make(map[int32]broker.OrderEventListener)}
}

// Put registers the listener for the given order id.
func (m *OrderMap) Put(id int32, listener broker.OrderEventListener) {
	m.listeners[id] = listener
}

// Has reports whether a listener is registered for the given order id.
func (m *OrderMap) Has(id int32) bool {
	_, ok := m.listeners[id]
	return ok
}

// Get returns the listener registered for the given order id.
func (m *OrderMap) Get(id int32) (broker.OrderEventListener, error) {
	listener, ok := m.listeners[id]
	if !ok {
		return nil, types.NewProgrammingError(
			"the listener for the order id %d was requested but no listener with this id is known", id)
	}
	return listener, nil
}

// Remove unregisters the listener for the given order id.
func (m *OrderMap) Remove(id int32) error {
	if _, ok := m.listeners[id]; !ok {
		return types.NewProgrammingError(
			"the listener for the order id %d should be removed but no listener with this id is known", id)
	}
	delete(m.listeners, id)
	return nil
}
