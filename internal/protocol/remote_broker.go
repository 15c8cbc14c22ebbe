package protocol

import (
	"github.com/tathienbao/trading-server/internal/broker"
	"github.com/tathienbao/trading-server/internal/types"
)

// RemoteBroker converts local broker calls into messages for the remote
// terminal. Placing an order and changing close conditions are synchronous
// request/response exchanges; order events arrive later through the session
// loop and are correlated over the order map.
type RemoteBroker struct {
	conn   *MsgConn
	orders *OrderMap
}

// NewRemoteBroker creates a broker talking to the terminal behind the given
// connection.
func NewRemoteBroker(conn *MsgConn, orders *OrderMap) *RemoteBroker {
	return &RemoteBroker{conn: conn, orders: orders}
}

// SendOrder implements broker.Broker.
func (b *RemoteBroker) SendOrder(order types.PendingOrder, listener broker.OrderEventListener) (broker.OrderManagement, error) {
	if err := b.conn.WriteMessage(PlaceOrder{Order: order}); err != nil {
		return nil, err
	}
	response, err := Expect[PlaceOrderResponse](b.conn)
	if err != nil {
		return nil, err
	}

	if !response.Success {
		if err := listener.OrderRejected(terminalFailure(response.ErrorCode)); err != nil {
			return nil, err
		}
		return broker.NoopManagement{}, nil
	}

	b.orders.Put(response.ID, listener)
	return &remoteManagement{broker: b, id: response.ID}, nil
}

// remoteManagement manages one live order at the terminal. The handle goes
// stale as soon as the order reached a terminal state; using a stale handle
// is a fatal invariant violation.
type remoteManagement struct {
	broker *RemoteBroker
	id     int32
}

func (m *remoteManagement) CloseOrCancelOrder() error {
	if !m.broker.orders.Has(m.id) {
		return types.NewProgrammingError(
			"tried to close or cancel the order %d which was already closed or canceled", m.id)
	}
	if err := m.broker.orders.Remove(m.id); err != nil {
		return err
	}
	return m.broker.conn.WriteMessage(CloseOrCancelOrder{ID: m.id})
}

func (m *remoteManagement) ChangeCloseConditions(conditions types.CloseConditions) (*broker.Rejection, error) {
	if !m.broker.orders.Has(m.id) {
		return nil, types.NewProgrammingError(
			"tried to change the close conditions of the order %d which was already closed or canceled", m.id)
	}
	if err := m.broker.conn.WriteMessage(ChangeCloseConditions{ID: m.id, Conditions: conditions}); err != nil {
		return nil, err
	}
	response, err := Expect[ChangeCloseConditionsResponse](m.broker.conn)
	if err != nil {
		return nil, err
	}
	if !response.Success {
		return &broker.Rejection{Reason: terminalFailure(response.ErrorCode)}, nil
	}
	return nil, nil
}
