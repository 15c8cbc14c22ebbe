package protocol

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tathienbao/trading-server/internal/types"
)

// captureListener records every order event it receives.
type captureListener struct {
	rejections []string
	opened     bool
	closed     bool
}

func (l *captureListener) OrderRejected(reason string) error {
	l.rejections = append(l.rejections, reason)
	return nil
}

func (l *captureListener) OrderOpened(t time.Time, price decimal.Decimal) error {
	l.opened = true
	return nil
}

func (l *captureListener) OrderClosed(t time.Time, price decimal.Decimal) error {
	l.closed = true
	return nil
}

func protocolTestOrder() types.PendingOrder {
	return types.PendingOrder{
		Type:       types.OrderTypeBuy,
		Condition:  types.ExecutionConditionStop,
		EntryPrice: decimal.NewFromFloat(1.251),
		Volume:     20000,
		CloseConditions: types.CloseConditions{
			TakeProfit: decimal.NewFromFloat(1.255),
			StopLoss:   decimal.NewFromFloat(1.249),
		},
	}
}

func TestRemoteBrokerRegistersAcceptedOrders(t *testing.T) {
	conn := &fakeConn{reads: []any{byte(KindPlaceOrderResponse), byte(0), int32(7)}}
	orders := NewOrderMap()
	remote := NewRemoteBroker(NewMsgConn(conn), orders)
	listener := &captureListener{}

	management, err := remote.SendOrder(protocolTestOrder(), listener)
	if err != nil {
		t.Fatalf("SendOrder: %v", err)
	}
	if management == nil {
		t.Fatal("SendOrder returned no management handle")
	}
	if len(listener.rejections) != 0 {
		t.Errorf("listener was rejected: %v", listener.rejections)
	}
	if !orders.Has(7) {
		t.Error("the accepted order is not registered under the terminal's id")
	}
	if conn.writes[0] != byte(KindPlaceOrder) {
		t.Errorf("first write = %v, want the place order kind", conn.writes[0])
	}
}

func TestRemoteBrokerRejectsWithTerminalFailure(t *testing.T) {
	conn := &fakeConn{reads: []any{byte(KindPlaceOrderResponse), byte(1), int32(134)}}
	orders := NewOrderMap()
	remote := NewRemoteBroker(NewMsgConn(conn), orders)
	listener := &captureListener{}

	management, err := remote.SendOrder(protocolTestOrder(), listener)
	if err != nil {
		t.Fatalf("SendOrder: %v", err)
	}
	if management == nil {
		t.Fatal("SendOrder returned no management handle")
	}

	want := "the trading terminal failed to execute an action: 134 - Not enough money."
	if len(listener.rejections) != 1 || listener.rejections[0] != want {
		t.Errorf("rejections = %v, want [%q]", listener.rejections, want)
	}
	if orders.Has(134) {
		t.Error("a rejected order must not be registered")
	}
}

func TestRemoteBrokerDescribesUnknownTerminalErrors(t *testing.T) {
	conn := &fakeConn{reads: []any{byte(KindPlaceOrderResponse), byte(1), int32(99)}}
	listener := &captureListener{}

	if _, err := NewRemoteBroker(NewMsgConn(conn), NewOrderMap()).SendOrder(protocolTestOrder(), listener); err != nil {
		t.Fatalf("SendOrder: %v", err)
	}

	want := "the trading terminal failed to execute an action: 99 - unknown error"
	if len(listener.rejections) != 1 || listener.rejections[0] != want {
		t.Errorf("rejections = %v, want [%q]", listener.rejections, want)
	}
}

func TestRemoteBrokerFailsOnBrokenResponse(t *testing.T) {
	conn := &fakeConn{reads: []any{byte(KindBalanceChanged), int64(100)}}
	remote := NewRemoteBroker(NewMsgConn(conn), NewOrderMap())

	_, err := remote.SendOrder(protocolTestOrder(), &captureListener{})

	var readFailure *MessageReadError
	if !errors.As(err, &readFailure) {
		t.Fatalf("got %v, want a MessageReadError", err)
	}
}

func TestRemoteManagementClosesOrder(t *testing.T) {
	conn := &fakeConn{reads: []any{byte(KindPlaceOrderResponse), byte(0), int32(7)}}
	orders := NewOrderMap()
	remote := NewRemoteBroker(NewMsgConn(conn), orders)

	management, err := remote.SendOrder(protocolTestOrder(), &captureListener{})
	if err != nil {
		t.Fatalf("SendOrder: %v", err)
	}
	if err := management.CloseOrCancelOrder(); err != nil {
		t.Fatalf("CloseOrCancelOrder: %v", err)
	}

	if orders.Has(7) {
		t.Error("the closed order is still registered")
	}
	wantTail := []any{byte(KindCloseOrCancelOrder), int32(7)}
	tail := conn.writes[len(conn.writes)-2:]
	if tail[0] != wantTail[0] || tail[1] != wantTail[1] {
		t.Errorf("last writes = %v, want %v", tail, wantTail)
	}
}

func TestRemoteManagementChangesCloseConditions(t *testing.T) {
	conditions := types.CloseConditions{
		TakeProfit: decimal.NewFromFloat(1.256),
		StopLoss:   decimal.NewFromFloat(1.25),
	}

	t.Run("accepted", func(t *testing.T) {
		conn := &fakeConn{reads: []any{
			byte(KindPlaceOrderResponse), byte(0), int32(7),
			byte(KindChangeCloseConditionsResponse), byte(0),
		}}
		management, err := NewRemoteBroker(NewMsgConn(conn), NewOrderMap()).
			SendOrder(protocolTestOrder(), &captureListener{})
		if err != nil {
			t.Fatalf("SendOrder: %v", err)
		}

		rejection, err := management.ChangeCloseConditions(conditions)
		if err != nil {
			t.Fatalf("ChangeCloseConditions: %v", err)
		}
		if rejection != nil {
			t.Errorf("rejection = %v, want nil", rejection)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		conn := &fakeConn{reads: []any{
			byte(KindPlaceOrderResponse), byte(0), int32(7),
			byte(KindChangeCloseConditionsResponse), byte(1), int32(130),
		}}
		management, err := NewRemoteBroker(NewMsgConn(conn), NewOrderMap()).
			SendOrder(protocolTestOrder(), &captureListener{})
		if err != nil {
			t.Fatalf("SendOrder: %v", err)
		}

		rejection, err := management.ChangeCloseConditions(conditions)
		if err != nil {
			t.Fatalf("ChangeCloseConditions: %v", err)
		}
		want := "the trading terminal failed to execute an action: 130 - Invalid stops."
		if rejection == nil || rejection.Reason != want {
			t.Errorf("rejection = %v, want %q", rejection, want)
		}
	})
}

func TestRemoteManagementFailsWhenHandleIsStale(t *testing.T) {
	conn := &fakeConn{reads: []any{byte(KindPlaceOrderResponse), byte(0), int32(7)}}
	management, err := NewRemoteBroker(NewMsgConn(conn), NewOrderMap()).
		SendOrder(protocolTestOrder(), &captureListener{})
	if err != nil {
		t.Fatalf("SendOrder: %v", err)
	}
	if err := management.CloseOrCancelOrder(); err != nil {
		t.Fatalf("CloseOrCancelOrder: %v", err)
	}

	if err := management.CloseOrCancelOrder(); !types.IsProgrammingError(err) {
		t.Errorf("second CloseOrCancelOrder = %v, want a programming error", err)
	}
	if _, err := management.ChangeCloseConditions(types.CloseConditions{}); !types.IsProgrammingError(err) {
		t.Errorf("ChangeCloseConditions on stale handle = %v, want a programming error", err)
	}
}
