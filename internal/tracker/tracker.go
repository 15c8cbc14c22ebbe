// Package tracker records the full life cycle of every order sent through it
// and reports each finished trade exactly once.
package tracker

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tathienbao/trading-server/internal/broker"
	"github.com/tathienbao/trading-server/internal/types"
)

// CompletedTradeListener receives every trade that reached a terminal state.
// A returned error is fatal for the session that produced the trade.
type CompletedTradeListener interface {
	TradeCompleted(trade types.CompletedTrade) error
}

// Tracker is a broker wrapper that observes every order passing through it
// and assembles the append-only event history of the resulting trade. When
// the trade reaches a terminal state the completed record is reported exactly
// once, whether the trade ended through a broker event or through a
// cancellation by the caller.
type Tracker struct {
	inner    broker.Broker
	listener CompletedTradeListener
	symbol   types.Symbol

	lastCandle types.Candle
	hasData    bool
}

// NewTracker wraps the given broker, reporting completed trades on the given
// symbol to the listener.
func NewTracker(inner broker.Broker, listener CompletedTradeListener, symbol types.Symbol) *Tracker {
	return &Tracker{inner: inner, listener: listener, symbol: symbol}
}

// NewMarketData records the current candle. Its time stamps events that are
// not triggered by the broker and its spread is attributed to new trades.
func (t *Tracker) NewMarketData(candle types.Candle) {
	t.lastCandle = candle
	t.hasData = true
}

// SendOrder implements broker.Broker. The order's placement is recorded
// before it is forwarded; a fault from the inner broker discards the record
// because no trade ever existed at the broker.
func (t *Tracker) SendOrder(order types.PendingOrder, listener broker.OrderEventListener) (broker.OrderManagement, error) {
	if !t.hasData {
		return nil, types.NewProgrammingError(
			"an order was sent before any market data arrived to date its placement")
	}

	conditions := order.CloseConditions
	obs := &observer{
		tracker:  t,
		listener: listener,
		trade: types.CompletedTrade{
			ID:        uuid.NewString(),
			Type:      order.Type,
			Condition: order.Condition,
			Symbol:    t.symbol,
			Volume:    order.Volume,
			Spread:    t.lastCandle.Spread,
			Events: []types.TradeEvent{{
				Type:       types.TradeEventPlaced,
				Time:       t.lastCandle.Time,
				Price:      order.EntryPrice,
				Conditions: &conditions,
			}},
		},
		conditions: conditions,
	}

	mgmt, err := t.inner.SendOrder(order, obs)
	if err != nil {
		return nil, err
	}
	obs.mgmt = mgmt
	return obs, nil
}

// observer follows one order through its life cycle. It is both the listener
// wrapper and the management wrapper so that terminal states reached from
// either side finish the same record.
type observer struct {
	tracker    *Tracker
	listener   broker.OrderEventListener
	mgmt       broker.OrderManagement
	trade      types.CompletedTrade
	conditions types.CloseConditions
	opened     bool
	finished   bool
}

func (o *observer) OrderRejected(reason string) error {
	o.record(types.TradeEvent{
		Type:   types.TradeEventCanceled,
		Time:   o.tracker.lastCandle.Time,
		Reason: "the broker failed placing the pending order: " + reason,
	})
	if err := o.finish(); err != nil {
		return err
	}
	return o.listener.OrderRejected(reason)
}

func (o *observer) OrderOpened(at time.Time, price decimal.Decimal) error {
	o.opened = true
	o.record(types.TradeEvent{
		Type:  types.TradeEventOpened,
		Time:  at,
		Price: price,
	})
	return o.listener.OrderOpened(at, price)
}

func (o *observer) OrderClosed(at time.Time, price decimal.Decimal) error {
	o.record(types.TradeEvent{
		Type:  types.TradeEventClosed,
		Time:  at,
		Price: price,
	})
	if err := o.finish(); err != nil {
		return err
	}
	return o.listener.OrderClosed(at, price)
}

// CloseOrCancelOrder implements broker.OrderManagement. The terminal event is
// dated and priced with the current candle because the broker sends no event
// for a close that the caller requested.
func (o *observer) CloseOrCancelOrder() error {
	if err := o.mgmt.CloseOrCancelOrder(); err != nil {
		return err
	}
	if o.opened {
		o.record(types.TradeEvent{
			Type:   types.TradeEventClosed,
			Time:   o.tracker.lastCandle.Time,
			Reason: "the expert advisor closed the trade",
			Price:  o.tracker.lastCandle.Close,
		})
	} else {
		o.record(types.TradeEvent{
			Type:   types.TradeEventCanceled,
			Time:   o.tracker.lastCandle.Time,
			Reason: "the expert advisor canceled the pending order",
			Price:  o.tracker.lastCandle.Close,
		})
	}
	return o.finish()
}

// ChangeCloseConditions implements broker.OrderManagement. The attempted
// change is always recorded; a rejection adds a second event with the
// conditions that stay in effect.
func (o *observer) ChangeCloseConditions(conditions types.CloseConditions) (*broker.Rejection, error) {
	rejection, err := o.mgmt.ChangeCloseConditions(conditions)
	if err != nil {
		return nil, err
	}

	requested := conditions
	o.record(types.TradeEvent{
		Type:       types.TradeEventCloseConditionsChanged,
		Time:       o.tracker.lastCandle.Time,
		Conditions: &requested,
	})
	if rejection != nil {
		kept := o.conditions
		o.record(types.TradeEvent{
			Type:       types.TradeEventCloseConditionsChanged,
			Time:       o.tracker.lastCandle.Time,
			Reason:     "the broker rejected changing the close conditions: " + rejection.Reason,
			Conditions: &kept,
		})
		return rejection, nil
	}

	o.conditions = conditions
	return nil, nil
}

func (o *observer) record(event types.TradeEvent) {
	if o.finished {
		return
	}
	o.trade.Events = append(o.trade.Events, event)
}

func (o *observer) finish() error {
	if o.finished {
		return nil
	}
	o.finished = true
	return o.tracker.listener.TradeCompleted(o.trade)
}
