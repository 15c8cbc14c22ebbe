// Package types defines the value and event model shared across the trading server.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType represents the direction of a pending order.
type OrderType int

const (
	OrderTypeBuy OrderType = iota
	OrderTypeSell
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeBuy:
		return "BUY"
	case OrderTypeSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// ExecutionCondition determines when a pending order becomes an open trade.
type ExecutionCondition int

const (
	// ExecutionConditionStop opens the trade when the market moves past the
	// entry price in the unfavorable direction.
	ExecutionConditionStop ExecutionCondition = iota
	// ExecutionConditionLimit opens the trade when the market moves past the
	// entry price in the favorable direction.
	ExecutionConditionLimit
)

func (c ExecutionCondition) String() string {
	switch c {
	case ExecutionConditionStop:
		return "STOP"
	case ExecutionConditionLimit:
		return "LIMIT"
	default:
		return "UNKNOWN"
	}
}

// Symbol is a forex currency pair in its canonical 6-letter form, e.g. "EURUSD".
type Symbol string

// Base returns the base currency of the pair.
func (s Symbol) Base() string {
	return string(s[:3])
}

// Quote returns the quote currency of the pair.
func (s Symbol) Quote() string {
	return string(s[3:])
}

// Valid reports whether the symbol has the canonical 6-letter form.
func (s Symbol) Valid() bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Inverse returns the pair with base and quote currencies swapped.
func (s Symbol) Inverse() Symbol {
	return Symbol(s.Quote() + s.Base())
}

// Money is an amount in a concrete currency.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney creates a money value.
func NewMoney(amount string, currency string) Money {
	return Money{Amount: decimal.RequireFromString(amount), Currency: currency}
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}

// CloseConditions are the conditions under which an open trade or pending
// order is closed by the broker. A new value replaces the old one on
// modification; instances are never mutated in place.
type CloseConditions struct {
	TakeProfit decimal.Decimal
	StopLoss   decimal.Decimal
	Expiration time.Time // zero value means no expiration
}

// HasExpiration reports whether an expiration date is set.
func (c CloseConditions) HasExpiration() bool {
	return !c.Expiration.IsZero()
}

// PendingOrder is an order intent that has not yet been confirmed open by the
// broker. Volume is zero on the strategy-facing basic order and positive once
// the money management has sized it. Immutable; use OrderBuilder or
// WithVolume to derive new values.
type PendingOrder struct {
	Type            OrderType
	Condition       ExecutionCondition
	EntryPrice      decimal.Decimal
	Volume          int64 // in base units, 0 = not yet sized
	CloseConditions CloseConditions
}

// WithVolume returns a copy of the order sized with the given volume.
func (o PendingOrder) WithVolume(volume int64) PendingOrder {
	o.Volume = volume
	return o
}

// OrderBuilder assembles an immutable PendingOrder.
type OrderBuilder struct {
	order PendingOrder
}

// NewOrderBuilder creates an empty order builder.
func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{}
}

// Type sets the order direction.
func (b *OrderBuilder) Type(t OrderType) *OrderBuilder {
	b.order.Type = t
	return b
}

// Condition sets the execution condition.
func (b *OrderBuilder) Condition(c ExecutionCondition) *OrderBuilder {
	b.order.Condition = c
	return b
}

// EntryPrice sets the entry price.
func (b *OrderBuilder) EntryPrice(p decimal.Decimal) *OrderBuilder {
	b.order.EntryPrice = p
	return b
}

// Volume sets the trade volume in base units.
func (b *OrderBuilder) Volume(v int64) *OrderBuilder {
	b.order.Volume = v
	return b
}

// CloseConditions sets the close conditions.
func (b *OrderBuilder) CloseConditions(c CloseConditions) *OrderBuilder {
	b.order.CloseConditions = c
	return b
}

// Build returns the assembled immutable order.
func (b *OrderBuilder) Build() PendingOrder {
	return b.order
}

// Candle is one aggregated unit of market data as delivered by the remote
// terminal.
type Candle struct {
	Time      time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Spread    decimal.Decimal
	Volume    int64
	TickCount int64
}

// MarketDataListener is implemented by everything that needs to observe the
// candle stream of the traded symbol.
type MarketDataListener interface {
	NewMarketData(candle Candle)
}

// TradeEventType classifies one step in the life cycle of a trade.
type TradeEventType int

const (
	// TradeEventPlaced is recorded when the pending order is submitted.
	TradeEventPlaced TradeEventType = iota
	// TradeEventCanceled is recorded when the pending order ends without
	// ever being opened.
	TradeEventCanceled
	// TradeEventOpened is recorded when the broker opens the pending order.
	TradeEventOpened
	// TradeEventCloseConditionsChanged is recorded when the close conditions
	// of the order are modified.
	TradeEventCloseConditionsChanged
	// TradeEventClosed is recorded when the open trade is closed.
	TradeEventClosed
)

func (t TradeEventType) String() string {
	switch t {
	case TradeEventPlaced:
		return "PLACED"
	case TradeEventCanceled:
		return "CANCELED"
	case TradeEventOpened:
		return "OPENED"
	case TradeEventCloseConditionsChanged:
		return "CLOSE_CONDITIONS_CHANGED"
	case TradeEventClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// TradeEvent is one entry in the append-only history of a trade. Ordering is
// the order of occurrence.
type TradeEvent struct {
	Type       TradeEventType
	Time       time.Time
	Reason     string
	Price      decimal.Decimal  // zero when the event carries no price
	Conditions *CloseConditions // nil when the event carries no conditions
}

// CompletedTrade is the read-only record of a trade that reached a terminal
// state. It is created exactly once per trade.
type CompletedTrade struct {
	ID        string
	Type      OrderType
	Condition ExecutionCondition
	Symbol    Symbol
	Volume    int64
	Spread    decimal.Decimal
	Events    []TradeEvent
}

// WasOpened reports whether the trade was ever opened by the broker.
func (t CompletedTrade) WasOpened() bool {
	for _, ev := range t.Events {
		if ev.Type == TradeEventOpened {
			return true
		}
	}
	return false
}

// AccountInfo describes the trading account at the remote terminal.
type AccountInfo struct {
	BrokerName    string
	AccountNumber int64
	Currency      string
}

// VolumeConstraints are the volume limits the remote broker enforces.
type VolumeConstraints struct {
	Min  int64
	Max  int64
	Step int64
}

// Fees are the special fees the broker charges per trade.
type Fees struct {
	Markup     decimal.Decimal
	Commission decimal.Decimal
}

// Environment is the trading environment a remote terminal announces when a
// session starts.
type Environment struct {
	Account         AccountInfo
	TradeSymbol     Symbol
	AccountSymbol   Symbol // pair exchanging quote currency into account currency
	Fees            Fees
	NonHistoricTime time.Time // candles before this time are historic data
	Volume          VolumeConstraints
}

// IsBacktest reports whether the environment belongs to a backtest run rather
// than a live terminal.
func (e Environment) IsBacktest() bool {
	return e.Account.BrokerName == "Backtest"
}
