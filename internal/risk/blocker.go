// Package risk implements the volume-lending money management: per-currency
// trade blocking, risk-to-money conversion, pip-value and volume-size
// calculation, and the lease bookkeeping around them.
package risk

import "github.com/tathienbao/trading-server/internal/types"

// TradeBlocker limits how many trades may be active at the same time.
// Block and Unblock calls must be paired; unbalanced calls are fatal
// invariant violations.
type TradeBlocker interface {
	IsTradingAllowed(symbol types.Symbol) bool
	Block(symbol types.Symbol) error
	Unblock(symbol types.Symbol) error
}

// OneTradePerCurrency allows a single active trade per currency: a symbol may
// be traded only while neither of its currencies is part of another active
// trade.
type OneTradePerCurrency struct {
	invested map[string]struct{}
}

// NewOneTradePerCurrency creates an empty blocker.
func NewOneTradePerCurrency() *OneTradePerCurrency {
	return &OneTradePerCurrency{invested: make(map[string]struct{})}
}

// IsTradingAllowed implements TradeBlocker.
func (b *OneTradePerCurrency) IsTradingAllowed(symbol types.Symbol) bool {
	_, base := b.invested[symbol.Base()]
	_, quote := b.invested[symbol.Quote()]
	return !base && !quote
}

// Block implements TradeBlocker.
func (b *OneTradePerCurrency) Block(symbol types.Symbol) error {
	if !b.IsTradingAllowed(symbol) {
		return types.NewProgrammingError(
			"should block the currencies of symbol %s but one or both are already blocked", symbol)
	}
	b.invested[symbol.Base()] = struct{}{}
	b.invested[symbol.Quote()] = struct{}{}
	return nil
}

// Unblock implements TradeBlocker.
func (b *OneTradePerCurrency) Unblock(symbol types.Symbol) error {
	if b.IsTradingAllowed(symbol) {
		return types.NewProgrammingError(
			"should unblock the currencies of symbol %s but one or both are not blocked", symbol)
	}
	delete(b.invested, symbol.Base())
	delete(b.invested, symbol.Quote())
	return nil
}

// FixedTradeCount allows a fixed number of active trades regardless of their
// currencies.
type FixedTradeCount struct {
	maxTrades    int
	activeTrades int
}

// NewFixedTradeCount creates a blocker allowing up to maxTrades active trades.
func NewFixedTradeCount(maxTrades int) *FixedTradeCount {
	return &FixedTradeCount{maxTrades: maxTrades}
}

// IsTradingAllowed implements TradeBlocker.
func (b *FixedTradeCount) IsTradingAllowed(types.Symbol) bool {
	return b.activeTrades < b.maxTrades
}

// Block implements TradeBlocker.
func (b *FixedTradeCount) Block(symbol types.Symbol) error {
	if b.activeTrades >= b.maxTrades {
		return types.NewProgrammingError(
			"should block a trade slot for symbol %s but all %d slots are taken", symbol, b.maxTrades)
	}
	b.activeTrades++
	return nil
}

// Unblock implements TradeBlocker.
func (b *FixedTradeCount) Unblock(symbol types.Symbol) error {
	if b.activeTrades <= 0 {
		return types.NewProgrammingError(
			"should unblock a trade slot for symbol %s but no slot is taken", symbol)
	}
	b.activeTrades--
	return nil
}
