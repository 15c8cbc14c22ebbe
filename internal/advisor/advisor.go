// Package advisor contains the expert-advisor contracts, the built-in
// trading algorithms and the factory that assembles the order-execution
// pipeline for a session.
package advisor

import (
	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"
)

// ExpertAdvisor reacts to new market data, typically by placing or managing
// orders. A returned error is a fault of the underlying broker connection or
// an invariant violation, never a trading decision.
type ExpertAdvisor interface {
	NewMarketData(candle types.Candle) error
}

// AccountingAdvisor is an ExpertAdvisor that additionally tracks the state of
// the trading account.
type AccountingAdvisor interface {
	ExpertAdvisor
	BalanceChanged(balance types.Money) error
	ExchangeRateChanged(pair types.Symbol, rate decimal.Decimal) error
}

// Trend is the direction an indicator sees the market moving in.
type Trend int

const (
	TrendUnknown Trend = iota
	TrendUp
	TrendDown
)

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "UP"
	case TrendDown:
		return "DOWN"
	default:
		return "UNKNOWN"
	}
}

// TrendIndicator estimates the market direction from a candle stream.
type TrendIndicator interface {
	Indicate(candle types.Candle) Trend
}
