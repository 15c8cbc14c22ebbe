package advisor

import (
	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"
)

// sma is a simple moving average over a fixed number of closing prices.
type sma struct {
	period int
	values []decimal.Decimal
	sum    decimal.Decimal
	next   int
}

func newSMA(period int) *sma {
	return &sma{period: period}
}

// update adds a value and returns the new average.
func (s *sma) update(value decimal.Decimal) decimal.Decimal {
	if len(s.values) < s.period {
		s.values = append(s.values, value)
		s.sum = s.sum.Add(value)
	} else {
		s.sum = s.sum.Sub(s.values[s.next]).Add(value)
		s.values[s.next] = value
		s.next = (s.next + 1) % s.period
	}
	return s.sum.Div(decimal.NewFromInt(int64(len(s.values))))
}

// ready reports whether the full period has been seen.
func (s *sma) ready() bool {
	return len(s.values) == s.period
}

// smaCrossIndicator sees the trend as up while the fast average is above the
// slow one.
type smaCrossIndicator struct {
	fast *sma
	slow *sma
}

// NewSMACrossIndicator creates the built-in trend indicator.
func NewSMACrossIndicator(fastPeriod, slowPeriod int) TrendIndicator {
	return &smaCrossIndicator{fast: newSMA(fastPeriod), slow: newSMA(slowPeriod)}
}

// Indicate implements TrendIndicator.
func (i *smaCrossIndicator) Indicate(candle types.Candle) Trend {
	fast := i.fast.update(candle.Close)
	slow := i.slow.update(candle.Close)
	if !i.slow.ready() {
		return TrendUnknown
	}
	switch fast.Cmp(slow) {
	case 1:
		return TrendUp
	case -1:
		return TrendDown
	default:
		return TrendUnknown
	}
}

// NewIndicator returns the built-in trend indicator with the given number.
func NewIndicator(number int32) (TrendIndicator, error) {
	if number != 1 {
		return nil, types.ErrUnknownIndicator
	}
	return NewSMACrossIndicator(5, 20), nil
}

// Indicators serves the built-in trend indicators to client sessions.
type Indicators struct{}

func (Indicators) NewIndicator(number int32) (TrendIndicator, error) {
	return NewIndicator(number)
}
