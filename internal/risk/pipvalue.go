package risk

import (
	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"
)

// pipette is the smallest price fraction quoted for a forex symbol.
var pipette = decimal.New(1, -5) // 0.00001

// PipValueCalculator computes the value, in the account currency, of a single
// pipette of a traded symbol.
type PipValueCalculator struct {
	rates *ExchangeRateStore
}

// NewPipValueCalculator creates a calculator reading cross rates from the
// given store.
func NewPipValueCalculator(rates *ExchangeRateStore) *PipValueCalculator {
	return &PipValueCalculator{rates: rates}
}

// PipValue returns the account-currency value of one pipette of one base unit
// of the traded symbol at the given price.
//
// When the account currency is neither currency of the symbol, a stored cross
// rate from the symbol's quote currency to the account currency is required.
// Its absence is a configuration error, fatal for the session.
func (c *PipValueCalculator) PipValue(accountCurrency string, symbol types.Symbol, price decimal.Decimal) (decimal.Decimal, error) {
	switch accountCurrency {
	case symbol.Base():
		return pipette.Div(price), nil
	case symbol.Quote():
		return pipette, nil
	}

	rate, ok := c.rates.Rate(symbol.Quote(), accountCurrency)
	if !ok {
		return decimal.Zero, types.NewProgrammingError(
			"should calculate the pipette value of %s in %s but the exchange rate from %s to %s is not available",
			symbol, accountCurrency, symbol.Quote(), accountCurrency)
	}
	return pipette.Mul(rate), nil
}
