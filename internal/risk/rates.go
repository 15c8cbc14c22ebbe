package risk

import (
	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"
)

// ExchangeRateStore keeps the most recent exchange rates seen on a session.
// Updating a pair also stores the inverse rate for the reversed pair.
type ExchangeRateStore struct {
	rates map[types.Symbol]decimal.Decimal
}

// NewExchangeRateStore creates an empty store.
func NewExchangeRateStore() *ExchangeRateStore {
	return &ExchangeRateStore{rates: make(map[types.Symbol]decimal.Decimal)}
}

// Rate returns the exchange rate from the base currency to the quote
// currency, if one is known.
func (s *ExchangeRateStore) Rate(base, quote string) (decimal.Decimal, bool) {
	rate, ok := s.rates[types.Symbol(base+quote)]
	return rate, ok
}

// Update stores the rate for the pair and the inverse rate for the reversed
// pair.
func (s *ExchangeRateStore) Update(pair types.Symbol, rate decimal.Decimal) {
	s.rates[pair] = rate
	if !rate.IsZero() {
		s.rates[pair.Inverse()] = decimal.NewFromInt(1).Div(rate)
	}
}
