package risk

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"
)

// Guarded makes a MoneyManagement safe for concurrent use by multiple
// sessions. All operations, including lease releases, share one lock.
type Guarded struct {
	mu    sync.Mutex
	inner MoneyManagement
}

func NewGuarded(inner MoneyManagement) *Guarded {
	return &Guarded{inner: inner}
}

func (g *Guarded) IsTradingAllowed(symbol types.Symbol) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.IsTradingAllowed(symbol)
}

func (g *Guarded) RequestVolume(symbol types.Symbol, currentPrice, stopLossDistance decimal.Decimal, stepSize int64) (Lease, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	lease, err := g.inner.RequestVolume(symbol, currentPrice, stopLossDistance, stepSize)
	if lease == nil || err != nil {
		return nil, err
	}
	return &guardedLease{mu: &g.mu, inner: lease}, nil
}

func (g *Guarded) UpdateBalance(balance types.Money) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inner.UpdateBalance(balance)
}

func (g *Guarded) UpdateExchangeRate(pair types.Symbol, rate decimal.Decimal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inner.UpdateExchangeRate(pair, rate)
}

type guardedLease struct {
	mu    *sync.Mutex
	inner Lease
}

func (l *guardedLease) Volume() int64 {
	return l.inner.Volume()
}

func (l *guardedLease) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.Release()
}
