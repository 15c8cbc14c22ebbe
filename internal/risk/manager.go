package risk

import (
	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"
)

// Lease is trading volume lent by the money management. Release must be
// called exactly once; a second release is a fatal invariant violation.
type Lease interface {
	Volume() int64
	Release() error
}

// VolumeLender grants volume leases. A nil lease with a nil error means
// trading is currently blocked for the symbol.
type VolumeLender interface {
	RequestVolume(symbol types.Symbol, currentPrice, stopLossDistance decimal.Decimal, stepSize int64) (Lease, error)
}

// MoneyManagement decides how much volume may be risked on a proposed trade
// and enforces the per-currency limit.
type MoneyManagement interface {
	VolumeLender
	IsTradingAllowed(symbol types.Symbol) bool
	UpdateBalance(balance types.Money)
	UpdateExchangeRate(pair types.Symbol, rate decimal.Decimal)
}

// Manager is the default money management. It risks a fixed fraction of the
// account balance per trade and allows one active trade per currency.
//
// Manager is not safe for concurrent use; wrap it in Guarded when it is
// shared between sessions.
type Manager struct {
	blocker   TradeBlocker
	rates     *ExchangeRateStore
	pipValues *PipValueCalculator
	riskRatio decimal.Decimal
	balance   types.Money
}

// NewManager creates a money management risking riskRatio of the balance per
// trade. The ratio must be in (0, 1].
func NewManager(riskRatio decimal.Decimal) (*Manager, error) {
	if riskRatio.LessThanOrEqual(decimal.Zero) || riskRatio.GreaterThan(decimal.NewFromInt(1)) {
		return nil, types.NewProgrammingError(
			"the ratio of balance to risk per trade must be in (0, 1] but was %s", riskRatio)
	}
	rates := NewExchangeRateStore()
	return &Manager{
		blocker:   NewOneTradePerCurrency(),
		rates:     rates,
		pipValues: NewPipValueCalculator(rates),
		riskRatio: riskRatio,
		// The initial balance does not matter; no volume is requested
		// before the first balance update arrives.
		balance: types.Money{Amount: decimal.Zero, Currency: "EUR"},
	}, nil
}

// NewManagerWithBlocker creates a manager with a custom trade blocker.
func NewManagerWithBlocker(riskRatio decimal.Decimal, blocker TradeBlocker) (*Manager, error) {
	m, err := NewManager(riskRatio)
	if err != nil {
		return nil, err
	}
	m.blocker = blocker
	return m, nil
}

// IsTradingAllowed implements MoneyManagement.
func (m *Manager) IsTradingAllowed(symbol types.Symbol) bool {
	return m.blocker.IsTradingAllowed(symbol)
}

// RequestVolume implements MoneyManagement. On success the currencies of the
// symbol are blocked until the returned lease is released.
func (m *Manager) RequestVolume(symbol types.Symbol, currentPrice, stopLossDistance decimal.Decimal, stepSize int64) (Lease, error) {
	if !m.blocker.IsTradingAllowed(symbol) {
		return nil, nil
	}

	pipValue, err := m.pipValues.PipValue(m.balance.Currency, symbol, currentPrice)
	if err != nil {
		return nil, err
	}
	if err := m.blocker.Block(symbol); err != nil {
		return nil, err
	}

	volume := RoundToStep(
		VolumeForTrade(pipValue, stopLossDistance, MoneyToRisk(m.balance, m.riskRatio)),
		stepSize)
	return &managedLease{manager: m, symbol: symbol, volume: volume}, nil
}

// UpdateBalance implements MoneyManagement.
func (m *Manager) UpdateBalance(balance types.Money) {
	m.balance = balance
}

// UpdateExchangeRate implements MoneyManagement.
func (m *Manager) UpdateExchangeRate(pair types.Symbol, rate decimal.Decimal) {
	m.rates.Update(pair, rate)
}

type managedLease struct {
	manager  *Manager
	symbol   types.Symbol
	volume   int64
	released bool
}

func (l *managedLease) Volume() int64 {
	return l.volume
}

func (l *managedLease) Release() error {
	if l.released {
		return types.NewProgrammingError(
			"the volume lease for symbol %s was released twice", l.symbol)
	}
	l.released = true
	return l.manager.blocker.Unblock(l.symbol)
}
