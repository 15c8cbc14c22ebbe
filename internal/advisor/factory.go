package advisor

import (
	"github.com/shopspring/decimal"

	"github.com/tathienbao/trading-server/internal/broker"
	"github.com/tathienbao/trading-server/internal/risk"
	"github.com/tathienbao/trading-server/internal/tracker"
	"github.com/tathienbao/trading-server/internal/types"
)

// Factory assembles the full order-execution pipeline around a strategy for
// one session. The account state it routes balance and exchange-rate updates
// into is shared between all sessions.
type Factory struct {
	money  risk.MoneyManagement
	trades tracker.CompletedTradeListener
}

// NewFactory creates a factory routing account updates into the given money
// management and completed trades to the given listener.
func NewFactory(money risk.MoneyManagement, trades tracker.CompletedTradeListener) *Factory {
	return &Factory{money: money, trades: trades}
}

// NewAdvisor builds the advisor with the given number on top of the remote
// broker. Volume is leased from the given lender, which the session releases
// when it ends. Unknown numbers yield types.ErrUnknownAdvisor.
func (f *Factory) NewAdvisor(number int32, remote broker.Broker, env types.Environment, lender risk.VolumeLender) (AccountingAdvisor, error) {
	if number != 1 {
		return nil, types.ErrUnknownAdvisor
	}

	tracked := tracker.NewTracker(remote, f.trades, env.TradeSymbol)
	lending := broker.NewLending(tracked, lenderAdapter{lender: lender}, env.TradeSymbol, env.Volume.Step)
	single := broker.NewSingleOrder(lending)
	filtering := broker.NewFiltering(single, NewHistoricDataFilter(env.NonHistoricTime))
	gate := broker.NewActivatable(filtering)
	strategy := newSMACrossAdvisor(gate, gate)

	return &pipeline{
		distributor: NewDistributor(strategy, tracked, lending, filtering),
		money:       f.money,
	}, nil
}

// pipeline is the assembled session advisor. Candles flow through the
// distributor; account updates go to the shared money management.
type pipeline struct {
	distributor *Distributor
	money       risk.MoneyManagement
}

func (p *pipeline) NewMarketData(candle types.Candle) error {
	return p.distributor.NewMarketData(candle)
}

func (p *pipeline) BalanceChanged(balance types.Money) error {
	p.money.UpdateBalance(balance)
	return nil
}

func (p *pipeline) ExchangeRateChanged(pair types.Symbol, rate decimal.Decimal) error {
	p.money.UpdateExchangeRate(pair, rate)
	return nil
}

// lenderAdapter lets the risk package's lender serve the broker package's
// lending gate.
type lenderAdapter struct {
	lender risk.VolumeLender
}

func (a lenderAdapter) RequestVolume(symbol types.Symbol, currentPrice, stopLossDistance decimal.Decimal, stepSize int64) (broker.VolumeLease, error) {
	lease, err := a.lender.RequestVolume(symbol, currentPrice, stopLossDistance, stepSize)
	if lease == nil || err != nil {
		return nil, err
	}
	return lease, nil
}
