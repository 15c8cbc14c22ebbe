package advisor

import "github.com/tathienbao/trading-server/internal/types"

// Distributor fans each candle out to the pipeline components that observe
// market data before the strategy gets to act on it. The order matters: a
// strategy must never see a candle before the gates and the money management
// have.
type Distributor struct {
	observers []types.MarketDataListener
	strategy  ExpertAdvisor
}

// NewDistributor creates a distributor feeding the observers first and the
// strategy last.
func NewDistributor(strategy ExpertAdvisor, observers ...types.MarketDataListener) *Distributor {
	return &Distributor{observers: observers, strategy: strategy}
}

// NewMarketData implements ExpertAdvisor.
func (d *Distributor) NewMarketData(candle types.Candle) error {
	for _, observer := range d.observers {
		observer.NewMarketData(candle)
	}
	return d.strategy.NewMarketData(candle)
}
