// Package persistence stores the history of completed trades.
package persistence

import (
	"context"
	"time"

	"github.com/tathienbao/trading-server/internal/types"
)

// Journal defines the interface for the trade history store.
type Journal interface {
	// SaveTrade appends a completed trade and its event history.
	SaveTrade(ctx context.Context, trade types.CompletedTrade) error
	// GetTrades returns trades whose first event falls into the time range.
	GetTrades(ctx context.Context, from, to time.Time) ([]types.CompletedTrade, error)
	// GetTradesBySymbol returns the most recent trades of a symbol.
	GetTradesBySymbol(ctx context.Context, symbol types.Symbol, limit int) ([]types.CompletedTrade, error)

	Close() error
	Migrate(ctx context.Context) error
}

// Listener adapts a journal to the completed-trade listener the trade
// tracker expects.
type Listener struct {
	Journal Journal
}

func (l Listener) TradeCompleted(trade types.CompletedTrade) error {
	return l.Journal.SaveTrade(context.Background(), trade)
}
