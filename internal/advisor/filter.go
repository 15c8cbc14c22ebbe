package advisor

import (
	"time"

	"github.com/tathienbao/trading-server/internal/types"
)

// HistoricDataFilter blocks orders while the candle stream still replays
// historic data. Terminals send the recent history first so that indicators
// can warm up; trading on it would act on the past.
type HistoricDataFilter struct {
	nonHistoricTime time.Time
	currentTime     time.Time
}

// NewHistoricDataFilter creates a filter treating all candles before
// nonHistoricTime as historic.
func NewHistoricDataFilter(nonHistoricTime time.Time) *HistoricDataFilter {
	return &HistoricDataFilter{nonHistoricTime: nonHistoricTime}
}

// UpdateMarketData implements broker.OrderFilter.
func (f *HistoricDataFilter) UpdateMarketData(candle types.Candle) {
	f.currentTime = candle.Time
}

// FilterOrder implements broker.OrderFilter.
func (f *HistoricDataFilter) FilterOrder(types.PendingOrder) string {
	if f.currentTime.Before(f.nonHistoricTime) {
		return "the current market data is historic data"
	}
	return ""
}
