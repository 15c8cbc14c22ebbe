package tracker

import (
	"errors"

	"github.com/tathienbao/trading-server/internal/types"
)

// Multi fans a completed trade out to several listeners. Every listener is
// called even when an earlier one fails; the errors are joined.
type Multi []CompletedTradeListener

// TradeCompleted implements CompletedTradeListener.
func (m Multi) TradeCompleted(trade types.CompletedTrade) error {
	var errs []error
	for _, listener := range m {
		if err := listener.TradeCompleted(trade); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
