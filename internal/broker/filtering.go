package broker

import (
	"strings"

	"github.com/tathienbao/trading-server/internal/types"
)

// OrderFilter decides, based on current market conditions, whether an order
// may be placed. FilterOrder returns an empty string to allow the order or a
// human-readable reason to block it.
type OrderFilter interface {
	UpdateMarketData(candle types.Candle)
	FilterOrder(order types.PendingOrder) string
}

// Filtering is a broker gate that asks an ordered list of filters before
// letting an order pass. Every filter is consulted; when several block the
// order, the rejection reason lists all of them.
type Filtering struct {
	inner        Broker
	filters      []OrderFilter
	receivedData bool
}

// NewFiltering wraps the given broker with the given order filters.
func NewFiltering(inner Broker, filters ...OrderFilter) *Filtering {
	return &Filtering{inner: inner, filters: filters}
}

// NewMarketData feeds the current candle to all filters.
func (f *Filtering) NewMarketData(candle types.Candle) {
	f.receivedData = true
	for _, filter := range f.filters {
		filter.UpdateMarketData(candle)
	}
}

// SendOrder implements Broker. Sending an order before the first market data
// update is a fatal invariant violation: the filters have no context to
// decide on.
func (f *Filtering) SendOrder(order types.PendingOrder, listener OrderEventListener) (OrderManagement, error) {
	if !f.receivedData {
		return nil, types.NewProgrammingError(
			"an order was sent before any market data reached the order filters")
	}

	var reasons []string
	for _, filter := range f.filters {
		if reason := filter.FilterOrder(order); reason != "" {
			reasons = append(reasons, reason)
		}
	}
	if len(reasons) > 0 {
		combined := "trading has been blocked because of improper market conditions: " +
			strings.Join(reasons, "; ")
		if err := listener.OrderRejected(combined); err != nil {
			return nil, err
		}
		return NoopManagement{}, nil
	}

	return f.inner.SendOrder(order, listener)
}
