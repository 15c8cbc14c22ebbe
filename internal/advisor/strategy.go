package advisor

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tathienbao/trading-server/internal/broker"
	"github.com/tathienbao/trading-server/internal/types"
)

// Distances of the orders the built-in strategy places, in price units.
var (
	entryOffset      = decimal.New(10, -5)
	stopLossDistance = decimal.New(200, -5)
	takeProfitFactor = decimal.NewFromInt(2)
)

// smaCrossAdvisor is the built-in strategy: it follows the crossing of a fast
// and a slow moving average. A cross up places a buy stop order slightly
// above the market, a cross down a sell stop slightly below. An outstanding
// order in the wrong direction is closed first.
type smaCrossAdvisor struct {
	orders    broker.Broker
	gate      *broker.Activatable
	indicator *smaCrossIndicator

	lastTrend Trend
	mgmt      broker.OrderManagement
	rejected  bool
}

func newSMACrossAdvisor(orders broker.Broker, gate *broker.Activatable) *smaCrossAdvisor {
	return &smaCrossAdvisor{
		orders:    orders,
		gate:      gate,
		indicator: &smaCrossIndicator{fast: newSMA(5), slow: newSMA(20)},
	}
}

// NewMarketData implements ExpertAdvisor.
func (a *smaCrossAdvisor) NewMarketData(candle types.Candle) error {
	trend := a.indicator.Indicate(candle)
	if !a.indicator.slow.ready() {
		return nil
	}
	// enough context from here on to trade
	a.gate.Activate()

	if trend == TrendUnknown || trend == a.lastTrend {
		return nil
	}
	a.lastTrend = trend

	if a.mgmt != nil {
		mgmt := a.mgmt
		a.mgmt = nil
		if err := mgmt.CloseOrCancelOrder(); err != nil {
			return err
		}
	}
	return a.placeOrder(trend, candle.Close)
}

func (a *smaCrossAdvisor) placeOrder(trend Trend, price decimal.Decimal) error {
	var order types.PendingOrder
	if trend == TrendUp {
		entry := price.Add(entryOffset)
		order = types.NewOrderBuilder().
			Type(types.OrderTypeBuy).
			Condition(types.ExecutionConditionStop).
			EntryPrice(entry).
			CloseConditions(types.CloseConditions{
				TakeProfit: entry.Add(stopLossDistance.Mul(takeProfitFactor)),
				StopLoss:   entry.Sub(stopLossDistance),
			}).
			Build()
	} else {
		entry := price.Sub(entryOffset)
		order = types.NewOrderBuilder().
			Type(types.OrderTypeSell).
			Condition(types.ExecutionConditionStop).
			EntryPrice(entry).
			CloseConditions(types.CloseConditions{
				TakeProfit: entry.Sub(stopLossDistance.Mul(takeProfitFactor)),
				StopLoss:   entry.Add(stopLossDistance),
			}).
			Build()
	}

	a.rejected = false
	mgmt, err := a.orders.SendOrder(order, a)
	if err != nil {
		return err
	}
	if !a.rejected {
		a.mgmt = mgmt
	}
	return nil
}

// OrderRejected implements broker.OrderEventListener. Rejections are normal
// for this strategy; it simply waits for the next signal.
func (a *smaCrossAdvisor) OrderRejected(string) error {
	a.rejected = true
	a.mgmt = nil
	return nil
}

func (a *smaCrossAdvisor) OrderOpened(time.Time, decimal.Decimal) error {
	return nil
}

func (a *smaCrossAdvisor) OrderClosed(time.Time, decimal.Decimal) error {
	a.mgmt = nil
	return nil
}
