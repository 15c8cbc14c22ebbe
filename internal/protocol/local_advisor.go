package protocol

import (
	"github.com/shopspring/decimal"

	"github.com/tathienbao/trading-server/internal/advisor"
	"github.com/tathienbao/trading-server/internal/types"
)

// LocalAdvisor converts inbound messages from the remote terminal into calls
// on the local expert advisor and on the listeners of live orders.
type LocalAdvisor struct {
	advisor  advisor.AccountingAdvisor
	orders   *OrderMap
	currency string
}

// NewLocalAdvisor creates the dispatcher for one session. The currency is
// the account currency balance updates are denominated in.
func NewLocalAdvisor(adv advisor.AccountingAdvisor, orders *OrderMap, currency string) *LocalAdvisor {
	return &LocalAdvisor{advisor: adv, orders: orders, currency: currency}
}

// HandleMessage dispatches one inbound message. Messages that are not legal
// in an expert-advisor session yield a ProtocolError.
func (l *LocalAdvisor) HandleMessage(msg Message) error {
	switch m := msg.(type) {
	case NewMarketData:
		return l.advisor.NewMarketData(m.Candle)
	case BalanceChanged:
		return l.advisor.BalanceChanged(types.Money{
			Amount:   decimal.New(m.Balance, -2),
			Currency: l.currency,
		})
	case ExchangeRateChanged:
		return l.advisor.ExchangeRateChanged(m.Symbol, m.Rate)
	case OrderExecuted:
		return l.handleOrderExecuted(m)
	case OrderClosed:
		return l.handleOrderClosed(m)
	default:
		return protocolErr("received a message of type %s which is not expected in the expert advisor protocol",
			msg.Kind())
	}
}

func (l *LocalAdvisor) handleOrderExecuted(m OrderExecuted) error {
	if !l.orders.Has(m.ID) {
		return protocolErr("received a message that the order with the id %d was executed but no pending order with this id was placed by this session", m.ID)
	}
	listener, err := l.orders.Get(m.ID)
	if err != nil {
		return err
	}
	return listener.OrderOpened(m.Time, m.Price)
}

func (l *LocalAdvisor) handleOrderClosed(m OrderClosed) error {
	if !l.orders.Has(m.ID) {
		return protocolErr("received a message that the order with the id %d was closed but no pending order with this id was placed by this session or it was already closed", m.ID)
	}
	listener, err := l.orders.Get(m.ID)
	if err != nil {
		return err
	}
	if err := l.orders.Remove(m.ID); err != nil {
		return err
	}
	return listener.OrderClosed(m.Time, m.Price)
}
