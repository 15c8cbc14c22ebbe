package broker

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"
)

// ReasonNoVolume is the rejection reason when the money management lends no volume.
const ReasonNoVolume = "the money management did not lend volume for the order"

// VolumeLease is trading volume lent by the money management. Release returns
// it; it must be called exactly once per granted lease, on every terminal or
// failure path of the order that used it.
type VolumeLease interface {
	Volume() int64
	Release() error
}

// VolumeLender grants volume leases sized to the risk a proposed order takes.
// A nil lease with a nil error means trading is currently blocked; a non-nil
// error is a fatal configuration or invariant problem.
type VolumeLender interface {
	RequestVolume(symbol types.Symbol, currentPrice, stopLossDistance decimal.Decimal, stepSize int64) (VolumeLease, error)
}

// Lending is the volume-lending broker wrapper. It sizes each order with
// volume lent from the money management and guarantees that the lease is
// released on every terminal path of the order, regardless of which party
// ends it.
type Lending struct {
	inner    Broker
	lender   VolumeLender
	symbol   types.Symbol
	stepSize int64

	lastClose decimal.Decimal
	hasData   bool
}

// NewLending wraps the given broker with the volume-lending layer.
func NewLending(inner Broker, lender VolumeLender, symbol types.Symbol, stepSize int64) *Lending {
	return &Lending{inner: inner, lender: lender, symbol: symbol, stepSize: stepSize}
}

// NewMarketData records the most recent close price used for risk sizing.
func (l *Lending) NewMarketData(candle types.Candle) {
	l.lastClose = candle.Close
	l.hasData = true
}

// SendOrder implements Broker.
func (l *Lending) SendOrder(order types.PendingOrder, listener OrderEventListener) (OrderManagement, error) {
	if !l.hasData {
		return nil, types.NewProgrammingError(
			"an order was sent before the current price of the traded symbol was known to the money management")
	}

	distance := order.EntryPrice.Sub(order.CloseConditions.StopLoss).Abs()
	lease, err := l.lender.RequestVolume(l.symbol, l.lastClose, distance, l.stepSize)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		if err := listener.OrderRejected(ReasonNoVolume); err != nil {
			return nil, err
		}
		return NoopManagement{}, nil
	}

	returner := &volumeReturner{lease: lease, listener: listener}
	mgmt, err := l.inner.SendOrder(order.WithVolume(lease.Volume()), returner)
	if err != nil {
		// The order never became live; hand the volume back before
		// surfacing the fault.
		if rerr := lease.Release(); rerr != nil {
			return nil, rerr
		}
		return nil, err
	}
	returner.mgmt = mgmt
	return returner, nil
}

// volumeReturner releases the lease on every terminal path: rejection and
// close release before forwarding the event, an explicit cancel releases
// after the cancel reached the inner handle.
type volumeReturner struct {
	lease    VolumeLease
	listener OrderEventListener
	mgmt     OrderManagement
}

func (v *volumeReturner) OrderRejected(reason string) error {
	if err := v.lease.Release(); err != nil {
		return err
	}
	return v.listener.OrderRejected(reason)
}

func (v *volumeReturner) OrderOpened(t time.Time, price decimal.Decimal) error {
	return v.listener.OrderOpened(t, price)
}

func (v *volumeReturner) OrderClosed(t time.Time, price decimal.Decimal) error {
	if err := v.lease.Release(); err != nil {
		return err
	}
	return v.listener.OrderClosed(t, price)
}

func (v *volumeReturner) CloseOrCancelOrder() error {
	if err := v.mgmt.CloseOrCancelOrder(); err != nil {
		return err
	}
	return v.lease.Release()
}

func (v *volumeReturner) ChangeCloseConditions(conditions types.CloseConditions) (*Rejection, error) {
	return v.mgmt.ChangeCloseConditions(conditions)
}
