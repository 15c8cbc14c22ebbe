package protocol

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tathienbao/trading-server/internal/advisor"
	"github.com/tathienbao/trading-server/internal/broker"
	"github.com/tathienbao/trading-server/internal/risk"
	"github.com/tathienbao/trading-server/internal/types"
)

type fakeLease struct {
	volume   int64
	released int
}

func (l *fakeLease) Volume() int64 { return l.volume }

func (l *fakeLease) Release() error {
	l.released++
	return nil
}

type fakeLender struct {
	leases []*fakeLease
}

func (l *fakeLender) RequestVolume(symbol types.Symbol, currentPrice, stopLossDistance decimal.Decimal, stepSize int64) (risk.Lease, error) {
	lease := &fakeLease{volume: 20000}
	l.leases = append(l.leases, lease)
	return lease, nil
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) UnexpectedEvent(message string, cause error) {
	n.events = append(n.events, message)
}

// tradingAdvisor borrows volume and places one order per candle, mimicking
// the shape of a real strategy behind the session loop.
type tradingAdvisor struct {
	broker       broker.Broker
	lender       risk.VolumeLender
	releaseAgain bool
	fail         error
}

func (a *tradingAdvisor) NewMarketData(candle types.Candle) error {
	if a.fail != nil {
		return a.fail
	}
	lease, err := a.lender.RequestVolume("EURUSD", candle.Close, decimal.New(200, -5), 1000)
	if err != nil {
		return err
	}
	order := protocolTestOrder().WithVolume(lease.Volume())
	if _, err := a.broker.SendOrder(order, &captureListener{}); err != nil {
		return err
	}
	if a.releaseAgain {
		return lease.Release()
	}
	return nil
}

func (a *tradingAdvisor) BalanceChanged(balance types.Money) error { return nil }

func (a *tradingAdvisor) ExchangeRateChanged(pair types.Symbol, rate decimal.Decimal) error {
	return nil
}

type fakeFactory struct {
	err    error
	build  func(b broker.Broker, lender risk.VolumeLender) advisor.AccountingAdvisor
	number int32
	env    types.Environment
}

func (f *fakeFactory) NewAdvisor(number int32, b broker.Broker, env types.Environment, lender risk.VolumeLender) (advisor.AccountingAdvisor, error) {
	f.number = number
	f.env = env
	if f.err != nil {
		return nil, f.err
	}
	return f.build(b, lender), nil
}

func TestExpertAdvisorSessionServesFullExchange(t *testing.T) {
	script := environmentScript()
	script = append(script, fullCandleScript(1700000060, 1.25)...)
	script = append(script, byte(KindPlaceOrderResponse), byte(0), int32(7))
	conn := &fakeConn{reads: script}

	lender := &fakeLender{}
	notifier := &recordingNotifier{}
	factory := &fakeFactory{build: func(b broker.Broker, l risk.VolumeLender) advisor.AccountingAdvisor {
		return &tradingAdvisor{broker: b, lender: l}
	}}
	session := NewExpertAdvisorSession(NewMsgConn(conn), factory, lender, notifier, 1)

	if err := session.Run(); !errors.Is(err, ErrNormalClose) {
		t.Fatalf("Run = %v, want ErrNormalClose", err)
	}

	if factory.number != 1 {
		t.Errorf("advisor number = %d, want 1", factory.number)
	}
	if factory.env.TradeSymbol != "EURUSD" {
		t.Errorf("trade symbol = %q, want EURUSD", factory.env.TradeSymbol)
	}
	var acks, placed int
	for _, write := range conn.writes {
		switch write {
		case byte(KindEventHandlingFinished):
			acks++
		case byte(KindPlaceOrder):
			placed++
		}
	}
	if placed != 1 {
		t.Errorf("placed %d orders, want 1", placed)
	}
	if acks != 1 {
		t.Errorf("sent %d event handling acks, want 1", acks)
	}
}

func TestExpertAdvisorSessionReleasesLeftoverLeasesOnExit(t *testing.T) {
	script := environmentScript()
	script = append(script, fullCandleScript(1700000060, 1.25)...)
	script = append(script, byte(KindPlaceOrderResponse), byte(0), int32(7))
	conn := &fakeConn{reads: script}

	lender := &fakeLender{}
	notifier := &recordingNotifier{}
	factory := &fakeFactory{build: func(b broker.Broker, l risk.VolumeLender) advisor.AccountingAdvisor {
		return &tradingAdvisor{broker: b, lender: l}
	}}

	err := NewExpertAdvisorSession(NewMsgConn(conn), factory, lender, notifier, 1).Run()
	if !errors.Is(err, ErrNormalClose) {
		t.Fatalf("Run = %v, want ErrNormalClose", err)
	}

	if len(lender.leases) != 1 {
		t.Fatalf("granted %d leases, want 1", len(lender.leases))
	}
	if lender.leases[0].released != 1 {
		t.Errorf("lease released %d times, want 1", lender.leases[0].released)
	}
	if len(notifier.events) != 1 {
		t.Errorf("notifier events = %v, want one leftover-volume notification", notifier.events)
	}
}

func TestExpertAdvisorSessionDoesNotReportReleasedLeases(t *testing.T) {
	script := environmentScript()
	script = append(script, fullCandleScript(1700000060, 1.25)...)
	script = append(script, byte(KindPlaceOrderResponse), byte(0), int32(7))
	conn := &fakeConn{reads: script}

	lender := &fakeLender{}
	notifier := &recordingNotifier{}
	factory := &fakeFactory{build: func(b broker.Broker, l risk.VolumeLender) advisor.AccountingAdvisor {
		return &tradingAdvisor{broker: b, lender: l, releaseAgain: true}
	}}

	err := NewExpertAdvisorSession(NewMsgConn(conn), factory, lender, notifier, 1).Run()
	if !errors.Is(err, ErrNormalClose) {
		t.Fatalf("Run = %v, want ErrNormalClose", err)
	}

	if lender.leases[0].released != 1 {
		t.Errorf("lease released %d times, want exactly once", lender.leases[0].released)
	}
	if len(notifier.events) != 0 {
		t.Errorf("notifier events = %v, want none", notifier.events)
	}
}

func TestExpertAdvisorSessionReleasesLeasesOnFault(t *testing.T) {
	fault := errors.New("strategy failure")
	script := environmentScript()
	script = append(script, fullCandleScript(1700000060, 1.25)...)
	script = append(script, byte(KindPlaceOrderResponse), byte(0), int32(7))
	script = append(script, fullCandleScript(1700000120, 1.25)...)
	conn := &fakeConn{reads: script}

	lender := &fakeLender{}
	notifier := &recordingNotifier{}
	factory := &fakeFactory{build: func(b broker.Broker, l risk.VolumeLender) advisor.AccountingAdvisor {
		adv := &tradingAdvisor{broker: b, lender: l}
		return &failSecondCandle{inner: adv, fault: fault}
	}}

	err := NewExpertAdvisorSession(NewMsgConn(conn), factory, lender, notifier, 1).Run()
	if !errors.Is(err, fault) {
		t.Fatalf("Run = %v, want the strategy failure", err)
	}

	if len(lender.leases) != 1 || lender.leases[0].released != 1 {
		t.Errorf("leases = %+v, want the one granted lease released", lender.leases)
	}
}

// failSecondCandle lets the first candle through and fails on the second.
type failSecondCandle struct {
	inner   advisor.AccountingAdvisor
	fault   error
	candles int
}

func (f *failSecondCandle) NewMarketData(candle types.Candle) error {
	f.candles++
	if f.candles > 1 {
		return f.fault
	}
	return f.inner.NewMarketData(candle)
}

func (f *failSecondCandle) BalanceChanged(balance types.Money) error {
	return f.inner.BalanceChanged(balance)
}

func (f *failSecondCandle) ExchangeRateChanged(pair types.Symbol, rate decimal.Decimal) error {
	return f.inner.ExchangeRateChanged(pair, rate)
}

func TestExpertAdvisorSessionRejectsUnknownAdvisors(t *testing.T) {
	conn := &fakeConn{reads: environmentScript()}
	factory := &fakeFactory{err: types.ErrUnknownAdvisor}

	err := NewExpertAdvisorSession(NewMsgConn(conn), factory, &fakeLender{}, &recordingNotifier{}, 99).Run()

	var violation *ProtocolError
	if !errors.As(err, &violation) {
		t.Fatalf("Run = %v, want a ProtocolError", err)
	}
}

func TestExpertAdvisorSessionPropagatesFactoryFaults(t *testing.T) {
	fault := errors.New("factory failure")
	conn := &fakeConn{reads: environmentScript()}
	factory := &fakeFactory{err: fault}

	err := NewExpertAdvisorSession(NewMsgConn(conn), factory, &fakeLender{}, &recordingNotifier{}, 1).Run()

	if !errors.Is(err, fault) {
		t.Fatalf("Run = %v, want the factory failure", err)
	}
}

func TestExpertAdvisorSessionEndsNormallyWithoutEnvironment(t *testing.T) {
	conn := &fakeConn{}

	err := NewExpertAdvisorSession(NewMsgConn(conn), &fakeFactory{}, &fakeLender{}, &recordingNotifier{}, 1).Run()

	if !errors.Is(err, ErrNormalClose) {
		t.Fatalf("Run = %v, want ErrNormalClose", err)
	}
}
