package advisor

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tathienbao/trading-server/internal/risk"
	"github.com/tathienbao/trading-server/internal/types"
)

type fakeRiskLease struct {
	volume   int64
	released int
}

func (l *fakeRiskLease) Volume() int64 { return l.volume }

func (l *fakeRiskLease) Release() error {
	l.released++
	return nil
}

// fakeMoney grants a fixed volume and records account updates.
type fakeMoney struct {
	balances []types.Money
	rates    map[types.Symbol]decimal.Decimal
}

func (m *fakeMoney) RequestVolume(symbol types.Symbol, currentPrice, stopLossDistance decimal.Decimal, stepSize int64) (risk.Lease, error) {
	return &fakeRiskLease{volume: 20000}, nil
}

func (m *fakeMoney) IsTradingAllowed(symbol types.Symbol) bool { return true }

func (m *fakeMoney) UpdateBalance(balance types.Money) {
	m.balances = append(m.balances, balance)
}

func (m *fakeMoney) UpdateExchangeRate(pair types.Symbol, rate decimal.Decimal) {
	if m.rates == nil {
		m.rates = make(map[types.Symbol]decimal.Decimal)
	}
	m.rates[pair] = rate
}

type discardTrades struct{}

func (discardTrades) TradeCompleted(types.CompletedTrade) error { return nil }

func testEnvironment() types.Environment {
	return types.Environment{
		Account: types.AccountInfo{
			BrokerName:    "TestBroker",
			AccountNumber: 4711,
			Currency:      "USD",
		},
		TradeSymbol:   "EURUSD",
		AccountSymbol: "USDUSD",
		Volume:        types.VolumeConstraints{Min: 1000, Max: 10000000, Step: 1000},
	}
}

func TestFactoryKnowsOnlyAdvisorNumberOne(t *testing.T) {
	factory := NewFactory(&fakeMoney{}, discardTrades{})

	_, err := factory.NewAdvisor(2, &fakeOrderBroker{}, testEnvironment(), &fakeMoney{})
	if !errors.Is(err, types.ErrUnknownAdvisor) {
		t.Fatalf("NewAdvisor(2) = %v, want ErrUnknownAdvisor", err)
	}
}

func TestFactoryAssemblesATradingPipeline(t *testing.T) {
	remote := &fakeOrderBroker{}
	lender := &fakeMoney{}
	factory := NewFactory(&fakeMoney{}, discardTrades{})

	adv, err := factory.NewAdvisor(1, remote, testEnvironment(), lender)
	if err != nil {
		t.Fatalf("NewAdvisor(1): %v", err)
	}

	for i := 0; i < 20; i++ {
		if err := adv.NewMarketData(candleAt("1.25")); err != nil {
			t.Fatalf("warmup candle %d: %v", i, err)
		}
	}
	if err := adv.NewMarketData(candleAt("1.26")); err != nil {
		t.Fatalf("NewMarketData: %v", err)
	}

	if len(remote.orders) != 1 {
		t.Fatalf("the remote broker received %d orders, want 1", len(remote.orders))
	}
	if remote.orders[0].Volume != 20000 {
		t.Errorf("order volume = %d, want the leased 20000", remote.orders[0].Volume)
	}
	if remote.orders[0].Type != types.OrderTypeBuy {
		t.Errorf("order type = %v, want BUY", remote.orders[0].Type)
	}
}

func TestFactoryBlocksOrdersOnHistoricData(t *testing.T) {
	remote := &fakeOrderBroker{}
	env := testEnvironment()
	env.NonHistoricTime = time.Unix(1800000000, 0).UTC() // later than every test candle

	adv, err := NewFactory(&fakeMoney{}, discardTrades{}).NewAdvisor(1, remote, env, &fakeMoney{})
	if err != nil {
		t.Fatalf("NewAdvisor(1): %v", err)
	}

	for i := 0; i < 20; i++ {
		if err := adv.NewMarketData(candleAt("1.25")); err != nil {
			t.Fatalf("warmup candle %d: %v", i, err)
		}
	}
	if err := adv.NewMarketData(candleAt("1.26")); err != nil {
		t.Fatalf("NewMarketData: %v", err)
	}

	if len(remote.orders) != 0 {
		t.Errorf("the remote broker received %d orders on historic data, want none", len(remote.orders))
	}
}

func TestFactoryRoutesAccountUpdatesToTheMoneyManagement(t *testing.T) {
	money := &fakeMoney{}
	adv, err := NewFactory(money, discardTrades{}).NewAdvisor(1, &fakeOrderBroker{}, testEnvironment(), &fakeMoney{})
	if err != nil {
		t.Fatalf("NewAdvisor(1): %v", err)
	}

	balance := types.NewMoney("10000.00", "USD")
	if err := adv.BalanceChanged(balance); err != nil {
		t.Fatalf("BalanceChanged: %v", err)
	}
	if err := adv.ExchangeRateChanged("USDCHF", decimal.NewFromFloat(0.8)); err != nil {
		t.Fatalf("ExchangeRateChanged: %v", err)
	}

	if len(money.balances) != 1 || !money.balances[0].Amount.Equal(balance.Amount) {
		t.Errorf("balances = %v, want the forwarded balance", money.balances)
	}
	if rate, ok := money.rates["USDCHF"]; !ok || !rate.Equal(decimal.NewFromFloat(0.8)) {
		t.Errorf("rates = %v, want USDCHF at 0.8", money.rates)
	}
}
