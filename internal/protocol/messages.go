package protocol

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"
)

// Kind identifies a message on the wire.
type Kind byte

const (
	KindRequestAlgorithm              Kind = 0
	KindNewMarketDataSimple           Kind = 1
	KindTrendForMarketData            Kind = 2
	KindPlaceOrder                    Kind = 3
	KindPlaceOrderResponse            Kind = 4
	KindOrderExecuted                 Kind = 5
	KindOrderClosed                   Kind = 6
	KindCloseOrCancelOrder            Kind = 7
	KindEventHandlingFinished         Kind = 8
	KindNewMarketData                 Kind = 9
	KindTradingEnvironment            Kind = 10
	KindChangeCloseConditions         Kind = 11
	KindChangeCloseConditionsResponse Kind = 12
	KindBalanceChanged                Kind = 13
	KindExchangeRateChanged           Kind = 14
)

func (k Kind) String() string {
	switch k {
	case KindRequestAlgorithm:
		return "REQUEST_ALGORITHM"
	case KindNewMarketDataSimple:
		return "NEW_MARKET_DATA_SIMPLE"
	case KindTrendForMarketData:
		return "TREND_FOR_MARKET_DATA"
	case KindPlaceOrder:
		return "PLACE_ORDER"
	case KindPlaceOrderResponse:
		return "PLACE_ORDER_RESPONSE"
	case KindOrderExecuted:
		return "ORDER_EXECUTED"
	case KindOrderClosed:
		return "ORDER_CLOSED"
	case KindCloseOrCancelOrder:
		return "CLOSE_OR_CANCEL_ORDER"
	case KindEventHandlingFinished:
		return "EVENT_HANDLING_FINISHED"
	case KindNewMarketData:
		return "NEW_MARKET_DATA"
	case KindTradingEnvironment:
		return "TRADING_ENVIRONMENT"
	case KindChangeCloseConditions:
		return "CHANGE_CLOSE_CONDITIONS"
	case KindChangeCloseConditionsResponse:
		return "CHANGE_CLOSE_CONDITIONS_RESPONSE"
	case KindBalanceChanged:
		return "BALANCE_CHANGED"
	case KindExchangeRateChanged:
		return "EXCHANGE_RATE_CHANGED"
	default:
		return "UNKNOWN"
	}
}

// Message is one unit of the terminal protocol.
type Message interface {
	Kind() Kind
}

// AlgorithmType selects which session protocol a client requests.
type AlgorithmType byte

const (
	AlgorithmTrendIndicator AlgorithmType = 0
	AlgorithmExpertAdvisor  AlgorithmType = 1
)

func (t AlgorithmType) String() string {
	switch t {
	case AlgorithmTrendIndicator:
		return "TREND_INDICATOR"
	case AlgorithmExpertAdvisor:
		return "EXPERT_ADVISOR"
	default:
		return "UNKNOWN"
	}
}

// Trend is the direction a trend indicator answers with.
type Trend byte

const (
	TrendUp      Trend = 0
	TrendDown    Trend = 1
	TrendUnknown Trend = 2
)

// RequestAlgorithm is the first message of every session. It selects the
// session protocol and the concrete algorithm to serve.
type RequestAlgorithm struct {
	Type   AlgorithmType
	Number int32
}

func (RequestAlgorithm) Kind() Kind { return KindRequestAlgorithm }

// NewMarketDataSimple carries a candle without spread and volume data. It
// drives trend-indicator sessions.
type NewMarketDataSimple struct {
	Candle types.Candle
}

func (NewMarketDataSimple) Kind() Kind { return KindNewMarketDataSimple }

// TrendForMarketData is the indicator's answer to a NewMarketDataSimple.
type TrendForMarketData struct {
	Trend Trend
}

func (TrendForMarketData) Kind() Kind { return KindTrendForMarketData }

// PlaceOrder submits a pending order to the remote terminal.
type PlaceOrder struct {
	Order types.PendingOrder
}

func (PlaceOrder) Kind() Kind { return KindPlaceOrder }

// PlaceOrderResponse is the terminal's synchronous answer to a PlaceOrder:
// the order id on success or the terminal's error code on failure.
type PlaceOrderResponse struct {
	Success   bool
	ID        int32
	ErrorCode int32
}

func (PlaceOrderResponse) Kind() Kind { return KindPlaceOrderResponse }

// OrderExecuted reports that the pending order with the given id was opened.
type OrderExecuted struct {
	ID    int32
	Time  time.Time
	Price decimal.Decimal
}

func (OrderExecuted) Kind() Kind { return KindOrderExecuted }

// OrderClosed reports that the trade with the given id was closed.
type OrderClosed struct {
	ID    int32
	Time  time.Time
	Price decimal.Decimal
}

func (OrderClosed) Kind() Kind { return KindOrderClosed }

// CloseOrCancelOrder asks the terminal to close or cancel the order with the
// given id.
type CloseOrCancelOrder struct {
	ID int32
}

func (CloseOrCancelOrder) Kind() Kind { return KindCloseOrCancelOrder }

// EventHandlingFinished acknowledges that one inbound message was fully
// handled. It carries no data.
type EventHandlingFinished struct{}

func (EventHandlingFinished) Kind() Kind { return KindEventHandlingFinished }

// NewMarketData carries a full candle including spread, volume and tick
// count. It drives expert-advisor sessions.
type NewMarketData struct {
	Candle types.Candle
}

func (NewMarketData) Kind() Kind { return KindNewMarketData }

// TradingEnvironment describes the account and symbol a session trades on.
// It is the first message of an expert-advisor session.
type TradingEnvironment struct {
	Environment types.Environment
}

func (TradingEnvironment) Kind() Kind { return KindTradingEnvironment }

// ChangeCloseConditions asks the terminal to replace the close conditions of
// the order with the given id.
type ChangeCloseConditions struct {
	ID         int32
	Conditions types.CloseConditions
}

func (ChangeCloseConditions) Kind() Kind { return KindChangeCloseConditions }

// ChangeCloseConditionsResponse is the terminal's synchronous answer to a
// ChangeCloseConditions.
type ChangeCloseConditionsResponse struct {
	Success   bool
	ErrorCode int32
}

func (ChangeCloseConditionsResponse) Kind() Kind { return KindChangeCloseConditionsResponse }

// BalanceChanged reports the new account balance in minor units of the
// account currency.
type BalanceChanged struct {
	Balance int64
}

func (BalanceChanged) Kind() Kind { return KindBalanceChanged }

// ExchangeRateChanged reports a new exchange rate for a currency pair the
// money management needs for cross-rate calculations.
type ExchangeRateChanged struct {
	Symbol types.Symbol
	Rate   decimal.Decimal
}

func (ExchangeRateChanged) Kind() Kind { return KindExchangeRateChanged }
