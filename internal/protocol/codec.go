package protocol

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tathienbao/trading-server/internal/types"
	"github.com/tathienbao/trading-server/internal/wire"
)

// MsgConn reads and writes protocol messages over a wire connection.
//
// A connection close while waiting for the kind byte of the next message is a
// normal close; a close in the middle of a message is abnormal.
type MsgConn struct {
	conn   wire.Conn
	onRead func(Kind)
}

// SetReadObserver registers a callback invoked for every successfully read
// message.
func (c *MsgConn) SetReadObserver(fn func(Kind)) {
	c.onRead = fn
}

// NewMsgConn wraps the given wire connection.
func NewMsgConn(conn wire.Conn) *MsgConn {
	return &MsgConn{conn: conn}
}

// Close closes the underlying connection.
func (c *MsgConn) Close() error {
	return c.conn.Close()
}

// String describes the remote endpoint.
func (c *MsgConn) String() string {
	return c.conn.String()
}

// ReadMessage reads the next message the client sends.
func (c *MsgConn) ReadMessage() (Message, error) {
	number, err := c.conn.ReceiveByte()
	if err != nil {
		if errors.Is(err, wire.ErrPeerClosed) {
			return nil, ErrNormalClose
		}
		return nil, &AbnormalCloseError{Cause: err}
	}
	msg, err := c.readPayload(Kind(number))
	if err == nil && c.onRead != nil {
		c.onRead(msg.Kind())
	}
	return msg, err
}

// Expect reads the next message and fails with a MessageReadError when it is
// not of the requested type.
func Expect[M Message](c *MsgConn) (M, error) {
	var want M
	msg, err := c.ReadMessage()
	if err != nil {
		return want, err
	}
	typed, ok := msg.(M)
	if !ok {
		return want, readErr("expected the next message to be of type %s but it is of type %s",
			want.Kind(), msg.Kind())
	}
	return typed, nil
}

func (c *MsgConn) readPayload(kind Kind) (Message, error) {
	r := &payloadReader{conn: c.conn}

	var msg Message
	var err error
	switch kind {
	case KindRequestAlgorithm:
		msg, err = readRequestAlgorithm(r)
	case KindNewMarketDataSimple:
		msg = NewMarketDataSimple{Candle: readSimpleCandle(r)}
	case KindNewMarketData:
		msg = NewMarketData{Candle: readFullCandle(r)}
	case KindPlaceOrderResponse:
		msg = readPlaceOrderResponse(r)
	case KindOrderExecuted:
		msg = OrderExecuted{ID: r.int32(), Time: r.time(), Price: r.price()}
	case KindOrderClosed:
		msg = OrderClosed{ID: r.int32(), Time: r.time(), Price: r.price()}
	case KindTradingEnvironment:
		msg, err = readTradingEnvironment(r)
	case KindChangeCloseConditionsResponse:
		msg = readChangeCloseConditionsResponse(r)
	case KindBalanceChanged:
		msg = BalanceChanged{Balance: r.int64()}
	case KindExchangeRateChanged:
		msg, err = readExchangeRateChanged(r)
	case KindTrendForMarketData, KindPlaceOrder, KindCloseOrCancelOrder,
		KindEventHandlingFinished, KindChangeCloseConditions:
		return nil, readErr("received the message type %s which is only sent, never received", kind)
	default:
		return nil, readErr("received the message number %d which is not assigned to any known message type", kind)
	}

	if r.err != nil {
		return nil, &AbnormalCloseError{Cause: r.err}
	}
	return msg, err
}

func readRequestAlgorithm(r *payloadReader) (Message, error) {
	algorithmType := r.byte()
	number := r.int32()
	if r.err == nil && algorithmType > byte(AlgorithmExpertAdvisor) {
		return nil, readErr("received a request for the unknown algorithm type %d", algorithmType)
	}
	return RequestAlgorithm{Type: AlgorithmType(algorithmType), Number: number}, nil
}

func readSimpleCandle(r *payloadReader) types.Candle {
	return types.Candle{
		Time:  r.time(),
		Open:  r.price(),
		High:  r.price(),
		Low:   r.price(),
		Close: r.price(),
	}
}

func readFullCandle(r *payloadReader) types.Candle {
	candle := readSimpleCandle(r)
	candle.Spread = r.pipettePrice()
	candle.Volume = int64(r.int32())
	candle.TickCount = int64(r.int32())
	return candle
}

func readPlaceOrderResponse(r *payloadReader) Message {
	success := r.byte() == 0
	value := r.int32()
	if success {
		return PlaceOrderResponse{Success: true, ID: value}
	}
	return PlaceOrderResponse{Success: false, ErrorCode: value}
}

func readTradingEnvironment(r *payloadReader) (Message, error) {
	env := types.Environment{
		Account: types.AccountInfo{
			BrokerName:    r.string(),
			AccountNumber: r.int64(),
			Currency:      r.string(),
		},
		TradeSymbol:   types.Symbol(r.string()),
		AccountSymbol: types.Symbol(r.string()),
		Fees: types.Fees{
			Markup:     r.pipettePrice(),
			Commission: r.pipettePrice(),
		},
		NonHistoricTime: r.time(),
		Volume: types.VolumeConstraints{
			Min:  r.int64(),
			Max:  r.int64(),
			Step: r.int64(),
		},
	}
	if r.err != nil {
		return nil, &AbnormalCloseError{Cause: r.err}
	}
	if len(env.Account.Currency) != 3 {
		return nil, readErr("the account currency %q is not a valid currency code", env.Account.Currency)
	}
	if !env.TradeSymbol.Valid() || !env.AccountSymbol.Valid() {
		return nil, readErr("the symbols %q and %q of the trading environment are not both valid",
			env.TradeSymbol, env.AccountSymbol)
	}
	return TradingEnvironment{Environment: env}, nil
}

func readChangeCloseConditionsResponse(r *payloadReader) Message {
	if r.byte() == 0 {
		return ChangeCloseConditionsResponse{Success: true}
	}
	return ChangeCloseConditionsResponse{Success: false, ErrorCode: r.int32()}
}

func readExchangeRateChanged(r *payloadReader) (Message, error) {
	symbol := types.Symbol(r.string())
	rate := r.float64()
	if r.err == nil && !symbol.Valid() {
		return nil, readErr("the symbol %q of an exchange rate update is not valid", symbol)
	}
	return ExchangeRateChanged{Symbol: symbol, Rate: decimal.NewFromFloat(rate)}, nil
}

// WriteMessage sends a message to the client and flushes the stream.
func (c *MsgConn) WriteMessage(msg Message) error {
	w := &payloadWriter{conn: c.conn}
	w.byte(byte(msg.Kind()))

	switch m := msg.(type) {
	case TrendForMarketData:
		w.byte(byte(m.Trend))
	case CloseOrCancelOrder:
		w.int32(m.ID)
	case PlaceOrder:
		writePlaceOrder(w, m.Order)
	case ChangeCloseConditions:
		writeChangeCloseConditions(w, m)
	case EventHandlingFinished:
		// no payload
	default:
		return types.NewProgrammingError("the message type %s cannot be sent to clients", msg.Kind())
	}

	if w.err == nil {
		w.err = c.conn.Flush()
	}
	if w.err != nil {
		return &AbnormalCloseError{Cause: w.err}
	}
	return nil
}

func writePlaceOrder(w *payloadWriter, order types.PendingOrder) {
	flags := byte(order.Type) | byte(order.Condition)<<1
	if order.CloseConditions.HasExpiration() {
		flags |= 1 << 3
	}
	w.byte(flags)
	w.int32(int32(order.Volume))
	w.float64(order.EntryPrice.InexactFloat64())
	w.float64(order.CloseConditions.TakeProfit.InexactFloat64())
	w.float64(order.CloseConditions.StopLoss.InexactFloat64())
	if order.CloseConditions.HasExpiration() {
		w.int64(order.CloseConditions.Expiration.Unix())
	}
}

func writeChangeCloseConditions(w *payloadWriter, m ChangeCloseConditions) {
	if m.Conditions.HasExpiration() {
		w.byte(1)
	} else {
		w.byte(0)
	}
	w.int32(m.ID)
	w.float64(m.Conditions.TakeProfit.InexactFloat64())
	w.float64(m.Conditions.StopLoss.InexactFloat64())
	if m.Conditions.HasExpiration() {
		w.int64(m.Conditions.Expiration.Unix())
	}
}

// payloadReader reads wire primitives with a sticky error so that decoding
// code stays linear. Values read after a failure are zero.
type payloadReader struct {
	conn wire.Conn
	err  error
}

func (r *payloadReader) byte() byte {
	if r.err != nil {
		return 0
	}
	v, err := r.conn.ReceiveByte()
	r.err = err
	return v
}

func (r *payloadReader) int32() int32 {
	if r.err != nil {
		return 0
	}
	v, err := r.conn.ReceiveInt32()
	r.err = err
	return v
}

func (r *payloadReader) int64() int64 {
	if r.err != nil {
		return 0
	}
	v, err := r.conn.ReceiveInt64()
	r.err = err
	return v
}

func (r *payloadReader) float64() float64 {
	if r.err != nil {
		return 0
	}
	v, err := r.conn.ReceiveFloat64()
	r.err = err
	return v
}

func (r *payloadReader) string() string {
	if r.err != nil {
		return ""
	}
	v, err := r.conn.ReceiveString()
	r.err = err
	return v
}

func (r *payloadReader) time() time.Time {
	return time.Unix(r.int64(), 0).UTC()
}

func (r *payloadReader) price() decimal.Decimal {
	return decimal.NewFromFloat(r.float64())
}

// pipettePrice reads a price transferred as a whole number of pipettes.
func (r *payloadReader) pipettePrice() decimal.Decimal {
	return decimal.New(int64(r.int32()), -5)
}

// payloadWriter is the sticky-error counterpart for encoding.
type payloadWriter struct {
	conn wire.Conn
	err  error
}

func (w *payloadWriter) byte(v byte) {
	if w.err == nil {
		w.err = w.conn.SendByte(v)
	}
}

func (w *payloadWriter) int32(v int32) {
	if w.err == nil {
		w.err = w.conn.SendInt32(v)
	}
}

func (w *payloadWriter) int64(v int64) {
	if w.err == nil {
		w.err = w.conn.SendInt64(v)
	}
}

func (w *payloadWriter) float64(v float64) {
	if w.err == nil {
		w.err = w.conn.SendFloat64(v)
	}
}
