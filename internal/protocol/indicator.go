package protocol

import (
	"errors"

	"github.com/tathienbao/trading-server/internal/advisor"
	"github.com/tathienbao/trading-server/internal/types"
)

// IndicatorFactory builds the trend indicator requested by a client session.
type IndicatorFactory interface {
	NewIndicator(number int32) (advisor.TrendIndicator, error)
}

// IndicatorSession runs the trend-indicator protocol for one client: a plain
// request/response loop answering each candle with the current trend.
type IndicatorSession struct {
	conn    *MsgConn
	factory IndicatorFactory
	number  int32
}

// NewIndicatorSession prepares a session serving the indicator with the
// given number.
func NewIndicatorSession(conn *MsgConn, factory IndicatorFactory, number int32) *IndicatorSession {
	return &IndicatorSession{conn: conn, factory: factory, number: number}
}

// Run executes the session until the connection ends. The returned error is
// never nil; a client that closed at a message boundary yields ErrNormalClose.
func (s *IndicatorSession) Run() error {
	indicator, err := s.factory.NewIndicator(s.number)
	if errors.Is(err, types.ErrUnknownIndicator) {
		return protocolErr("received a request for the indicator with the number %d which is unknown", s.number)
	}
	if err != nil {
		return err
	}

	for {
		msg, err := Expect[NewMarketDataSimple](s.conn)
		if err != nil {
			return err
		}
		trend := indicator.Indicate(msg.Candle)
		if err := s.conn.WriteMessage(TrendForMarketData{Trend: wireTrend(trend)}); err != nil {
			return err
		}
	}
}

func wireTrend(trend advisor.Trend) Trend {
	switch trend {
	case advisor.TrendUp:
		return TrendUp
	case advisor.TrendDown:
		return TrendDown
	default:
		return TrendUnknown
	}
}
