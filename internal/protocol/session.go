package protocol

import (
	"errors"

	"github.com/tathienbao/trading-server/internal/advisor"
	"github.com/tathienbao/trading-server/internal/broker"
	"github.com/tathienbao/trading-server/internal/risk"
	"github.com/tathienbao/trading-server/internal/types"
)

// AdvisorFactory builds the expert advisor requested by a client session.
type AdvisorFactory interface {
	NewAdvisor(number int32, b broker.Broker, env types.Environment, lender risk.VolumeLender) (advisor.AccountingAdvisor, error)
}

// ExpertAdvisorSession runs the expert-advisor protocol for one client. It
// reads the trading environment, builds the advisor pipeline and then serves
// the message loop until the connection ends.
//
// Every exit path returns the volume the session still holds; a session that
// dies must never keep its currencies blocked.
type ExpertAdvisorSession struct {
	conn     *MsgConn
	factory  AdvisorFactory
	lender   risk.VolumeLender
	notifier risk.ReleaseNotifier
	number   int32
}

// NewExpertAdvisorSession prepares a session serving the advisor with the
// given number. The lender is the server-wide money management; leases the
// session acquires are tracked and force-released when it ends.
func NewExpertAdvisorSession(conn *MsgConn, factory AdvisorFactory, lender risk.VolumeLender, notifier risk.ReleaseNotifier, number int32) *ExpertAdvisorSession {
	return &ExpertAdvisorSession{conn: conn, factory: factory, lender: lender, notifier: notifier, number: number}
}

// Run executes the session until the connection ends. The returned error is
// never nil; a client that closed at a message boundary yields ErrNormalClose.
func (s *ExpertAdvisorSession) Run() error {
	environment, err := Expect[TradingEnvironment](s.conn)
	if err != nil {
		return err
	}

	pool := risk.NewSessionPool(s.lender, s.notifier)
	defer pool.ReleaseAll()

	orders := NewOrderMap()
	remote := NewRemoteBroker(s.conn, orders)
	adv, err := s.factory.NewAdvisor(s.number, remote, environment.Environment, pool)
	if errors.Is(err, types.ErrUnknownAdvisor) {
		return protocolErr("received a request for the expert advisor with the number %d which is unknown", s.number)
	}
	if err != nil {
		return err
	}

	local := NewLocalAdvisor(adv, orders, environment.Environment.Account.Currency)
	for {
		msg, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}
		if err := local.HandleMessage(msg); err != nil {
			return err
		}
		if err := s.conn.WriteMessage(EventHandlingFinished{}); err != nil {
			return err
		}
	}
}
