package protocol

import (
	"errors"
	"fmt"

	"github.com/tathienbao/trading-server/internal/alerting"
	"github.com/tathienbao/trading-server/internal/metrics"
	"github.com/tathienbao/trading-server/internal/risk"
	"github.com/tathienbao/trading-server/internal/types"
	"github.com/tathienbao/trading-server/internal/wire"
)

// Fault classifications as they appear in metrics.
const (
	faultNormalClose       = "normal_close"
	faultAbnormalClose     = "abnormal_close"
	faultProtocolViolation = "protocol_violation"
	faultMessageRead       = "message_read"
	faultProgrammingError  = "programming_error"
	faultUnknown           = "unknown"
)

// Handler serves one client connection from handshake to teardown. It
// dispatches to the requested session protocol and translates the fault the
// session ends with into notifications and, where necessary, a closed
// connection.
type Handler struct {
	advisors   AdvisorFactory
	indicators IndicatorFactory
	lender     risk.VolumeLender
	admin      alerting.AdminNotifier
	developer  alerting.DeveloperNotifier
	recorder   *metrics.Recorder
}

// NewHandler creates a handler serving the given algorithm factories.
func NewHandler(advisors AdvisorFactory, indicators IndicatorFactory, lender risk.VolumeLender,
	admin alerting.AdminNotifier, developer alerting.DeveloperNotifier, recorder *metrics.Recorder) *Handler {
	return &Handler{
		advisors:   advisors,
		indicators: indicators,
		lender:     lender,
		admin:      admin,
		developer:  developer,
		recorder:   recorder,
	}
}

// Handle runs the full protocol on the connection. It returns when the
// session ended and all faults are dealt with.
func (h *Handler) Handle(conn wire.Conn) {
	msgConn := NewMsgConn(conn)
	msgConn.SetReadObserver(func(kind Kind) {
		h.recorder.RecordMessage(kind.String())
	})

	request, err := Expect[RequestAlgorithm](msgConn)
	if err != nil {
		h.handleFault(msgConn, err)
		return
	}

	switch request.Type {
	case AlgorithmExpertAdvisor:
		session := NewExpertAdvisorSession(msgConn, h.advisors, h.lender, h.admin, request.Number)
		h.runSession("expert_advisor", msgConn, session.Run)
	case AlgorithmTrendIndicator:
		session := NewIndicatorSession(msgConn, h.indicators, request.Number)
		h.runSession("trend_indicator", msgConn, session.Run)
	default:
		h.handleFault(msgConn, protocolErr(
			"trading algorithms of type %d are not supported by this server", request.Type))
	}
}

func (h *Handler) runSession(protocol string, conn *MsgConn, run func() error) {
	h.recorder.SessionStarted(protocol)
	defer h.recorder.SessionEnded(protocol)
	h.handleFault(conn, run())
}

// handleFault dispatches the fault a session ended with to the parties
// interested in it and closes the connection when the protocol state is no
// longer trustworthy.
func (h *Handler) handleFault(conn *MsgConn, err error) {
	var abnormal *AbnormalCloseError
	var violation *ProtocolError
	var unreadable *MessageReadError

	switch {
	case errors.Is(err, ErrNormalClose):
		h.recorder.RecordFault(faultNormalClose)
		h.admin.InformalEvent(fmt.Sprintf("The connection to the client '%s' was closed.", conn))

	case errors.As(err, &abnormal):
		h.recorder.RecordFault(faultAbnormalClose)
		h.admin.UnexpectedEvent(
			fmt.Sprintf("The connection to the client '%s' was closed unexpectedly.", conn), err)

	case errors.As(err, &violation):
		h.recorder.RecordFault(faultProtocolViolation)
		h.admin.UnexpectedEvent(fmt.Sprintf(
			"A violation of the communication protocol with the client '%s' occurred. Closing the connection to that client.", conn), err)
		h.closeConnection(conn)

	case errors.As(err, &unreadable):
		h.recorder.RecordFault(faultMessageRead)
		h.admin.UnexpectedEvent(fmt.Sprintf(
			"Failed to read an expected message from the connection to the client '%s'. Closing the connection to that client.", conn), err)
		h.closeConnection(conn)

	case types.IsProgrammingError(err):
		h.recorder.RecordFault(faultProgrammingError)
		h.developer.UnrecoverableProgrammingError(
			"A fatal invariant violation occurred while serving a client.", err)
		h.admin.UnexpectedEvent(fmt.Sprintf(
			"An internal server error occurred in the communication with the client '%s'. Closing the connection to this client.", conn), nil)
		h.closeConnection(conn)

	default:
		h.recorder.RecordFault(faultUnknown)
		h.developer.UnrecoverableProgrammingError(
			"An error occurred that is unknown to the fault handler.", err)
		h.admin.UnexpectedEvent(fmt.Sprintf(
			"An unspecified error in the communication with the client '%s' occurred. Closing the connection to this client.", conn), nil)
		h.closeConnection(conn)
	}
}

func (h *Handler) closeConnection(conn *MsgConn) {
	if err := conn.Close(); err != nil {
		h.admin.UnexpectedEvent(fmt.Sprintf(
			"Closing the connection to the client '%s' failed. Assuming it is closed anyway.", conn), err)
		return
	}
	h.admin.InformalEvent(fmt.Sprintf("The connection to the client '%s' was closed.", conn))
}
