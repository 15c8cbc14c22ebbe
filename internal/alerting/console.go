package alerting

import (
	"log/slog"

	"github.com/tathienbao/trading-server/internal/types"
)

// ConsoleNotifier writes all events to the structured log.
type ConsoleNotifier struct {
	logger *slog.Logger
}

// NewConsoleNotifier creates a notifier writing to the given logger.
func NewConsoleNotifier(logger *slog.Logger) *ConsoleNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleNotifier{logger: logger}
}

// TradeCompleted implements TraderNotifier.
func (n *ConsoleNotifier) TradeCompleted(trade types.CompletedTrade) {
	n.logger.Info("trade completed",
		"id", trade.ID,
		"symbol", trade.Symbol,
		"type", trade.Type.String(),
		"volume", trade.Volume,
		"opened", trade.WasOpened(),
		"events", len(trade.Events),
	)
}

// InformalEvent implements AdminNotifier.
func (n *ConsoleNotifier) InformalEvent(message string) {
	n.logger.Info(message)
}

// UnexpectedEvent implements AdminNotifier.
func (n *ConsoleNotifier) UnexpectedEvent(message string, cause error) {
	if cause == nil {
		n.logger.Warn(message)
		return
	}
	n.logger.Warn(message, "err", cause)
}

// UnrecoverableError implements AdminNotifier.
func (n *ConsoleNotifier) UnrecoverableError(message string, cause error) {
	n.logger.Error(message, "err", cause)
}

// UnrecoverableProgrammingError implements DeveloperNotifier.
func (n *ConsoleNotifier) UnrecoverableProgrammingError(message string, cause error) {
	n.logger.Error(message, "err", cause, "kind", "programming error")
}
