// Package alerting delivers noteworthy events to the people interested in
// them: the trader, the administrator running the server and the developer.
package alerting

import "github.com/tathienbao/trading-server/internal/types"

// TraderNotifier receives events the trader cares about.
type TraderNotifier interface {
	// TradeCompleted is called when a trade reached a terminal state.
	TradeCompleted(trade types.CompletedTrade)
}

// AdminNotifier receives operational events of the running server.
type AdminNotifier interface {
	// UnexpectedEvent reports an event that should not occur in normal
	// operation but that the server recovered from. cause may be nil.
	UnexpectedEvent(message string, cause error)
	// InformalEvent reports an event of purely informational value.
	InformalEvent(message string)
	// UnrecoverableError reports an error the server could not recover from.
	UnrecoverableError(message string, cause error)
}

// DeveloperNotifier receives events indicating bugs in the server itself.
type DeveloperNotifier interface {
	UnrecoverableProgrammingError(message string, cause error)
}

// CombinedNotifier bundles all three notification facets.
type CombinedNotifier interface {
	TraderNotifier
	AdminNotifier
	DeveloperNotifier
}

// TradeListener adapts a TraderNotifier to the completed-trade listener the
// trade tracker expects.
type TradeListener struct {
	Notifier TraderNotifier
}

func (l TradeListener) TradeCompleted(trade types.CompletedTrade) error {
	l.Notifier.TradeCompleted(trade)
	return nil
}
