package alerting

import "github.com/tathienbao/trading-server/internal/types"

// Combining routes each notification facet to its own backend, e.g. trades
// to Telegram and everything else to the console.
type Combining struct {
	Trader    TraderNotifier
	Admin     AdminNotifier
	Developer DeveloperNotifier
}

// TradeCompleted implements TraderNotifier.
func (c Combining) TradeCompleted(trade types.CompletedTrade) {
	c.Trader.TradeCompleted(trade)
}

// InformalEvent implements AdminNotifier.
func (c Combining) InformalEvent(message string) {
	c.Admin.InformalEvent(message)
}

// UnexpectedEvent implements AdminNotifier.
func (c Combining) UnexpectedEvent(message string, cause error) {
	c.Admin.UnexpectedEvent(message, cause)
}

// UnrecoverableError implements AdminNotifier.
func (c Combining) UnrecoverableError(message string, cause error) {
	c.Admin.UnrecoverableError(message, cause)
}

// UnrecoverableProgrammingError implements DeveloperNotifier.
func (c Combining) UnrecoverableProgrammingError(message string, cause error) {
	c.Developer.UnrecoverableProgrammingError(message, cause)
}

// Fanout sends trader notifications to several backends.
type Fanout []TraderNotifier

// TradeCompleted implements TraderNotifier.
func (f Fanout) TradeCompleted(trade types.CompletedTrade) {
	for _, n := range f {
		n.TradeCompleted(trade)
	}
}
