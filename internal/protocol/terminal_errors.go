package protocol

import "fmt"

// terminalErrors are the trade server error codes of the remote terminal,
// taken from the MQL4 book appendix.
var terminalErrors = map[int32]string{
	0:   "No error returned.",
	1:   "No error returned, but the result is unknown.",
	2:   "Common error.",
	3:   "Invalid trade parameters.",
	4:   "Trade server is busy.",
	5:   "Old version of the client terminal.",
	6:   "No connection with trade server.",
	7:   "Not enough rights.",
	8:   "Too frequent requests.",
	9:   "Malfunctional trade operation.",
	64:  "Account disabled.",
	65:  "Invalid account.",
	128: "Trade timeout.",
	129: "Invalid price.",
	130: "Invalid stops.",
	131: "Invalid trade volume.",
	132: "Market is closed.",
	133: "Trade is disabled.",
	134: "Not enough money.",
	135: "Price changed.",
	136: "Off quotes.",
	137: "Broker is busy.",
	138: "Requote.",
	139: "Order is locked.",
	140: "Long positions only allowed.",
	141: "Too many requests.",
	145: "Modification denied because an order is too close to market.",
	146: "Trade context is busy.",
	147: "Expirations are denied by broker.",
	148: "The amount of opened and pending orders has reached the limit set by a broker.",
}

// terminalFailure renders a terminal error code into the rejection reason
// passed to order event listeners.
func terminalFailure(code int32) string {
	reason, ok := terminalErrors[code]
	if !ok {
		reason = "unknown error"
	}
	return fmt.Sprintf("the trading terminal failed to execute an action: %d - %s", code, reason)
}
