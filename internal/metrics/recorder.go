package metrics

import "github.com/tathienbao/trading-server/internal/types"

// Recorder provides methods for recording metrics.
type Recorder struct{}

// NewRecorder creates a new metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SessionStarted records a new client session of the given protocol.
func (r *Recorder) SessionStarted(protocol string) {
	SessionsTotal.WithLabelValues(protocol).Inc()
	SessionsActive.WithLabelValues(protocol).Inc()
}

// SessionEnded records the end of a client session.
func (r *Recorder) SessionEnded(protocol string) {
	SessionsActive.WithLabelValues(protocol).Dec()
}

// RecordMessage records an inbound protocol message.
func (r *Recorder) RecordMessage(kind string) {
	MessagesReceived.WithLabelValues(kind).Inc()
}

// RecordLeaseGranted records a granted volume lease.
func (r *Recorder) RecordLeaseGranted(volume int64) {
	LeasesGranted.Inc()
	VolumeLeased.Add(float64(volume))
}

// RecordLeaseReleased records a released volume lease.
func (r *Recorder) RecordLeaseReleased(volume int64) {
	LeasesReleased.Inc()
	VolumeLeased.Sub(float64(volume))
}

// RecordTradeCompleted records a trade that reached a terminal state.
func (r *Recorder) RecordTradeCompleted(trade types.CompletedTrade) {
	outcome := "canceled"
	if trade.WasOpened() {
		outcome = "closed"
	}
	TradesCompleted.WithLabelValues(string(trade.Symbol), outcome).Inc()
}

// RecordFault records a classified session fault.
func (r *Recorder) RecordFault(class string) {
	FaultsTotal.WithLabelValues(class).Inc()
}

// TradeCompleted implements the tracker's completed-trade listener.
func (r *Recorder) TradeCompleted(trade types.CompletedTrade) error {
	r.RecordTradeCompleted(trade)
	return nil
}
