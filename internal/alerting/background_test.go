package alerting

import (
	"testing"

	"github.com/tathienbao/trading-server/internal/types"
)

// recordingCombined records every notification in arrival order.
type recordingCombined struct {
	log []string
}

func (r *recordingCombined) TradeCompleted(trade types.CompletedTrade) {
	r.log = append(r.log, "trade "+trade.ID)
}

func (r *recordingCombined) InformalEvent(message string) {
	r.log = append(r.log, "info "+message)
}

func (r *recordingCombined) UnexpectedEvent(message string, cause error) {
	r.log = append(r.log, "unexpected "+message)
}

func (r *recordingCombined) UnrecoverableError(message string, cause error) {
	r.log = append(r.log, "fatal "+message)
}

func (r *recordingCombined) UnrecoverableProgrammingError(message string, cause error) {
	r.log = append(r.log, "bug "+message)
}

func TestBackgroundDeliversInSubmissionOrder(t *testing.T) {
	inner := &recordingCombined{}
	background := NewBackground(inner, nil)

	background.InformalEvent("first")
	background.UnexpectedEvent("second", nil)
	background.TradeCompleted(types.CompletedTrade{ID: "third"})
	background.UnrecoverableProgrammingError("fourth", nil)
	background.Close()

	want := []string{"info first", "unexpected second", "trade third", "bug fourth"}
	if len(inner.log) != len(want) {
		t.Fatalf("delivered %v, want %v", inner.log, want)
	}
	for i := range want {
		if inner.log[i] != want[i] {
			t.Fatalf("delivered %v, want %v", inner.log, want)
		}
	}
}

func TestBackgroundDropsEventsAfterClose(t *testing.T) {
	inner := &recordingCombined{}
	background := NewBackground(inner, nil)
	background.Close()

	background.InformalEvent("too late")

	if len(inner.log) != 0 {
		t.Errorf("delivered %v after close, want nothing", inner.log)
	}
}

func TestBackgroundCloseIsIdempotent(t *testing.T) {
	background := NewBackground(&recordingCombined{}, nil)
	background.Close()
	background.Close()
}
