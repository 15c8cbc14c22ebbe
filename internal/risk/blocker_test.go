package risk

import (
	"testing"

	"github.com/tathienbao/trading-server/internal/types"
)

func TestOneTradePerCurrency(t *testing.T) {
	b := NewOneTradePerCurrency()

	if !b.IsTradingAllowed("EURUSD") {
		t.Fatal("expected trading to be allowed on an empty blocker")
	}
	if err := b.Block("EURUSD"); err != nil {
		t.Fatalf("Block(EURUSD) failed: %v", err)
	}

	tests := []struct {
		symbol  types.Symbol
		allowed bool
	}{
		{"EURUSD", false}, // both currencies taken
		{"EURJPY", false}, // base taken
		{"AUDUSD", false}, // quote taken
		{"AUDJPY", true},  // unrelated currencies
	}
	for _, tt := range tests {
		if got := b.IsTradingAllowed(tt.symbol); got != tt.allowed {
			t.Errorf("IsTradingAllowed(%s) = %v, want %v", tt.symbol, got, tt.allowed)
		}
	}

	if err := b.Unblock("EURUSD"); err != nil {
		t.Fatalf("Unblock(EURUSD) failed: %v", err)
	}
	if !b.IsTradingAllowed("EURJPY") {
		t.Error("expected trading to be allowed again after unblocking")
	}
}

func TestOneTradePerCurrencyUnbalancedCalls(t *testing.T) {
	b := NewOneTradePerCurrency()

	if err := b.Unblock("EURUSD"); !types.IsProgrammingError(err) {
		t.Errorf("Unblock without Block = %v, want a programming error", err)
	}

	if err := b.Block("EURUSD"); err != nil {
		t.Fatalf("Block(EURUSD) failed: %v", err)
	}
	if err := b.Block("EURJPY"); !types.IsProgrammingError(err) {
		t.Errorf("Block with a blocked currency = %v, want a programming error", err)
	}
}

func TestFixedTradeCount(t *testing.T) {
	b := NewFixedTradeCount(2)

	for i := 0; i < 2; i++ {
		if !b.IsTradingAllowed("EURUSD") {
			t.Fatalf("expected trade %d to be allowed", i+1)
		}
		if err := b.Block("EURUSD"); err != nil {
			t.Fatalf("Block failed on trade %d: %v", i+1, err)
		}
	}

	if b.IsTradingAllowed("AUDJPY") {
		t.Error("expected trading to be blocked with all slots taken")
	}
	if err := b.Block("AUDJPY"); !types.IsProgrammingError(err) {
		t.Errorf("Block over capacity = %v, want a programming error", err)
	}

	if err := b.Unblock("EURUSD"); err != nil {
		t.Fatalf("Unblock failed: %v", err)
	}
	if !b.IsTradingAllowed("AUDJPY") {
		t.Error("expected a slot to be free after unblocking")
	}
}

func TestFixedTradeCountUnbalancedUnblock(t *testing.T) {
	b := NewFixedTradeCount(1)
	if err := b.Unblock("EURUSD"); !types.IsProgrammingError(err) {
		t.Errorf("Unblock without Block = %v, want a programming error", err)
	}
}
