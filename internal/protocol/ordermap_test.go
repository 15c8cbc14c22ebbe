package protocol

import (
	"testing"

	"github.com/tathienbao/trading-server/internal/types"
)

func TestOrderMapCorrelatesListeners(t *testing.T) {
	m := NewOrderMap()
	listener := &captureListener{}

	m.Put(3, listener)

	if !m.Has(3) {
		t.Error("Has(3) = false after Put")
	}
	got, err := m.Get(3)
	if err != nil {
		t.Fatalf("Get(3): %v", err)
	}
	if got != listener {
		t.Error("Get(3) returned a different listener")
	}

	if err := m.Remove(3); err != nil {
		t.Fatalf("Remove(3): %v", err)
	}
	if m.Has(3) {
		t.Error("Has(3) = true after Remove")
	}
}

func TestOrderMapFailsOnUnknownIDs(t *testing.T) {
	m := NewOrderMap()

	if _, err := m.Get(42); !types.IsProgrammingError(err) {
		t.Errorf("Get(42) = %v, want a programming error", err)
	}
	if err := m.Remove(42); !types.IsProgrammingError(err) {
		t.Errorf("Remove(42) = %v, want a programming error", err)
	}
}
