package advisor

import (
	"testing"

	"github.com/tathienbao/trading-server/internal/types"
)

type orderedObserver struct {
	log  *[]string
	name string
}

func (o *orderedObserver) NewMarketData(types.Candle) {
	*o.log = append(*o.log, o.name)
}

type orderedStrategy struct {
	log *[]string
}

func (s *orderedStrategy) NewMarketData(types.Candle) error {
	*s.log = append(*s.log, "strategy")
	return nil
}

func TestDistributorFeedsObserversBeforeTheStrategy(t *testing.T) {
	var log []string
	distributor := NewDistributor(
		&orderedStrategy{log: &log},
		&orderedObserver{log: &log, name: "tracker"},
		&orderedObserver{log: &log, name: "lending"},
	)

	if err := distributor.NewMarketData(candleAt("1.25")); err != nil {
		t.Fatalf("NewMarketData: %v", err)
	}

	want := []string{"tracker", "lending", "strategy"}
	if len(log) != len(want) {
		t.Fatalf("call order %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("call order %v, want %v", log, want)
		}
	}
}
