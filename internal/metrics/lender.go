package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/tathienbao/trading-server/internal/risk"
	"github.com/tathienbao/trading-server/internal/types"
)

// MeasuredLender wraps a volume lender and records every granted and
// released lease.
type MeasuredLender struct {
	Lender   risk.VolumeLender
	Recorder *Recorder
}

// RequestVolume implements risk.VolumeLender.
func (l MeasuredLender) RequestVolume(symbol types.Symbol, currentPrice, stopLossDistance decimal.Decimal, stepSize int64) (risk.Lease, error) {
	lease, err := l.Lender.RequestVolume(symbol, currentPrice, stopLossDistance, stepSize)
	if lease == nil || err != nil {
		return lease, err
	}
	l.Recorder.RecordLeaseGranted(lease.Volume())
	return &measuredLease{inner: lease, recorder: l.Recorder}, nil
}

type measuredLease struct {
	inner    risk.Lease
	recorder *Recorder
}

func (l *measuredLease) Volume() int64 { return l.inner.Volume() }

func (l *measuredLease) Release() error {
	if err := l.inner.Release(); err != nil {
		return err
	}
	l.recorder.RecordLeaseReleased(l.inner.Volume())
	return nil
}
