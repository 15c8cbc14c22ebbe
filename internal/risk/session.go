package risk

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"
)

// ReleaseNotifier is informed when the pool force-releases a lease that a
// session failed to release itself.
type ReleaseNotifier interface {
	UnexpectedEvent(message string, cause error)
}

// SessionPool hands out leases on behalf of one client session and remembers
// every lease that is still outstanding. When the session ends, for whatever
// reason, ReleaseAll returns the remaining volume so that a crashed client
// cannot block its currencies forever.
type SessionPool struct {
	lender   VolumeLender
	notifier ReleaseNotifier

	mu     sync.Mutex
	active map[*pooledLease]struct{}
	closed bool
}

func NewSessionPool(lender VolumeLender, notifier ReleaseNotifier) *SessionPool {
	return &SessionPool{
		lender:   lender,
		notifier: notifier,
		active:   make(map[*pooledLease]struct{}),
	}
}

// RequestVolume implements VolumeLender. Leases granted after the pool was
// closed are released immediately.
func (p *SessionPool) RequestVolume(symbol types.Symbol, currentPrice, stopLossDistance decimal.Decimal, stepSize int64) (Lease, error) {
	lease, err := p.lender.RequestVolume(symbol, currentPrice, stopLossDistance, stepSize)
	if lease == nil || err != nil {
		return nil, err
	}

	pooled := &pooledLease{pool: p, inner: lease, symbol: symbol}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		if err := lease.Release(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	p.active[pooled] = struct{}{}
	p.mu.Unlock()
	return pooled, nil
}

// ReleaseAll releases every lease the session has not released itself and
// reports each one to the notifier. The pool accepts no new leases afterwards.
func (p *SessionPool) ReleaseAll() {
	p.mu.Lock()
	p.closed = true
	remaining := make([]*pooledLease, 0, len(p.active))
	for lease := range p.active {
		remaining = append(remaining, lease)
	}
	p.active = make(map[*pooledLease]struct{})
	p.mu.Unlock()

	for _, lease := range remaining {
		err := lease.inner.Release()
		p.notifier.UnexpectedEvent(
			fmt.Sprintf("released %d volume for symbol %s that the session left behind",
				lease.inner.Volume(), lease.symbol), err)
	}
}

type pooledLease struct {
	pool   *SessionPool
	inner  Lease
	symbol types.Symbol
}

func (l *pooledLease) Volume() int64 {
	return l.inner.Volume()
}

func (l *pooledLease) Release() error {
	l.pool.mu.Lock()
	_, active := l.pool.active[l]
	delete(l.pool.active, l)
	l.pool.mu.Unlock()
	if !active {
		// Already force-released by ReleaseAll; the inner lease must
		// not be released twice.
		return nil
	}
	return l.inner.Release()
}
