package alerting

import (
	"log/slog"
	"sync"

	"github.com/tathienbao/trading-server/internal/types"
)

// Background decouples notification delivery from the code that produces the
// events. All events are handed to a single worker goroutine, so slow sinks
// never block a trading session and the delivery order matches the
// submission order. When the queue is full the event is dropped and logged.
type Background struct {
	inner  CombinedNotifier
	logger *slog.Logger

	queue chan func()
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewBackground wraps the given notifier and starts its worker.
func NewBackground(inner CombinedNotifier, logger *slog.Logger) *Background {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Background{
		inner:  inner,
		logger: logger,
		queue:  make(chan func(), 1024),
	}
	b.wg.Add(1)
	go b.work()
	return b
}

func (b *Background) work() {
	defer b.wg.Done()
	for deliver := range b.queue {
		deliver()
	}
}

// Close stops accepting events and waits until all queued events are
// delivered.
func (b *Background) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()
	b.wg.Wait()
}

func (b *Background) submit(deliver func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		b.logger.Warn("dropping notification, the notifier is closed")
		return
	}
	select {
	case b.queue <- deliver:
	default:
		b.logger.Warn("dropping notification, the queue is full")
	}
}

// TradeCompleted implements TraderNotifier.
func (b *Background) TradeCompleted(trade types.CompletedTrade) {
	b.submit(func() { b.inner.TradeCompleted(trade) })
}

// InformalEvent implements AdminNotifier.
func (b *Background) InformalEvent(message string) {
	b.submit(func() { b.inner.InformalEvent(message) })
}

// UnexpectedEvent implements AdminNotifier.
func (b *Background) UnexpectedEvent(message string, cause error) {
	b.submit(func() { b.inner.UnexpectedEvent(message, cause) })
}

// UnrecoverableError implements AdminNotifier.
func (b *Background) UnrecoverableError(message string, cause error) {
	b.submit(func() { b.inner.UnrecoverableError(message, cause) })
}

// UnrecoverableProgrammingError implements DeveloperNotifier.
func (b *Background) UnrecoverableProgrammingError(message string, cause error) {
	b.submit(func() { b.inner.UnrecoverableProgrammingError(message, cause) })
}
