package timer

import (
	"sync"
	"time"
)

// DefaultTickInterval is the resolution of the elapsed-time display.
const DefaultTickInterval = 50 * time.Millisecond

// Ticker publishes elapsed-since-start durations at a fixed interval.
// Elapsed is always recomputed as now minus the start instant, never
// accumulated, so tick jitter cannot introduce drift.
//
// Stop is synchronous: once it returns, no further publication happens,
// which lets callers compute final durations without racing a late tick.
type Ticker struct {
	mu       sync.Mutex
	interval time.Duration
	clock    Clock
	publish  func(time.Duration)

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewTicker creates a ticker publishing through fn. fn is invoked from the
// tick goroutine.
func NewTicker(interval time.Duration, clock Clock, fn func(time.Duration)) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Ticker{
		interval: interval,
		clock:    clock,
		publish:  fn,
	}
}

// Start begins ticking against the given start instant. Any previous run
// is stopped first, so at most one tick goroutine exists.
func (t *Ticker) Start(at time.Time) {
	t.Stop()

	t.mu.Lock()
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	t.stopCh = stopCh
	t.doneCh = doneCh
	t.mu.Unlock()

	go t.run(at, stopCh, doneCh)
}

func (t *Ticker) run(start time.Time, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Re-check stop before publishing so a Stop that raced
			// the tick wins.
			select {
			case <-stopCh:
				return
			default:
			}
			t.publish(t.clock.Now().Sub(start))
		}
	}
}

// Stop halts ticking and waits for the tick goroutine to exit. Safe to
// call when not running, and safe to call repeatedly.
func (t *Ticker) Stop() {
	t.mu.Lock()
	stopCh, doneCh := t.stopCh, t.doneCh
	t.stopCh, t.doneCh = nil, nil
	t.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh
}

// Running reports whether a tick goroutine is active.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopCh != nil
}
