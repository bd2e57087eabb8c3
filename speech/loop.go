package speech

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// LoadingPlaceholder is the sentinel the UI shows before quotes arrive.
// It must never reach the synthesis API.
const LoadingPlaceholder = "Loading..."

// Loop plays a quote list end over end until stopped: resolve audio for
// the current quote (cache first, synthesize-and-cache on miss), play it,
// then advance modulo the list length and repeat.
//
// The loop is self-rescheduling rather than a fixed iteration: each play
// schedules the next from the sink's completion callback. The active flag
// is the sole cancellation token. Because completions arrive
// asynchronously, Stop both clears the flag and halts the sink: the halt
// discards a queued completion, and the flag check in the completion path
// catches one already in flight. In-flight synthesis is not cancelled;
// its result is discarded by the same flag check before it can play.
type Loop struct {
	mu     sync.Mutex
	active bool
	quotes []string
	index  int

	cache *Cache
	synth Synthesizer
	sink  Sink

	onQuote func(index int, text string)
}

// NewLoop wires a playback loop. cache may be nil, in which case every
// play synthesizes.
func NewLoop(cache *Cache, synth Synthesizer, sink Sink) *Loop {
	return &Loop{cache: cache, synth: synth, sink: sink}
}

// OnQuote registers a callback invoked when a quote begins resolving,
// before audio plays. Used by the UI to display the current quote.
func (l *Loop) OnQuote(fn func(index int, text string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onQuote = fn
}

// Start activates the loop over quotes, which the caller pre-shuffles for
// variety. An empty list is a no-op. A single-quote list replays that
// quote indefinitely, which is intentional. Calling Start while active is
// a no-op.
func (l *Loop) Start(ctx context.Context, quotes []string) {
	l.mu.Lock()
	if l.active || len(quotes) == 0 {
		l.mu.Unlock()
		return
	}
	l.active = true
	l.quotes = quotes
	l.index = 0
	l.mu.Unlock()

	go l.playCurrent(ctx)
}

// Stop deactivates the loop and halts the sink, discarding any pending
// completion so nothing plays or schedules after it returns.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.active {
		l.mu.Unlock()
		return
	}
	l.active = false
	l.mu.Unlock()

	l.sink.Halt()
}

// Active reports whether the loop is running.
func (l *Loop) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Current returns the index and text of the quote currently resolving or
// playing.
func (l *Loop) Current() (int, string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.quotes) == 0 {
		return 0, ""
	}
	return l.index, l.quotes[l.index]
}

// playCurrent resolves and plays the quote at the current index, then
// reschedules itself from the sink's completion callback.
func (l *Loop) playCurrent(ctx context.Context) {
	l.mu.Lock()
	if !l.active {
		l.mu.Unlock()
		return
	}
	index := l.index
	text := l.quotes[index]
	notify := l.onQuote
	l.mu.Unlock()

	if notify != nil {
		notify(index, text)
	}

	if text == "" || text == LoadingPlaceholder {
		log.Warn("skipping invalid quote text", "index", index)
		l.advance(ctx)
		return
	}

	clip, err := l.resolve(ctx, text)
	if err != nil {
		// Skip past a quote we cannot voice rather than stalling the
		// loop forever.
		log.Error("failed to resolve quote audio", "index", index, "err", err)
		l.advance(ctx)
		return
	}

	// The flag check and Play share one lock hold: a Stop racing an
	// in-flight synthesis either takes the lock first, so the clip is
	// discarded here, or waits for Play to return and halts the clip it
	// just started. Sinks complete asynchronously, so holding the lock
	// across Play cannot deadlock with advance.
	l.mu.Lock()
	if !l.active {
		l.mu.Unlock()
		return
	}
	err = l.sink.Play(clip, func() { l.advance(ctx) })
	l.mu.Unlock()
	if err != nil {
		log.Error("failed to play quote audio", "index", index, "err", err)
		l.advance(ctx)
	}
}

// resolve returns audio for text, cache first, writing through on a miss.
func (l *Loop) resolve(ctx context.Context, text string) ([]byte, error) {
	if l.cache != nil {
		clip, err := l.cache.Load(text)
		if err == nil {
			return clip, nil
		}
	}

	clip, err := l.synth.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.Store(text, clip); err != nil {
			// A failed cache write costs a resynthesis later, nothing
			// more.
			log.Warn("failed to cache quote audio", "err", err)
		}
	}
	return clip, nil
}

// advance moves to the next quote and recurses, unless the loop was
// deactivated while the current quote was resolving or playing.
func (l *Loop) advance(ctx context.Context) {
	l.mu.Lock()
	if !l.active {
		l.mu.Unlock()
		return
	}
	l.index = (l.index + 1) % len(l.quotes)
	l.mu.Unlock()

	// Reschedule on a fresh goroutine; a run of skipped quotes must not
	// grow the stack.
	go l.playCurrent(ctx)
}
