package speech_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nurtra/nurtra/speech"
)

// fakeSynth returns the text itself as the clip, with optional per-text
// failures.
type fakeSynth struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
}

func newFakeSynth() *fakeSynth {
	return &fakeSynth{calls: make(map[string]int), fail: make(map[string]bool)}
}

func (s *fakeSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[text]++
	if s.fail[text] {
		return nil, speech.ErrServerError
	}
	return []byte(text), nil
}

func (s *fakeSynth) callCount(text string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[text]
}

// manualSink records plays and lets the test fire completions by hand.
type manualSink struct {
	mu      sync.Mutex
	played  []string
	pending func()
	halts   int
}

func (s *manualSink) Play(clip []byte, done func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played = append(s.played, string(clip))
	s.pending = done
	return nil
}

func (s *manualSink) Halt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.halts++
}

// complete fires the pending completion the way a real sink does when a
// clip drains.
func (s *manualSink) complete() {
	s.mu.Lock()
	done := s.pending
	s.pending = nil
	s.mu.Unlock()
	if done != nil {
		done()
	}
}

func (s *manualSink) plays() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.played))
	copy(out, s.played)
	return out
}

func (s *manualSink) haltCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.halts
}

func waitForPlays(t *testing.T, sink *manualSink, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for len(sink.plays()) < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d plays, got %v", n, sink.plays())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLoopAdvancesAndWraps(t *testing.T) {
	sink := &manualSink{}
	loop := speech.NewLoop(nil, newFakeSynth(), sink)

	loop.Start(context.Background(), []string{"a", "b", "c"})
	waitForPlays(t, sink, 1)
	sink.complete()
	waitForPlays(t, sink, 2)
	sink.complete()
	waitForPlays(t, sink, 3)
	sink.complete()
	// Past the end the loop wraps to the front.
	waitForPlays(t, sink, 4)
	loop.Stop()

	got := sink.plays()[:4]
	want := []string{"a", "b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("play order = %v, want %v", got, want)
		}
	}
}

func TestLoopSingleQuoteRepeats(t *testing.T) {
	sink := &manualSink{}
	loop := speech.NewLoop(nil, newFakeSynth(), sink)

	loop.Start(context.Background(), []string{"only"})
	waitForPlays(t, sink, 1)
	sink.complete()
	waitForPlays(t, sink, 2)
	loop.Stop()

	for _, p := range sink.plays()[:2] {
		if p != "only" {
			t.Errorf("played %q, want %q", p, "only")
		}
	}
}

func TestLoopEmptyListIsNoop(t *testing.T) {
	sink := &manualSink{}
	loop := speech.NewLoop(nil, newFakeSynth(), sink)

	loop.Start(context.Background(), nil)
	if loop.Active() {
		t.Error("loop active after Start with no quotes")
	}
	time.Sleep(10 * time.Millisecond)
	if len(sink.plays()) != 0 {
		t.Errorf("unexpected plays: %v", sink.plays())
	}
}

func TestLoopStartWhileActiveIsNoop(t *testing.T) {
	sink := &manualSink{}
	loop := speech.NewLoop(nil, newFakeSynth(), sink)

	loop.Start(context.Background(), []string{"a"})
	waitForPlays(t, sink, 1)
	loop.Start(context.Background(), []string{"x", "y"})
	defer loop.Stop()

	if _, text := loop.Current(); text != "a" {
		t.Errorf("current quote = %q, second Start was not a no-op", text)
	}
}

func TestLoopStopHaltsSink(t *testing.T) {
	sink := &manualSink{}
	loop := speech.NewLoop(nil, newFakeSynth(), sink)

	loop.Start(context.Background(), []string{"a", "b"})
	waitForPlays(t, sink, 1)
	loop.Stop()

	if loop.Active() {
		t.Error("loop still active after Stop")
	}
	if sink.haltCount() != 1 {
		t.Errorf("halt count = %d, want 1", sink.haltCount())
	}
}

// blockingSynth parks every Synthesize call until released, so tests can
// order Stop against an in-flight synthesis.
type blockingSynth struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	s.started <- struct{}{}
	<-s.release
	return []byte(text), nil
}

func TestLoopNoPlayAfterStopMidSynthesis(t *testing.T) {
	synth := &blockingSynth{started: make(chan struct{}, 1), release: make(chan struct{})}
	sink := &manualSink{}
	loop := speech.NewLoop(nil, synth, sink)

	loop.Start(context.Background(), []string{"a", "b"})
	<-synth.started

	// Stop lands while the first quote is still synthesizing; the clip
	// that eventually arrives must be discarded, not played.
	loop.Stop()
	close(synth.release)

	time.Sleep(20 * time.Millisecond)
	if n := len(sink.plays()); n != 0 {
		t.Errorf("got %d plays after Stop, want 0", n)
	}
}

func TestLoopCompletionAfterStopDoesNotReschedule(t *testing.T) {
	sink := &manualSink{}
	loop := speech.NewLoop(nil, newFakeSynth(), sink)

	loop.Start(context.Background(), []string{"a", "b"})
	waitForPlays(t, sink, 1)

	// Capture the completion as if it were already in flight when Stop
	// ran, then deliver it late.
	sink.mu.Lock()
	inFlight := sink.pending
	sink.mu.Unlock()

	loop.Stop()
	inFlight()

	time.Sleep(20 * time.Millisecond)
	if n := len(sink.plays()); n != 1 {
		t.Errorf("got %d plays, want 1: late completion rescheduled playback", n)
	}
}

func TestLoopSkipsFailedSynthesis(t *testing.T) {
	synth := newFakeSynth()
	synth.fail["bad"] = true
	sink := &manualSink{}
	loop := speech.NewLoop(nil, synth, sink)

	loop.Start(context.Background(), []string{"bad", "good"})
	waitForPlays(t, sink, 1)
	defer loop.Stop()

	if sink.plays()[0] != "good" {
		t.Errorf("first play = %q, want %q", sink.plays()[0], "good")
	}
	// Exactly one attempt for the failed quote: skip, don't retry.
	if n := synth.callCount("bad"); n != 1 {
		t.Errorf("synthesis attempts for failed quote = %d, want 1", n)
	}
}

func TestLoopSkipsSentinelAndEmptyText(t *testing.T) {
	synth := newFakeSynth()
	sink := &manualSink{}
	loop := speech.NewLoop(nil, synth, sink)

	loop.Start(context.Background(), []string{"", speech.LoadingPlaceholder, "real"})
	waitForPlays(t, sink, 1)
	defer loop.Stop()

	if sink.plays()[0] != "real" {
		t.Errorf("first play = %q, want %q", sink.plays()[0], "real")
	}
	// The placeholder must never reach the synthesis API.
	if n := synth.callCount(speech.LoadingPlaceholder); n != 0 {
		t.Errorf("placeholder was synthesized %d times", n)
	}
}

func TestLoopWritesThroughCache(t *testing.T) {
	cache, err := speech.NewCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	synth := newFakeSynth()
	sink := &manualSink{}
	loop := speech.NewLoop(cache, synth, sink)

	loop.Start(context.Background(), []string{"a"})
	waitForPlays(t, sink, 1)
	sink.complete()
	waitForPlays(t, sink, 2)
	loop.Stop()

	// Second play of the same text comes from the cache.
	if n := synth.callCount("a"); n != 1 {
		t.Errorf("synthesis calls = %d, want 1", n)
	}
	if !cache.Has("a") {
		t.Error("clip not written through to cache")
	}
}

func TestLoopErrorsWhenEverySynthesisFails(t *testing.T) {
	synth := newFakeSynth()
	synth.fail["a"] = true
	synth.fail["b"] = true
	sink := &manualSink{}
	loop := speech.NewLoop(nil, synth, sink)

	loop.Start(context.Background(), []string{"a", "b"})
	// The loop keeps cycling without playing; stopping must still work.
	deadline := time.Now().Add(time.Second)
	for synth.callCount("a") < 2 {
		if time.Now().After(deadline) {
			t.Fatal("loop stalled instead of cycling past failures")
		}
		time.Sleep(time.Millisecond)
	}
	loop.Stop()

	if len(sink.plays()) != 0 {
		t.Errorf("unexpected plays: %v", sink.plays())
	}
}
