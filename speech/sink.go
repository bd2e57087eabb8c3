package speech

import "context"

// Sink plays one audio clip at a time and notifies completion.
//
// Play starts playback and arranges for done to be invoked exactly once
// when the clip finishes naturally, always from a separate goroutine and
// never before Play returns. Starting a new clip replaces any current
// one. Halt force-stops playback and discards the pending completion
// notification: after Halt returns, no done callback registered before
// the call will fire. That guarantee is what lets a session tear down
// while a clip is mid-play without the loop rescheduling behind its
// back.
type Sink interface {
	Play(clip []byte, done func()) error
	Halt()
}

// Synthesizer converts text into an audio clip; it is the narrow view of
// Client the playback loop needs, and what tests fake.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
