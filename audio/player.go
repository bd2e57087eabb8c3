// Package audio implements the speech.Sink on ebitengine/oto for
// cross-platform playback of raw PCM clips.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// PlayerConfig describes the PCM format clips arrive in.
type PlayerConfig struct {
	SampleRate int // 44100 or 48000 Hz only
	Channels   int // 1 = mono, 2 = stereo
	BitDepth   int // 16 bits per sample
}

// DefaultPlayerConfig matches the synthesis client's requested output
// format: 16-bit mono 44.1kHz.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: 44100,
		Channels:   1,
		BitDepth:   16,
	}
}

func validateConfig(cfg PlayerConfig) error {
	if cfg.SampleRate != 44100 && cfg.SampleRate != 48000 {
		return fmt.Errorf("sample rate must be 44100 or 48000 Hz, got %d", cfg.SampleRate)
	}
	if cfg.Channels != 1 && cfg.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", cfg.Channels)
	}
	if cfg.BitDepth != 16 {
		return fmt.Errorf("bit depth must be 16, got %d", cfg.BitDepth)
	}
	return nil
}

// Player plays one clip at a time through an oto context and delivers a
// one-shot completion callback per clip. Halt discards the pending
// callback, which is how a torn-down session guarantees no completion
// fires after exit.
type Player struct {
	context *oto.Context
	cfg     PlayerConfig

	mu      sync.Mutex
	player  *oto.Player
	data    []byte // kept alive for the duration of playback
	pending func()
	gen     uint64 // invalidates stale completion watchers
	closed  bool
}

// NewPlayer initializes the audio device. The oto context is created once
// and reused for every clip.
func NewPlayer(cfg PlayerConfig) (*Player, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	return &Player{context: ctx, cfg: cfg}, nil
}

// Play starts playback of clip and arranges for done to run exactly once
// when the clip finishes. Any clip already playing is halted first and
// its pending callback discarded.
func (p *Player) Play(clip []byte, done func()) error {
	if len(clip) == 0 {
		return errors.New("audio clip is empty")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errors.New("player is closed")
	}

	p.haltLocked()

	// Copy so the caller cannot mutate the buffer mid-play; the reference
	// also keeps the data alive for oto.
	data := make([]byte, len(clip))
	copy(data, clip)

	player := p.context.NewPlayer(bytes.NewReader(data))
	player.Play()

	p.player = player
	p.data = data
	p.pending = done
	p.gen++

	go p.watch(player, p.gen)
	return nil
}

// watch polls the oto player and fires the pending callback when the clip
// drains, unless a newer generation (Play or Halt) superseded it.
func (p *Player) watch(player *oto.Player, gen uint64) {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		p.mu.Lock()
		if p.gen != gen {
			// Superseded; the callback was discarded.
			p.mu.Unlock()
			return
		}
		if player.IsPlaying() {
			p.mu.Unlock()
			continue
		}
		done := p.pending
		p.pending = nil
		p.releaseLocked()
		p.mu.Unlock()

		if done != nil {
			done()
		}
		return
	}
}

// Halt force-stops playback and discards the pending completion callback.
// Safe to call when idle.
func (p *Player) Halt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.haltLocked()
}

func (p *Player) haltLocked() {
	p.pending = nil
	p.gen++
	p.releaseLocked()
}

func (p *Player) releaseLocked() {
	if p.player != nil {
		p.player.Pause()
		p.player.Close()
		p.player = nil
	}
	p.data = nil
}

// Playing reports whether a clip is currently audible.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil && p.player.IsPlaying()
}

// Close halts playback and releases the device.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.haltLocked()
	p.closed = true
	// oto v3 contexts have no Close; dropping the reference is the
	// documented teardown.
	p.context = nil
	return nil
}
