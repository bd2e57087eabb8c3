// Package presence abstracts the live-activity side channel that mirrors
// an ongoing timer run outside the main UI. Platforms without the
// capability use the no-op implementation, selected at startup instead of
// scattering runtime feature checks.
package presence

import (
	"time"

	"github.com/charmbracelet/log"
)

// Signal is a notify-only side channel; implementations must never block
// the caller or surface errors.
type Signal interface {
	SessionStarted(start time.Time)
	SessionEnded()
}

// Noop is the implementation for platforms without a presence mechanism.
type Noop struct{}

func (Noop) SessionStarted(time.Time) {}
func (Noop) SessionEnded()            {}

// LogSignal mirrors session presence into the structured log, useful for
// headless deployments and debugging.
type LogSignal struct{}

func (LogSignal) SessionStarted(start time.Time) {
	log.Info("binge-free session started", "start", start)
}

func (LogSignal) SessionEnded() {
	log.Info("binge-free session ended")
}
