package restrict

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Gate toggles enforcement of the saved selection around a craving
// session. Only the craving session controller calls it, and those calls
// are serialized, so the read-modify-write on the lock flag needs no
// transaction.
type Gate struct {
	mu       sync.Mutex
	platform Platform
	settings SettingsStore
}

// NewGate wires a restriction gate.
func NewGate(platform Platform, settings SettingsStore) *Gate {
	return &Gate{platform: platform, settings: settings}
}

// AutoLock enforces the saved selection if it exists and is non-empty.
// Idempotent: when the lock flag is already set nothing happens, so a
// second call never re-applies. An absent or malformed selection is a
// logged no-op, never an error to the caller.
func (g *Gate) AutoLock() {
	g.mu.Lock()
	defer g.mu.Unlock()

	locked, err := g.settings.Locked()
	if err != nil {
		log.Error("failed to read lock status", "err", err)
		return
	}
	if locked {
		log.Debug("apps already locked, no action needed")
		return
	}

	sel, ok, err := g.settings.LoadSelection()
	if err != nil {
		log.Error("failed to load app selection", "err", err)
		return
	}
	if !ok {
		log.Debug("no saved app selection found")
		return
	}
	if sel.IsEmpty() {
		log.Debug("no apps selected for blocking")
		return
	}

	g.platform.Apply(sel)
	if err := g.settings.SetLocked(true); err != nil {
		log.Error("failed to persist lock status", "err", err)
		return
	}
	log.Info("auto-locked apps",
		"apps", len(sel.Applications),
		"categories", len(sel.Categories),
		"domains", len(sel.Domains))
}

// AutoUnlock always clears the platform restriction and the lock flag,
// whether or not a lock was active. Safe to call repeatedly.
func (g *Gate) AutoUnlock() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.platform.Clear()
	if err := g.settings.SetLocked(false); err != nil {
		log.Error("failed to persist unlock status", "err", err)
		return
	}
	log.Info("auto-unlocked apps")
}
