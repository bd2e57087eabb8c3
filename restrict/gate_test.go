package restrict_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/nurtra/nurtra/restrict"
)

type spyPlatform struct {
	mu      sync.Mutex
	applies []restrict.Selection
	clears  int
}

func (p *spyPlatform) Apply(sel restrict.Selection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applies = append(p.applies, sel)
}

func (p *spyPlatform) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clears++
}

func (p *spyPlatform) applyCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.applies)
}

func (p *spyPlatform) clearCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clears
}

type memSettings struct {
	mu        sync.Mutex
	sel       restrict.Selection
	hasSel    bool
	locked    bool
	loadErr   error
	lockedErr error
}

func (s *memSettings) LoadSelection() (restrict.Selection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return restrict.Selection{}, false, s.loadErr
	}
	return s.sel, s.hasSel, nil
}

func (s *memSettings) SaveSelection(sel restrict.Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = sel
	s.hasSel = true
	return nil
}

func (s *memSettings) Locked() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked, s.lockedErr
}

func (s *memSettings) SetLocked(locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = locked
	return nil
}

func (s *memSettings) isLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

func sel(apps ...string) restrict.Selection {
	return restrict.Selection{Applications: apps}
}

func TestAutoLockAppliesSelection(t *testing.T) {
	platform := &spyPlatform{}
	settings := &memSettings{sel: sel("instagram", "tiktok"), hasSel: true}
	gate := restrict.NewGate(platform, settings)

	gate.AutoLock()

	if platform.applyCount() != 1 {
		t.Fatalf("Apply called %d times, want 1", platform.applyCount())
	}
	if !settings.isLocked() {
		t.Error("lock flag not persisted")
	}
}

func TestAutoLockIsIdempotent(t *testing.T) {
	platform := &spyPlatform{}
	settings := &memSettings{sel: sel("instagram"), hasSel: true}
	gate := restrict.NewGate(platform, settings)

	gate.AutoLock()
	gate.AutoLock()
	gate.AutoLock()

	if platform.applyCount() != 1 {
		t.Errorf("Apply called %d times across repeated AutoLock, want 1", platform.applyCount())
	}
}

func TestAutoLockEmptySelectionIsNoop(t *testing.T) {
	platform := &spyPlatform{}
	settings := &memSettings{sel: restrict.Selection{}, hasSel: true}
	gate := restrict.NewGate(platform, settings)

	gate.AutoLock()

	if platform.applyCount() != 0 {
		t.Error("Apply called for empty selection")
	}
	if settings.isLocked() {
		t.Error("lock flag set for empty selection")
	}
}

func TestAutoLockMissingSelectionIsNoop(t *testing.T) {
	platform := &spyPlatform{}
	settings := &memSettings{}
	gate := restrict.NewGate(platform, settings)

	gate.AutoLock()

	if platform.applyCount() != 0 {
		t.Error("Apply called with no saved selection")
	}
}

func TestAutoLockLoadFailureIsNoop(t *testing.T) {
	platform := &spyPlatform{}
	settings := &memSettings{loadErr: errors.New("corrupt")}
	gate := restrict.NewGate(platform, settings)

	gate.AutoLock()

	if platform.applyCount() != 0 {
		t.Error("Apply called despite load failure")
	}
	if settings.isLocked() {
		t.Error("lock flag set despite load failure")
	}
}

func TestAutoUnlockAlwaysClears(t *testing.T) {
	platform := &spyPlatform{}
	settings := &memSettings{}
	gate := restrict.NewGate(platform, settings)

	// Unlock without a prior lock still clears the platform state.
	gate.AutoUnlock()
	if platform.clearCount() != 1 {
		t.Errorf("Clear called %d times, want 1", platform.clearCount())
	}

	settings.sel = sel("instagram")
	settings.hasSel = true
	gate.AutoLock()
	gate.AutoUnlock()

	if settings.isLocked() {
		t.Error("lock flag still set after AutoUnlock")
	}
	if platform.clearCount() != 2 {
		t.Errorf("Clear called %d times, want 2", platform.clearCount())
	}
}

func TestLockUnlockCycle(t *testing.T) {
	platform := &spyPlatform{}
	settings := &memSettings{sel: sel("instagram"), hasSel: true}
	gate := restrict.NewGate(platform, settings)

	gate.AutoLock()
	gate.AutoUnlock()
	gate.AutoLock()

	// A fresh lock after a full unlock re-applies.
	if platform.applyCount() != 2 {
		t.Errorf("Apply called %d times, want 2", platform.applyCount())
	}
}
