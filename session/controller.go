// Package session orchestrates a craving-intervention session: locking
// the configured app restriction, looping spoken motivational quotes,
// and resolving the session as relapsed or overcome.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nurtra/nurtra/auth"
	"github.com/nurtra/nurtra/paywall"
	"github.com/nurtra/nurtra/restrict"
	"github.com/nurtra/nurtra/speech"
	"github.com/nurtra/nurtra/store"
	"github.com/nurtra/nurtra/timer"
)

// ErrSessionActive is returned by Enter when a session is already live.
var ErrSessionActive = errors.New("session: already active")

// Controller drives one craving session at a time. The active flag is
// the session's cancellation token: every asynchronous continuation
// (quote fetch, playback completion) re-checks it before acting, so an
// exited session cannot lock apps or start audio behind the user's back.
type Controller struct {
	mu     sync.Mutex
	active bool

	identity auth.Identity
	quotes   store.QuoteStore
	profiles store.ProfileStore
	timer    *timer.Controller
	loop     *speech.Loop
	gate     *restrict.Gate
	paywall  *paywall.Presenter
}

// Config carries the session controller's collaborators. Paywall is
// optional.
type Config struct {
	Identity auth.Identity
	Quotes   store.QuoteStore
	Profiles store.ProfileStore
	Timer    *timer.Controller
	Loop     *speech.Loop
	Gate     *restrict.Gate
	Paywall  *paywall.Presenter
}

// NewController wires a craving session controller.
func NewController(cfg Config) *Controller {
	return &Controller{
		identity: cfg.Identity,
		quotes:   cfg.Quotes,
		profiles: cfg.Profiles,
		timer:    cfg.Timer,
		loop:     cfg.Loop,
		gate:     cfg.Gate,
		paywall:  cfg.Paywall,
	}
}

// Active reports whether a session is in progress.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Enter begins a craving session: the restriction locks immediately,
// then the quote set is fetched off the calling goroutine and playback
// starts once it arrives, unless the session ended in the meantime.
func (c *Controller) Enter(ctx context.Context) error {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return ErrSessionActive
	}
	c.active = true
	c.mu.Unlock()

	log.Info("craving session started")
	c.gate.AutoLock()

	go c.fetchAndPlay(ctx)
	return nil
}

// fetchAndPlay loads the user's quotes and starts the playback loop. A
// fetch that completes after the session exits is discarded.
func (c *Controller) fetchAndPlay(ctx context.Context) {
	userID, ok := c.identity.CurrentUserID()
	if !ok {
		log.Warn("no authenticated user, session runs without quotes")
		return
	}

	records, err := c.quotes.Fetch(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to fetch quotes", "err", err)
		}
		return
	}
	texts := make([]string, 0, len(records))
	for _, q := range records {
		texts = append(texts, q.Text)
	}
	if len(texts) == 0 {
		return
	}

	// The flag check and Start share one lock hold, so an exit cannot
	// complete in between and leave an orphaned loop playing with no
	// session left to stop it.
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	c.loop.Start(ctx, texts)
}

// ExitRelapsed ends the session as a relapse: playback and the
// restriction tear down first, then the running binge-free timer stops
// and its period is logged.
func (c *Controller) ExitRelapsed(ctx context.Context) {
	if !c.exit() {
		return
	}
	log.Info("craving session ended", "outcome", "relapsed")

	if c.timer != nil && c.timer.State() == timer.Running {
		if err := c.timer.StopAndLogPeriod(ctx); err != nil {
			log.Error("failed to stop timer", "err", err)
		}
	}
}

// ExitOvercame ends the session as overcome: the timer keeps running,
// the overcome counter increments, and the upgrade prompt may appear.
func (c *Controller) ExitOvercame(ctx context.Context) {
	if !c.exit() {
		return
	}
	log.Info("craving session ended", "outcome", "overcame")

	go func() {
		userID, ok := c.identity.CurrentUserID()
		if !ok {
			return
		}
		count, err := c.profiles.IncrementOvercomeCount(ctx, userID)
		if err != nil {
			log.Error("failed to increment overcome count", "err", err)
			return
		}
		log.Info("craving overcome", "total", count)
	}()

	if c.paywall != nil {
		c.paywall.MaybePresent(ctx)
	}
}

// Abandon tears the session down without recording an outcome, for when
// the surrounding UI is dismissed rather than resolved.
func (c *Controller) Abandon() {
	if c.exit() {
		log.Info("craving session ended", "outcome", "abandoned")
	}
}

// exit flips the session inactive, stops playback, and unlocks apps.
// Returns false when no session was active. The order matters: the flag
// clears before the loop stops so a completion racing the stop finds the
// session already inactive.
func (c *Controller) exit() bool {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return false
	}
	c.active = false
	c.mu.Unlock()

	c.loop.Stop()
	c.gate.AutoUnlock()
	return true
}
