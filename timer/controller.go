// Package timer implements the binge-free session timer: a local
// high-frequency elapsed clock with durable start/stop state so a run
// survives process restarts.
package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nurtra/nurtra/presence"
	"github.com/nurtra/nurtra/store"
)

// State is the controller's lifecycle position.
type State int

const (
	// Idle means no timer has been started (or it was reset).
	Idle State = iota
	// Running means the timer is ticking.
	Running
	// Stopped means the timer was halted; elapsed holds the final value.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var (
	// ErrTimerRunning is returned by Start when a timer is already live.
	ErrTimerRunning = errors.New("timer: already running")
	// ErrTimerNotRunning is returned by the stop operations when there is
	// nothing to stop.
	ErrTimerNotRunning = errors.New("timer: not running")
	// ErrNotAuthenticated is returned when no user is available to own
	// the persisted record.
	ErrNotAuthenticated = errors.New("timer: no authenticated user")
)

// Identity supplies the user the persisted record belongs to.
type Identity interface {
	CurrentUserID() (string, bool)
}

// Controller owns the in-memory mirror of the durable TimerRecord and is
// the only writer to the timer store for its user. Local state updates
// optimistically; persistence failures are logged and never roll a local
// transition back.
type Controller struct {
	mu sync.Mutex

	clock    Clock
	ids      IDGenerator
	identity Identity
	timers   store.TimerStore
	periods  store.PeriodStore
	signal   presence.Signal

	ticker    *Ticker
	state     State
	startTime time.Time

	// elapsed is published by the tick goroutine; atomic so readers never
	// contend with the controller mutex.
	elapsed atomic.Int64

	onElapsed func(time.Duration)
}

// Config carries the controller's collaborators.
type Config struct {
	Clock        Clock
	IDs          IDGenerator
	Identity     Identity
	Timers       store.TimerStore
	Periods      store.PeriodStore
	Signal       presence.Signal
	TickInterval time.Duration
}

// NewController wires a session timer controller.
func NewController(cfg Config) *Controller {
	if cfg.Clock == nil {
		cfg.Clock = RealClock{}
	}
	if cfg.IDs == nil {
		cfg.IDs = UUIDGenerator{}
	}
	if cfg.Signal == nil {
		cfg.Signal = presence.Noop{}
	}
	c := &Controller{
		clock:    cfg.Clock,
		ids:      cfg.IDs,
		identity: cfg.Identity,
		timers:   cfg.Timers,
		periods:  cfg.Periods,
		signal:   cfg.Signal,
		state:    Idle,
	}
	c.ticker = NewTicker(cfg.TickInterval, cfg.Clock, c.publishElapsed)
	return c
}

// OnElapsed registers a callback invoked from the tick goroutine on every
// published elapsed update.
func (c *Controller) OnElapsed(fn func(time.Duration)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onElapsed = fn
}

func (c *Controller) publishElapsed(d time.Duration) {
	c.elapsed.Store(int64(d))
	c.mu.Lock()
	fn := c.onElapsed
	c.mu.Unlock()
	if fn != nil {
		fn(d)
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Elapsed returns the last published elapsed duration.
func (c *Controller) Elapsed() time.Duration {
	return time.Duration(c.elapsed.Load())
}

// StartTime returns the start instant of the current run, zero when idle.
func (c *Controller) StartTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startTime
}

// Start begins a new timer run. The local tick starts immediately; the
// durable start record is written on a detached goroutine.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state == Running {
		c.mu.Unlock()
		return ErrTimerRunning
	}
	now := c.clock.Now()
	c.state = Running
	c.startTime = now
	c.elapsed.Store(0)
	c.mu.Unlock()

	c.ticker.Start(now)
	c.signal.SessionStarted(now)

	go c.persistStart(ctx, now)
	return nil
}

func (c *Controller) persistStart(ctx context.Context, start time.Time) {
	userID, ok := c.identity.CurrentUserID()
	if !ok {
		log.Warn("timer start not persisted", "err", ErrNotAuthenticated)
		return
	}
	if err := c.timers.SaveStart(ctx, userID, start); err != nil {
		log.Error("failed to persist timer start", "err", err)
	}
}

// StopAndLogPeriod halts the timer and appends a BingeFreePeriod covering
// the run. The local tick is stopped synchronously before the duration is
// computed, so the logged duration is exactly endTime minus startTime
// regardless of tick granularity.
func (c *Controller) StopAndLogPeriod(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Running {
		c.mu.Unlock()
		return ErrTimerNotRunning
	}
	start := c.startTime
	c.mu.Unlock()

	// Halt the tick first; after this no elapsed update can land.
	c.ticker.Stop()

	end := c.clock.Now()
	duration := end.Sub(start)

	c.mu.Lock()
	c.state = Stopped
	c.elapsed.Store(int64(duration))
	c.mu.Unlock()

	c.signal.SessionEnded()

	go c.persistStopAndPeriod(ctx, start, end, duration)
	return nil
}

func (c *Controller) persistStopAndPeriod(ctx context.Context, start, end time.Time, duration time.Duration) {
	userID, ok := c.identity.CurrentUserID()
	if !ok {
		log.Warn("timer stop not persisted", "err", ErrNotAuthenticated)
		return
	}
	if err := c.timers.SaveStop(ctx, userID, end); err != nil {
		log.Error("failed to persist timer stop", "err", err)
	}
	period := store.BingeFreePeriod{
		ID:        c.ids.New(),
		StartTime: start,
		EndTime:   end,
		Duration:  duration,
		CreatedAt: c.clock.Now(),
	}
	if err := c.periods.Append(ctx, userID, period); err != nil {
		log.Error("failed to log binge-free period", "err", err)
	}
}

// Stop halts the timer without logging a period. Same halt-first ordering
// as StopAndLogPeriod.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Running {
		c.mu.Unlock()
		return ErrTimerNotRunning
	}
	start := c.startTime
	c.mu.Unlock()

	c.ticker.Stop()

	end := c.clock.Now()

	c.mu.Lock()
	c.state = Stopped
	c.elapsed.Store(int64(end.Sub(start)))
	c.mu.Unlock()

	c.signal.SessionEnded()

	go func() {
		userID, ok := c.identity.CurrentUserID()
		if !ok {
			return
		}
		if err := c.timers.SaveStop(ctx, userID, end); err != nil {
			log.Error("failed to persist timer stop", "err", err)
		}
	}()
	return nil
}

// Reset returns the controller to Idle and clears the durable record.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	running := c.state == Running
	c.mu.Unlock()
	if running {
		if err := c.Stop(ctx); err != nil && !errors.Is(err, ErrTimerNotRunning) {
			return err
		}
	}

	c.mu.Lock()
	c.state = Idle
	c.startTime = time.Time{}
	c.elapsed.Store(0)
	c.mu.Unlock()

	go func() {
		userID, ok := c.identity.CurrentUserID()
		if !ok {
			return
		}
		if err := c.timers.Clear(ctx, userID); err != nil {
			log.Error("failed to clear timer record", "err", err)
		}
	}()
	return nil
}

// FetchAndResume restores the timer from the durable record on process
// start. A running record resumes live ticking from its start instant; a
// stopped record freezes elapsed at stopTime minus startTime, falling
// back to now when the stop time is missing.
func (c *Controller) FetchAndResume(ctx context.Context) error {
	userID, ok := c.identity.CurrentUserID()
	if !ok {
		return ErrNotAuthenticated
	}
	rec, err := c.timers.Fetch(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		log.Error("failed to fetch timer record", "err", err)
		return err
	}
	if rec == nil {
		return nil
	}

	// Invalidate any live tick before resuming so two tickers can never
	// run concurrently.
	c.ticker.Stop()

	c.mu.Lock()
	c.startTime = rec.StartTime
	if rec.IsRunning {
		c.state = Running
		c.elapsed.Store(int64(c.clock.Now().Sub(rec.StartTime)))
		c.mu.Unlock()
		c.ticker.Start(rec.StartTime)
		c.signal.SessionStarted(rec.StartTime)
		return nil
	}

	c.state = Stopped
	if rec.StopTime != nil {
		c.elapsed.Store(int64(rec.StopTime.Sub(rec.StartTime)))
	} else {
		c.elapsed.Store(int64(c.clock.Now().Sub(rec.StartTime)))
	}
	c.mu.Unlock()
	return nil
}

// FormatElapsed renders a duration the way the timer display shows it:
// MM:SS.CC below one hour, HH:MM:SS.CC above.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	centis := int(d%time.Second) / int(10*time.Millisecond)
	hours := total / 3600
	minutes := total / 60 % 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%02d", hours, minutes, seconds, centis)
	}
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis)
}
