// Package store defines the persistence interfaces the controllers consume
// and the data types that cross them. Implementations live in
// subpackages (store/bolt for the embedded local backend).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/nurtra/nurtra/survey"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// TimerStore persists the single current-timer record per user. All
// operations are best-effort relative to the caller's local state: a
// failure is logged by the caller, never treated as fatal.
type TimerStore interface {
	SaveStart(ctx context.Context, userID string, start time.Time) error
	SaveStop(ctx context.Context, userID string, stop time.Time) error
	Clear(ctx context.Context, userID string) error
	Fetch(ctx context.Context, userID string) (*TimerRecord, error)
}

// QuoteStore persists a user's generated quote set.
type QuoteStore interface {
	Save(ctx context.Context, userID string, quotes []string) error
	// Fetch returns the quote set shuffled for variety on each call.
	Fetch(ctx context.Context, userID string) ([]MotivationalQuote, error)
}

// PeriodStore is the append-only log of completed binge-free periods.
type PeriodStore interface {
	Append(ctx context.Context, userID string, period BingeFreePeriod) error
	// Recent returns up to limit periods, most recently created first.
	Recent(ctx context.Context, userID string, limit int) ([]BingeFreePeriod, error)
}

// ProfileStore holds per-user profile fields and counters.
type ProfileStore interface {
	Fetch(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, userID string, p Profile) error
	IncrementOvercomeCount(ctx context.Context, userID string) (int, error)
	MarkOnboardingComplete(ctx context.Context, userID string) error
	MarkFirstBingeSurveyComplete(ctx context.Context, userID string) error
}

// SurveyStore persists survey submissions.
type SurveyStore interface {
	SaveOnboarding(ctx context.Context, userID string, r survey.OnboardingResponses) error
	SaveBinge(ctx context.Context, userID string, r survey.BingeResponses) error
}

// Store bundles the per-collection stores a full backend provides.
type Store interface {
	Timers() TimerStore
	Quotes() QuoteStore
	Periods() PeriodStore
	Profiles() ProfileStore
	Surveys() SurveyStore
	Close() error
}
