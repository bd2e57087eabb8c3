package store

import "time"

// MotivationalQuote is one personalized quote in a user's quote set.
// Quotes are immutable once generated; Order is the generation position,
// display order is shuffled per session.
type MotivationalQuote struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

// TimerRecord is the single durable "current timer" record for a user.
// It is overwritten in place, not appended. IsRunning true implies
// StopTime nil.
type TimerRecord struct {
	StartTime time.Time  `json:"startTime"`
	IsRunning bool       `json:"isRunning"`
	StopTime  *time.Time `json:"stopTime,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// BingeFreePeriod is an immutable record of one completed stretch of
// tracked abstinence.
type BingeFreePeriod struct {
	ID        string        `json:"id"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Profile holds the per-user fields the rest of the app reads.
type Profile struct {
	Name                      string    `json:"name,omitempty"`
	Email                     string    `json:"email,omitempty"`
	OvercomeCount             int       `json:"overcomeCount"`
	OnboardingCompleted       bool      `json:"onboardingCompleted"`
	FirstBingeSurveyCompleted bool      `json:"firstBingeSurveyCompleted"`
	UpdatedAt                 time.Time `json:"updatedAt"`
}

// MaxQuotes is the size of a user's quote set.
const MaxQuotes = 30
