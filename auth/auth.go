// Package auth provides the current-user identity the rest of the app
// keys its records by, plus the once-per-session checks that hang off a
// sign-in.
package auth

import (
	"context"
	"errors"

	"github.com/nurtra/nurtra/internal/memo"
	"github.com/nurtra/nurtra/store"
)

// ErrNotAuthenticated is returned by operations that require a signed-in
// user when there is none.
var ErrNotAuthenticated = errors.New("auth: not authenticated")

// Identity reports the signed-in user, if any.
type Identity interface {
	CurrentUserID() (string, bool)
}

// Static is an Identity fixed at construction, used for the local
// single-user deployment where the user ID comes from config.
type Static struct {
	UserID string
}

func (s Static) CurrentUserID() (string, bool) {
	return s.UserID, s.UserID != ""
}

// Session couples an identity with the per-login state derived from it.
// The first-binge-survey check runs at most once per session regardless
// of outcome; switching users invalidates it.
type Session struct {
	identity Identity
	profiles store.ProfileStore

	surveyNeeded *memo.Value[bool]
}

// NewSession builds a session around identity.
func NewSession(identity Identity, profiles store.ProfileStore) *Session {
	s := &Session{identity: identity, profiles: profiles}
	s.surveyNeeded = memo.New(s.checkSurveyNeeded)
	return s
}

// CurrentUserID exposes the underlying identity.
func (s *Session) CurrentUserID() (string, bool) {
	return s.identity.CurrentUserID()
}

// NeedsFirstBingeSurvey reports whether the user has yet to complete the
// first binge survey. The backing profile read is memoized.
func (s *Session) NeedsFirstBingeSurvey(ctx context.Context) (bool, error) {
	return s.surveyNeeded.Get(ctx)
}

func (s *Session) checkSurveyNeeded(ctx context.Context) (bool, error) {
	userID, ok := s.identity.CurrentUserID()
	if !ok {
		return false, ErrNotAuthenticated
	}
	profile, err := s.profiles.Fetch(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !profile.FirstBingeSurveyCompleted, nil
}

// Invalidate forgets per-session memoized state, for use on user switch.
func (s *Session) Invalidate() {
	s.surveyNeeded.Invalidate()
}
