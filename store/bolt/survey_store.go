package bolt

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/nurtra/nurtra/survey"
)

type surveyStore struct {
	db *bbolt.DB
}

// Onboarding responses are one-per-user; binge survey submissions
// accumulate, keyed by submission time.
func (s *surveyStore) SaveOnboarding(ctx context.Context, userID string, r survey.OnboardingResponses) error {
	return putBucketValue(ctx, s.db, bucketSurveys, userID+"/onboarding", r)
}

func (s *surveyStore) SaveBinge(ctx context.Context, userID string, r survey.BingeResponses) error {
	at := r.SubmittedAt
	if at.IsZero() {
		at = time.Now()
		r.SubmittedAt = at
	}
	key := fmt.Sprintf("%s/binge/%020d", userID, at.UnixNano())
	return putBucketValue(ctx, s.db, bucketSurveys, key, r)
}
