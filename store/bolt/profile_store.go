package bolt

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/nurtra/nurtra/store"
)

type profileStore struct {
	db *bbolt.DB
}

func (s *profileStore) Fetch(ctx context.Context, userID string) (*store.Profile, error) {
	return getBucketValue[store.Profile](ctx, s.db, bucketProfiles, userID)
}

func (s *profileStore) Upsert(ctx context.Context, userID string, p store.Profile) error {
	p.UpdatedAt = time.Now()
	return putBucketValue(ctx, s.db, bucketProfiles, userID, p)
}

// IncrementOvercomeCount bumps the overcome counter atomically and
// returns the new value. A missing profile starts from zero.
func (s *profileStore) IncrementOvercomeCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.mutate(ctx, userID, func(p *store.Profile) {
		p.OvercomeCount++
		count = p.OvercomeCount
	})
	return count, err
}

func (s *profileStore) MarkOnboardingComplete(ctx context.Context, userID string) error {
	return s.mutate(ctx, userID, func(p *store.Profile) {
		p.OnboardingCompleted = true
	})
}

func (s *profileStore) MarkFirstBingeSurveyComplete(ctx context.Context, userID string) error {
	return s.mutate(ctx, userID, func(p *store.Profile) {
		p.FirstBingeSurveyCompleted = true
	})
}

// mutate applies fn to the stored profile (zero value if absent) in one
// transaction.
func (s *profileStore) mutate(ctx context.Context, userID string, fn func(*store.Profile)) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b := tx.Bucket([]byte(bucketProfiles))
		if b == nil {
			return fmt.Errorf("bucket missing: %s", bucketProfiles)
		}
		var p store.Profile
		if value := b.Get([]byte(userID)); value != nil {
			if err := unmarshal(value, &p); err != nil {
				return err
			}
		}
		fn(&p)
		p.UpdatedAt = time.Now()
		data, err := marshal(p)
		if err != nil {
			return err
		}
		return b.Put([]byte(userID), data)
	})
}
