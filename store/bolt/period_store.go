package bolt

import (
	"bytes"
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/nurtra/nurtra/store"
)

type periodStore struct {
	db *bbolt.DB
}

// periodKey orders a user's periods by creation time within a shared
// bucket. The zero-padded nanosecond timestamp makes lexical order equal
// chronological order; the record ID breaks ties.
func periodKey(userID string, p store.BingeFreePeriod) string {
	return fmt.Sprintf("%s/%020d-%s", userID, p.CreatedAt.UnixNano(), p.ID)
}

func (s *periodStore) Append(ctx context.Context, userID string, period store.BingeFreePeriod) error {
	return putBucketValue(ctx, s.db, bucketPeriods, periodKey(userID, period), period)
}

// Recent returns up to limit periods, newest first. A non-positive limit
// returns everything.
func (s *periodStore) Recent(ctx context.Context, userID string, limit int) ([]store.BingeFreePeriod, error) {
	all := make([]store.BingeFreePeriod, 0)
	prefix := []byte(userID + "/")
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketPeriods))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var p store.BingeFreePeriod
			if err := unmarshal(v, &p); err != nil {
				return err
			}
			all = append(all, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Keys scan oldest first; flip to newest first.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
