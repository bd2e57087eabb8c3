package bolt

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/nurtra/nurtra/store"
)

type timerStore struct {
	db *bbolt.DB
}

func (s *timerStore) SaveStart(ctx context.Context, userID string, start time.Time) error {
	record := store.TimerRecord{
		StartTime: start,
		IsRunning: true,
		UpdatedAt: start,
	}
	return putBucketValue(ctx, s.db, bucketTimers, userID, record)
}

func (s *timerStore) SaveStop(ctx context.Context, userID string, stop time.Time) error {
	// Read-modify-write in one transaction so the start time survives.
	return s.db.Update(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b := tx.Bucket([]byte(bucketTimers))
		if b == nil {
			return fmt.Errorf("bucket missing: %s", bucketTimers)
		}
		value := b.Get([]byte(userID))
		if value == nil {
			return store.ErrNotFound
		}
		var record store.TimerRecord
		if err := unmarshal(value, &record); err != nil {
			return err
		}
		record.IsRunning = false
		record.StopTime = &stop
		record.UpdatedAt = stop
		data, err := marshal(record)
		if err != nil {
			return err
		}
		return b.Put([]byte(userID), data)
	})
}

func (s *timerStore) Clear(ctx context.Context, userID string) error {
	return deleteBucketValue(ctx, s.db, bucketTimers, userID)
}

func (s *timerStore) Fetch(ctx context.Context, userID string) (*store.TimerRecord, error) {
	return getBucketValue[store.TimerRecord](ctx, s.db, bucketTimers, userID)
}
