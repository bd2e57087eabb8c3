// Package bolt implements the store interfaces on an embedded bbolt
// database. One file on disk, one bucket per collection, JSON values.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/nurtra/nurtra/restrict"
	"github.com/nurtra/nurtra/store"
)

const (
	bucketTimers      = "timers"
	bucketQuotes      = "quotes"
	bucketPeriods     = "periods"
	bucketProfiles    = "profiles"
	bucketSurveys     = "surveys"
	bucketRestriction = "restriction"
)

// Store is the bbolt-backed implementation of store.Store.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the database at path and ensures all
// buckets exist.
func Open(path string) (*Store, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{
			[]byte(bucketTimers),
			[]byte(bucketQuotes),
			[]byte(bucketPeriods),
			[]byte(bucketProfiles),
			[]byte(bucketSurveys),
			[]byte(bucketRestriction),
		}
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Timers returns the timer record store.
func (s *Store) Timers() store.TimerStore { return &timerStore{db: s.db} }

// Quotes returns the quote store.
func (s *Store) Quotes() store.QuoteStore { return &quoteStore{db: s.db} }

// Periods returns the binge-free period log.
func (s *Store) Periods() store.PeriodStore { return &periodStore{db: s.db} }

// Profiles returns the profile store.
func (s *Store) Profiles() store.ProfileStore { return &profileStore{db: s.db} }

// Surveys returns the survey store.
func (s *Store) Surveys() store.SurveyStore { return &surveyStore{db: s.db} }

// Restriction returns the app-restriction settings store.
func (s *Store) Restriction() restrict.SettingsStore { return &restrictionStore{db: s.db} }

func marshal(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return data, nil
}

func unmarshal(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal value: %w", err)
	}
	return nil
}

func getBucketValue[T any](ctx context.Context, db *bbolt.DB, bucket string, key string) (*T, error) {
	var item *T
	err := db.View(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return store.ErrNotFound
		}
		value := b.Get([]byte(key))
		if value == nil {
			return store.ErrNotFound
		}
		var result T
		if err := unmarshal(value, &result); err != nil {
			return err
		}
		item = &result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func putBucketValue(ctx context.Context, db *bbolt.DB, bucket string, key string, value any) error {
	data, err := marshal(value)
	if err != nil {
		return err
	}
	return db.Update(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("bucket missing: %s", bucket)
		}
		return b.Put([]byte(key), data)
	})
}

func deleteBucketValue(ctx context.Context, db *bbolt.DB, bucket string, key string) error {
	return db.Update(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("bucket missing: %s", bucket)
		}
		return b.Delete([]byte(key))
	})
}
