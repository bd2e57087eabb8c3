package bolt

import (
	"context"
	"encoding/json"
	"errors"

	"go.etcd.io/bbolt"

	"github.com/charmbracelet/log"

	"github.com/nurtra/nurtra/restrict"
	"github.com/nurtra/nurtra/store"
)

const (
	keySelection = "selection"
	keyLocked    = "locked"
)

// restrictionStore keeps the device-local app selection and lock flag.
// These are per-device settings, not per-user records, so the keys are
// fixed.
type restrictionStore struct {
	db *bbolt.DB
}

func (s *restrictionStore) LoadSelection() (restrict.Selection, bool, error) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketRestriction))
		if b == nil {
			return nil
		}
		if value := b.Get([]byte(keySelection)); value != nil {
			raw = append(raw, value...)
		}
		return nil
	})
	if err != nil {
		return restrict.Selection{}, false, err
	}
	if raw == nil {
		return restrict.Selection{}, false, nil
	}
	var sel restrict.Selection
	if err := json.Unmarshal(raw, &sel); err != nil {
		// Undecodable bytes are treated as no selection rather than a
		// hard failure.
		log.Warn("stored app selection is malformed, ignoring", "err", err)
		return restrict.Selection{}, false, nil
	}
	return sel, true, nil
}

func (s *restrictionStore) SaveSelection(sel restrict.Selection) error {
	return putBucketValue(context.Background(), s.db, bucketRestriction, keySelection, sel)
}

func (s *restrictionStore) Locked() (bool, error) {
	locked, err := getBucketValue[bool](context.Background(), s.db, bucketRestriction, keyLocked)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return *locked, nil
}

func (s *restrictionStore) SetLocked(locked bool) error {
	return putBucketValue(context.Background(), s.db, bucketRestriction, keyLocked, locked)
}
