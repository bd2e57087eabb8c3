package bolt

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/nurtra/nurtra/store"
)

type quoteStore struct {
	db *bbolt.DB
}

// Save replaces the user's quote set. At most store.MaxQuotes entries
// are kept; Order records the generation position starting at 1.
func (s *quoteStore) Save(ctx context.Context, userID string, quotes []string) error {
	if len(quotes) > store.MaxQuotes {
		quotes = quotes[:store.MaxQuotes]
	}
	now := time.Now()
	records := make([]store.MotivationalQuote, 0, len(quotes))
	for i, text := range quotes {
		records = append(records, store.MotivationalQuote{
			ID:        uuid.New().String(),
			Text:      text,
			Order:     i + 1,
			CreatedAt: now,
		})
	}
	return putBucketValue(ctx, s.db, bucketQuotes, userID, records)
}

// Fetch returns the quote set in a fresh random order on every call.
func (s *quoteStore) Fetch(ctx context.Context, userID string) ([]store.MotivationalQuote, error) {
	records, err := getBucketValue[[]store.MotivationalQuote](ctx, s.db, bucketQuotes, userID)
	if err != nil {
		return nil, err
	}
	quotes := *records
	rand.Shuffle(len(quotes), func(i, j int) {
		quotes[i], quotes[j] = quotes[j], quotes[i]
	})
	return quotes, nil
}
