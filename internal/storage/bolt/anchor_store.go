package bolt

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goodtune/gametime/internal/storage"
	"go.etcd.io/bbolt"
)

type anchorStore struct {
	db *bbolt.DB
}

// Get returns the persisted session start timestamp in epoch milliseconds.
// A malformed value is treated as absent rather than surfaced as an error.
func (s *anchorStore) Get(ctx context.Context) (int64, error) {
	var startMS int64
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b := tx.Bucket([]byte(bucketMeta))
		if b == nil {
			return nil
		}
		value := b.Get([]byte(keySessionStart))
		if value == nil {
			return nil
		}
		n, err := strconv.ParseInt(string(value), 10, 64)
		if err != nil || n <= 0 {
			return nil
		}
		startMS = n
		found = true
		return nil
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, storage.ErrNotFound
	}
	return startMS, nil
}

func (s *anchorStore) Set(ctx context.Context, startMS int64) error {
	if startMS <= 0 {
		return fmt.Errorf("anchor timestamp must be positive, got %d", startMS)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b := tx.Bucket([]byte(bucketMeta))
		if b == nil {
			return fmt.Errorf("meta bucket missing")
		}
		return b.Put([]byte(keySessionStart), strconv.AppendInt(nil, startMS, 10))
	})
}

func (s *anchorStore) Clear(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b := tx.Bucket([]byte(bucketMeta))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(keySessionStart))
	})
}
