package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goodtune/gametime/internal/storage"
	"github.com/redis/go-redis/v9"
)

type anchorStore struct {
	client *redis.Client
}

// Get returns the persisted session start timestamp in epoch milliseconds.
// A malformed value is treated as absent.
func (s *anchorStore) Get(ctx context.Context) (int64, error) {
	value, err := s.client.Get(ctx, keyAnchor).Result()
	if err == redis.Nil {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	startMS, parseErr := strconv.ParseInt(value, 10, 64)
	if parseErr != nil || startMS <= 0 {
		return 0, storage.ErrNotFound
	}
	return startMS, nil
}

func (s *anchorStore) Set(ctx context.Context, startMS int64) error {
	if startMS <= 0 {
		return fmt.Errorf("anchor timestamp must be positive, got %d", startMS)
	}
	return s.client.Set(ctx, keyAnchor, strconv.FormatInt(startMS, 10), 0).Err()
}

func (s *anchorStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, keyAnchor).Err()
}
