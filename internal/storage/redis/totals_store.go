package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

type totalsStore struct {
	client *redis.Client
}

// Commit runs the commit script so the day bucket and the overall total
// move together.
func (s *totalsStore) Commit(ctx context.Context, date string, tenths int64) error {
	if tenths <= 0 {
		return fmt.Errorf("commit requires a positive duration, got %d", tenths)
	}

	script := redis.NewScript(commitScript)
	keys := []string{keyDays, keyOverall}
	return script.Run(ctx, s.client, keys, date, tenths).Err()
}

func (s *totalsStore) DayTotal(ctx context.Context, date string) (int64, error) {
	value, err := s.client.HGet(ctx, keyDays, date).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return parseTenths(value), nil
}

func (s *totalsStore) DayTotals(ctx context.Context) (map[string]int64, error) {
	entries, err := s.client.HGetAll(ctx, keyDays).Result()
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(entries))
	for date, value := range entries {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			// Malformed entry: treated as absent.
			continue
		}
		totals[date] = n
	}
	return totals, nil
}

func (s *totalsStore) OverallTotal(ctx context.Context) (int64, error) {
	value, err := s.client.Get(ctx, keyOverall).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return parseTenths(value), nil
}

func (s *totalsStore) SetOverallTotal(ctx context.Context, tenths int64) error {
	if tenths < 0 {
		return fmt.Errorf("overall total cannot be negative, got %d", tenths)
	}
	return s.client.Set(ctx, keyOverall, strconv.FormatInt(tenths, 10), 0).Err()
}

// parseTenths decodes a decimal-string duration. Malformed or negative
// values are treated as absent and reset to zero.
func parseTenths(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
