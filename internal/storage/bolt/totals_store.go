package bolt

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

type totalsStore struct {
	db *bbolt.DB
}

// Commit increments the day bucket and the overall total in one update
// transaction, so a reader never observes one without the other.
func (s *totalsStore) Commit(ctx context.Context, date string, tenths int64) error {
	if tenths <= 0 {
		return fmt.Errorf("commit requires a positive duration, got %d", tenths)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		days := tx.Bucket([]byte(bucketDayTotals))
		if days == nil {
			return fmt.Errorf("day totals bucket missing")
		}
		current, _ := parseTenths(days.Get([]byte(date)))
		if err := days.Put([]byte(date), encodeTenths(current+tenths)); err != nil {
			return err
		}

		meta := tx.Bucket([]byte(bucketMeta))
		if meta == nil {
			return fmt.Errorf("meta bucket missing")
		}
		overall, _ := parseTenths(meta.Get([]byte(keyOverallTotal)))
		return meta.Put([]byte(keyOverallTotal), encodeTenths(overall+tenths))
	})
}

func (s *totalsStore) DayTotal(ctx context.Context, date string) (int64, error) {
	var total int64
	err := s.db.View(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b := tx.Bucket([]byte(bucketDayTotals))
		if b == nil {
			return nil
		}
		total, _ = parseTenths(b.Get([]byte(date)))
		return nil
	})
	return total, err
}

func (s *totalsStore) DayTotals(ctx context.Context) (map[string]int64, error) {
	totals := make(map[string]int64)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketDayTotals))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if tenths, ok := parseTenths(v); ok {
				totals[string(k)] = tenths
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (s *totalsStore) OverallTotal(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.View(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b := tx.Bucket([]byte(bucketMeta))
		if b == nil {
			return nil
		}
		total, _ = parseTenths(b.Get([]byte(keyOverallTotal)))
		return nil
	})
	return total, err
}

func (s *totalsStore) SetOverallTotal(ctx context.Context, tenths int64) error {
	if tenths < 0 {
		return fmt.Errorf("overall total cannot be negative, got %d", tenths)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b := tx.Bucket([]byte(bucketMeta))
		if b == nil {
			return fmt.Errorf("meta bucket missing")
		}
		return b.Put([]byte(keyOverallTotal), encodeTenths(tenths))
	})
}
