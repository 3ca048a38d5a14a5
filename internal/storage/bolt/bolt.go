package bolt

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goodtune/gametime/internal/storage"
	"go.etcd.io/bbolt"
)

const (
	bucketDayTotals = "day_totals"
	bucketMeta      = "meta"

	keyOverallTotal = "overall_total"
	keySessionStart = "session_start"
)

// Store implements the storage.Store interface using bbolt.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store.
func Open(path string) (*Store, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
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
			[]byte(bucketDayTotals),
			[]byte(bucketMeta),
		}

		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}

		return nil
	})
}

// Close closes the underlying store database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Totals returns the totals store.
func (s *Store) Totals() storage.TotalsStore { return &totalsStore{db: s.db} }

// Anchor returns the anchor store.
func (s *Store) Anchor() storage.AnchorStore { return &anchorStore{db: s.db} }

// parseTenths decodes a decimal-string duration value. Malformed or negative
// values are treated as absent: the entry resets to zero instead of failing
// the whole load.
func parseTenths(value []byte) (int64, bool) {
	if value == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func encodeTenths(n int64) []byte {
	return strconv.AppendInt(nil, n, 10)
}
