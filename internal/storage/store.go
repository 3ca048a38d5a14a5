package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record is missing from storage.
var ErrNotFound = errors.New("storage: record not found")

// DateFormat is the calendar-date key layout used for day buckets.
// Dates are always the observer's local calendar date.
const DateFormat = "2006-01-02"

// Store represents the root storage interface.
type Store interface {
	Close() error
	Totals() TotalsStore
	Anchor() AnchorStore
}

// TotalsStore manages committed session totals.
//
// All durations are tenths of a second. Day buckets are keyed by local
// calendar date in DateFormat and only ever increase. Commit updates the
// day bucket and the overall total atomically: a reader never observes one
// updated without the other.
type TotalsStore interface {
	Commit(ctx context.Context, date string, tenths int64) error
	DayTotal(ctx context.Context, date string) (int64, error)
	DayTotals(ctx context.Context) (map[string]int64, error)
	OverallTotal(ctx context.Context) (int64, error)
	SetOverallTotal(ctx context.Context, tenths int64) error
}

// AnchorStore persists the wall-clock start timestamp of the running
// session, in milliseconds since epoch. Get returns ErrNotFound while no
// session is active. Elapsed time is always recomputed from the anchor,
// never carried as a running counter, so a restart mid-session can recover.
type AnchorStore interface {
	Get(ctx context.Context) (int64, error)
	Set(ctx context.Context, startMS int64) error
	Clear(ctx context.Context) error
}
