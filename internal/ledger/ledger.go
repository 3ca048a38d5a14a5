package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/goodtune/gametime/internal/storage"
	"github.com/rs/zerolog"
)

// Ledger accumulates committed session durations into per-day buckets and a
// running overall total, and derives the daily/weekly/overall aggregates the
// presentation layer reads.
type Ledger struct {
	totals storage.TotalsStore
	clk    clock.Clock
	logger zerolog.Logger
}

// DayTotal is one day bucket of the week view. Absent days carry zero.
type DayTotal struct {
	Date   string
	Tenths int64
}

// Stats is a read-only snapshot of all derived values.
type Stats struct {
	Today          int64
	Yesterday      int64
	Week           [7]DayTotal
	WeekTotal      int64
	WeekAverage    int64
	Overall        int64
	OverallAverage int64
	TrackedDays    int
}

// New creates a ledger over the given totals store.
func New(totals storage.TotalsStore, clk clock.Clock, logger zerolog.Logger) *Ledger {
	return &Ledger{
		totals: totals,
		clk:    clk,
		logger: logger.With().Str("component", "ledger").Logger(),
	}
}

// Commit adds a finished session's duration to the current local date.
// A session that straddles midnight is attributed entirely to the date at
// the moment the stop is evaluated, never split.
func (l *Ledger) Commit(ctx context.Context, tenths int64) error {
	return l.CommitOn(ctx, l.clk.Now().Format(storage.DateFormat), tenths)
}

// CommitOn adds a duration to a specific date bucket and the overall total.
func (l *Ledger) CommitOn(ctx context.Context, date string, tenths int64) error {
	if tenths <= 0 {
		return fmt.Errorf("ledger: commit requires a positive duration, got %d", tenths)
	}
	if err := l.totals.Commit(ctx, date, tenths); err != nil {
		return fmt.Errorf("commit %d tenths to %s: %w", tenths, date, err)
	}

	l.logger.Debug().
		Str("date", date).
		Int64("tenths", tenths).
		Msg("Committed session duration")

	return nil
}

// Today returns the accumulated total for the current local date.
func (l *Ledger) Today(ctx context.Context) (int64, error) {
	return l.totals.DayTotal(ctx, l.dateOffset(0))
}

// Yesterday returns the accumulated total for the previous local date.
func (l *Ledger) Yesterday(ctx context.Context) (int64, error) {
	return l.totals.DayTotal(ctx, l.dateOffset(-1))
}

// Week returns the seven day buckets of the Monday-start week containing
// now, in calendar order. Days without a recorded entry carry zero.
func (l *Ledger) Week(ctx context.Context) ([7]DayTotal, error) {
	var week [7]DayTotal
	start := weekStart(l.clk.Now())
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format(storage.DateFormat)
		tenths, err := l.totals.DayTotal(ctx, date)
		if err != nil {
			return week, fmt.Errorf("week total for %s: %w", date, err)
		}
		week[i] = DayTotal{Date: date, Tenths: tenths}
	}
	return week, nil
}

// WeekTotal returns the sum over the current Monday-start week.
func (l *Ledger) WeekTotal(ctx context.Context) (int64, error) {
	week, err := l.Week(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, day := range week {
		total += day.Tenths
	}
	return total, nil
}

// WeekAverage returns the week total divided by seven, regardless of how
// many of those days have entries.
func (l *Ledger) WeekAverage(ctx context.Context) (int64, error) {
	total, err := l.WeekTotal(ctx)
	if err != nil {
		return 0, err
	}
	return total / 7, nil
}

// OverallTotal returns the all-time committed total.
func (l *Ledger) OverallTotal(ctx context.Context) (int64, error) {
	return l.totals.OverallTotal(ctx)
}

// OverallAverage returns the overall total divided by the number of
// distinct dates with a recorded entry, or zero when nothing is recorded.
func (l *Ledger) OverallAverage(ctx context.Context) (int64, error) {
	days, err := l.totals.DayTotals(ctx)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}
	overall, err := l.totals.OverallTotal(ctx)
	if err != nil {
		return 0, err
	}
	return overall / int64(len(days)), nil
}

// Stats assembles one snapshot of every derived value.
func (l *Ledger) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.Today, err = l.Today(ctx); err != nil {
		return nil, err
	}
	if stats.Yesterday, err = l.Yesterday(ctx); err != nil {
		return nil, err
	}
	if stats.Week, err = l.Week(ctx); err != nil {
		return nil, err
	}
	for _, day := range stats.Week {
		stats.WeekTotal += day.Tenths
	}
	stats.WeekAverage = stats.WeekTotal / 7

	days, err := l.totals.DayTotals(ctx)
	if err != nil {
		return nil, err
	}
	stats.TrackedDays = len(days)

	if stats.Overall, err = l.totals.OverallTotal(ctx); err != nil {
		return nil, err
	}
	if stats.TrackedDays > 0 {
		stats.OverallAverage = stats.Overall / int64(stats.TrackedDays)
	}

	return stats, nil
}

func (l *Ledger) dateOffset(days int) string {
	return l.clk.Now().AddDate(0, 0, days).Format(storage.DateFormat)
}

// weekStart returns midnight of the Monday of the week containing t.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
