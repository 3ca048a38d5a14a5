package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/goodtune/gametime/internal/ledger"
	"github.com/goodtune/gametime/internal/storage"
	"github.com/goodtune/gametime/internal/storage/bolt"
	"github.com/rs/zerolog"
)

type testFixture struct {
	store   *bolt.Store
	ledger  *ledger.Ledger
	machine *Machine
	mock    *clock.Mock
}

func newTestFixture(t *testing.T, cfg Config) *testFixture {
	t.Helper()

	store, err := bolt.Open(filepath.Join(t.TempDir(), "gametime.bolt"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	mock := clock.NewMock()
	mock.Set(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))

	logger := zerolog.Nop()
	ldg := ledger.New(store.Totals(), mock, logger)
	machine := NewMachine(store.Anchor(), ldg, mock, cfg, logger)

	return &testFixture{store: store, ledger: ldg, machine: machine, mock: mock}
}

func TestStopCommitsElapsed(t *testing.T) {
	f := newTestFixture(t, Config{})
	ctx := context.Background()

	if err := f.machine.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if f.machine.State() != StateActive {
		t.Fatal("expected machine to be active after start")
	}

	f.mock.Add(12345 * time.Millisecond)

	committed, err := f.machine.Stop(ctx)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if committed != 123 {
		t.Fatalf("expected 123 tenths committed, got %d", committed)
	}
	if f.machine.State() != StateIdle {
		t.Fatal("expected machine to be idle after stop")
	}

	day, err := f.store.Totals().DayTotal(ctx, "2024-01-10")
	if err != nil {
		t.Fatalf("day total: %v", err)
	}
	if day != 123 {
		t.Fatalf("expected day total 123, got %d", day)
	}

	overall, err := f.store.Totals().OverallTotal(ctx)
	if err != nil {
		t.Fatalf("overall total: %v", err)
	}
	if overall != 123 {
		t.Fatalf("expected overall total 123, got %d", overall)
	}
}

func TestStopImmediatelyCommitsNothing(t *testing.T) {
	f := newTestFixture(t, Config{})
	ctx := context.Background()

	if err := f.machine.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	committed, err := f.machine.Stop(ctx)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if committed != 0 {
		t.Fatalf("expected nothing committed, got %d", committed)
	}

	overall, _ := f.store.Totals().OverallTotal(ctx)
	if overall != 0 {
		t.Fatalf("expected overall total to stay 0, got %d", overall)
	}
	if _, err := f.store.Anchor().Get(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected anchor cleared after stop, got %v", err)
	}

	if _, err := f.machine.Stop(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession on second stop, got %v", err)
	}
}

func TestStopDropsOverlongSession(t *testing.T) {
	f := newTestFixture(t, Config{MaxSession: time.Second})
	ctx := context.Background()

	if err := f.machine.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.mock.Add(1100 * time.Millisecond)

	committed, err := f.machine.Stop(ctx)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if committed != 0 {
		t.Fatalf("expected oversized session to be dropped, got %d tenths", committed)
	}

	overall, _ := f.store.Totals().OverallTotal(ctx)
	if overall != 0 {
		t.Fatalf("expected overall total to stay 0, got %d", overall)
	}
	if _, err := f.store.Anchor().Get(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected anchor cleared, got %v", err)
	}
}

func TestPollAutoDiscardsPastCap(t *testing.T) {
	f := newTestFixture(t, Config{MaxSession: time.Second})
	ctx := context.Background()

	if err := f.machine.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	f.mock.Add(900 * time.Millisecond)
	snap := f.machine.Poll(ctx)
	if !snap.Active || snap.ElapsedTenths != 9 {
		t.Fatalf("expected active snapshot at 9 tenths, got %+v", snap)
	}

	f.mock.Add(300 * time.Millisecond)
	snap = f.machine.Poll(ctx)
	if !snap.AutoDiscarded {
		t.Fatalf("expected auto-discard past the cap, got %+v", snap)
	}
	if f.machine.State() != StateIdle {
		t.Fatal("expected machine idle after auto-discard")
	}
	if _, err := f.store.Anchor().Get(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected anchor cleared after auto-discard, got %v", err)
	}

	overall, _ := f.store.Totals().OverallTotal(ctx)
	if overall != 0 {
		t.Fatalf("expected nothing committed, got %d", overall)
	}
}

func TestRestoreResumesPersistedSession(t *testing.T) {
	f := newTestFixture(t, Config{})
	ctx := context.Background()

	startMS := f.mock.Now().UnixMilli() - 5000
	if err := f.store.Anchor().Set(ctx, startMS); err != nil {
		t.Fatalf("seed anchor: %v", err)
	}

	machine := NewMachine(f.store.Anchor(), f.ledger, f.mock, Config{}, zerolog.Nop())
	if err := machine.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}

	elapsed, active := machine.Elapsed()
	if !active {
		t.Fatal("expected restored machine to be active")
	}
	if elapsed != 50 {
		t.Fatalf("expected 50 tenths elapsed, got %d", elapsed)
	}
}

func TestRestoreDiscardsStaleAnchor(t *testing.T) {
	f := newTestFixture(t, Config{MaxSession: time.Second})
	ctx := context.Background()

	startMS := f.mock.Now().UnixMilli() - 2000
	if err := f.store.Anchor().Set(ctx, startMS); err != nil {
		t.Fatalf("seed anchor: %v", err)
	}

	machine := NewMachine(f.store.Anchor(), f.ledger, f.mock, Config{MaxSession: time.Second}, zerolog.Nop())
	if err := machine.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if machine.State() != StateIdle {
		t.Fatal("expected stale anchor to leave the machine idle")
	}
	if _, err := f.store.Anchor().Get(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected stale anchor cleared, got %v", err)
	}

	overall, _ := f.store.Totals().OverallTotal(ctx)
	if overall != 0 {
		t.Fatalf("expected nothing committed from a stale anchor, got %d", overall)
	}
}

func TestStartWhileActiveIsNoOp(t *testing.T) {
	f := newTestFixture(t, Config{})
	ctx := context.Background()

	if err := f.machine.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	anchorBefore, err := f.store.Anchor().Get(ctx)
	if err != nil {
		t.Fatalf("get anchor: %v", err)
	}

	f.mock.Add(time.Second)

	if err := f.machine.Start(ctx); err != nil {
		t.Fatalf("second start: %v", err)
	}

	anchorAfter, err := f.store.Anchor().Get(ctx)
	if err != nil {
		t.Fatalf("get anchor: %v", err)
	}
	if anchorAfter != anchorBefore {
		t.Fatalf("expected anchor unchanged, got %d then %d", anchorBefore, anchorAfter)
	}

	elapsed, _ := f.machine.Elapsed()
	if elapsed != 10 {
		t.Fatalf("expected 10 tenths elapsed from the original start, got %d", elapsed)
	}
}

func TestDiscardAbandonsWithoutCommit(t *testing.T) {
	f := newTestFixture(t, Config{})
	ctx := context.Background()

	if err := f.machine.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.mock.Add(5 * time.Second)

	if err := f.machine.Discard(ctx); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if f.machine.State() != StateIdle {
		t.Fatal("expected machine idle after discard")
	}
	if _, err := f.store.Anchor().Get(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected anchor cleared, got %v", err)
	}

	overall, _ := f.store.Totals().OverallTotal(ctx)
	if overall != 0 {
		t.Fatalf("expected nothing committed, got %d", overall)
	}

	if err := f.machine.Discard(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession on second discard, got %v", err)
	}
}

func TestMidnightStraddleGoesToStopDate(t *testing.T) {
	f := newTestFixture(t, Config{})
	ctx := context.Background()

	f.mock.Set(time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC))
	if err := f.machine.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	f.mock.Add(2 * time.Minute)

	committed, err := f.machine.Stop(ctx)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if committed != 1200 {
		t.Fatalf("expected 1200 tenths committed, got %d", committed)
	}

	before, _ := f.store.Totals().DayTotal(ctx, "2024-01-10")
	after, _ := f.store.Totals().DayTotal(ctx, "2024-01-11")
	if before != 0 {
		t.Fatalf("expected nothing on the start date, got %d", before)
	}
	if after != 1200 {
		t.Fatalf("expected the whole session on the stop date, got %d", after)
	}
}
