package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/goodtune/gametime/internal/ledger"
	"github.com/goodtune/gametime/internal/metrics"
	"github.com/goodtune/gametime/internal/storage"
	"github.com/rs/zerolog"
)

const (
	// DefaultTickInterval is the refresh cadence while a session is active.
	DefaultTickInterval = 100 * time.Millisecond

	// DefaultMaxSession caps a single session. Anything longer is treated
	// as accidental tracking (a session left running overnight) and
	// dropped without committing.
	DefaultMaxSession = 24 * time.Hour
)

// ErrNoSession is returned by Stop and Discard when no session is active.
var ErrNoSession = errors.New("session: no active session")

// State is the session state machine's state.
type State int

const (
	StateIdle State = iota
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// Snapshot is one observation of the machine, produced on each refresh tick.
type Snapshot struct {
	Active        bool
	ElapsedTenths int64
	AutoDiscarded bool
}

// Config holds machine configuration.
type Config struct {
	MaxSession time.Duration
}

// Machine tracks whether a session is active and derives elapsed time on
// demand from a persisted wall-clock anchor. Elapsed time is never carried
// as an incrementing counter, so missed ticks and process restarts cannot
// drift it.
type Machine struct {
	anchors   storage.AnchorStore
	ledger    *ledger.Ledger
	clk       clock.Clock
	maxTenths int64
	logger    zerolog.Logger

	mu      sync.Mutex
	active  bool
	startMS int64
}

// NewMachine creates a session state machine. Call Restore before use so a
// persisted anchor from a previous run is picked up.
func NewMachine(anchors storage.AnchorStore, ldg *ledger.Ledger, clk clock.Clock, cfg Config, logger zerolog.Logger) *Machine {
	if cfg.MaxSession <= 0 {
		cfg.MaxSession = DefaultMaxSession
	}

	return &Machine{
		anchors:   anchors,
		ledger:    ldg,
		clk:       clk,
		maxTenths: int64(cfg.MaxSession / (100 * time.Millisecond)),
		logger:    logger.With().Str("component", "session").Logger(),
	}
}

// Restore recovers a persisted anchor from a previous process run. An
// anchor already past the session cap is discarded without the machine ever
// becoming visibly active.
func (m *Machine) Restore(ctx context.Context) error {
	startMS, err := m.anchors.Get(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("recover session anchor: %w", err)
	}

	elapsed := m.tenthsSince(startMS)
	if elapsed > m.maxTenths {
		if err := m.anchors.Clear(ctx); err != nil {
			return fmt.Errorf("clear stale anchor: %w", err)
		}
		metrics.SessionsDiscarded.WithLabelValues(metrics.DiscardOverlong).Inc()
		m.logger.Warn().
			Int64("elapsed_tenths", elapsed).
			Msg("Discarded stale session anchor on startup")
		return nil
	}

	m.mu.Lock()
	m.active = true
	m.startMS = startMS
	m.mu.Unlock()
	metrics.SessionActive.Set(1)

	m.logger.Info().
		Int64("elapsed_tenths", elapsed).
		Msg("Recovered active session from persisted anchor")

	return nil
}

// Start begins a session, persisting the anchor immediately so a restart
// mid-session can recover it. Starting while already active is a no-op.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active {
		m.logger.Debug().Msg("Start ignored, session already active")
		return nil
	}

	startMS := m.clk.Now().UnixMilli()
	if err := m.anchors.Set(ctx, startMS); err != nil {
		return fmt.Errorf("persist session anchor: %w", err)
	}

	m.active = true
	m.startMS = startMS
	metrics.SessionsStarted.Inc()
	metrics.SessionActive.Set(1)

	m.logger.Info().Int64("start_ms", startMS).Msg("Session started")
	return nil
}

// Stop finishes the session and returns the committed duration in tenths.
// The commit happens only for 0 < elapsed <= the session cap; zero or
// negative elapsed (clock skew) and oversized sessions are silently
// absorbed and return zero. The anchor is cleared unconditionally.
func (m *Machine) Stop(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return 0, ErrNoSession
	}

	elapsed := m.tenthsSince(m.startMS)
	m.active = false
	m.startMS = 0
	metrics.SessionActive.Set(0)

	if err := m.anchors.Clear(ctx); err != nil {
		return 0, fmt.Errorf("clear session anchor: %w", err)
	}

	switch {
	case elapsed <= 0:
		metrics.SessionsDiscarded.WithLabelValues(metrics.DiscardClockSkew).Inc()
		m.logger.Warn().
			Int64("elapsed_tenths", elapsed).
			Msg("Session discarded, clock moved backwards")
		return 0, nil
	case elapsed > m.maxTenths:
		metrics.SessionsDiscarded.WithLabelValues(metrics.DiscardOverlong).Inc()
		m.logger.Warn().
			Int64("elapsed_tenths", elapsed).
			Msg("Session exceeded the cap, dropping without commit")
		return 0, nil
	}

	if err := m.ledger.Commit(ctx, elapsed); err != nil {
		return 0, err
	}
	metrics.SessionsCommitted.Inc()
	metrics.CommittedTenths.Add(float64(elapsed))

	m.logger.Info().Int64("elapsed_tenths", elapsed).Msg("Session committed")
	return elapsed, nil
}

// Discard abandons the session without committing, regardless of elapsed
// time.
func (m *Machine) Discard(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return ErrNoSession
	}

	elapsed := m.tenthsSince(m.startMS)
	m.active = false
	m.startMS = 0
	metrics.SessionActive.Set(0)

	if err := m.anchors.Clear(ctx); err != nil {
		return fmt.Errorf("clear session anchor: %w", err)
	}

	metrics.SessionsDiscarded.WithLabelValues(metrics.DiscardManual).Inc()
	m.logger.Info().Int64("elapsed_tenths", elapsed).Msg("Session discarded")
	return nil
}

// Poll recomputes elapsed time from the anchor and applies the auto-discard
// rule. The refresh loop calls this on every tick; it is the only place the
// rule is evaluated during an active session besides Stop itself.
func (m *Machine) Poll(ctx context.Context) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return Snapshot{}
	}

	elapsed := m.tenthsSince(m.startMS)
	if elapsed > m.maxTenths {
		m.active = false
		m.startMS = 0
		metrics.SessionActive.Set(0)

		if err := m.anchors.Clear(ctx); err != nil {
			m.logger.Error().Err(err).Msg("Failed to clear anchor after auto-discard")
		}

		metrics.SessionsDiscarded.WithLabelValues(metrics.DiscardOverlong).Inc()
		m.logger.Warn().
			Int64("elapsed_tenths", elapsed).
			Msg("Session exceeded the cap, auto-discarded")

		return Snapshot{AutoDiscarded: true}
	}

	return Snapshot{Active: true, ElapsedTenths: elapsed}
}

// State returns the current machine state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active {
		return StateActive
	}
	return StateIdle
}

// Elapsed returns the derived elapsed duration in tenths and whether a
// session is active.
func (m *Machine) Elapsed() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return 0, false
	}
	return m.tenthsSince(m.startMS), true
}

// tenthsSince converts the distance from startMS to now into tenths of a
// second, truncating partial tenths.
func (m *Machine) tenthsSince(startMS int64) int64 {
	return (m.clk.Now().UnixMilli() - startMS) / 100
}
