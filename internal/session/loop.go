package session

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// Loop drives the periodic refresh while a session is active. Each tick
// re-derives elapsed time from the anchor via Machine.Poll and hands the
// snapshot to the OnTick callback. The loop ends on its own as soon as the
// machine leaves the active state for any reason; no tick fires while idle.
type Loop struct {
	machine  *Machine
	clk      clock.Clock
	interval time.Duration
	onTick   func(Snapshot)
	logger   zerolog.Logger

	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// NewLoop creates a refresh loop over the machine. onTick may be nil.
func NewLoop(machine *Machine, clk clock.Clock, interval time.Duration, onTick func(Snapshot), logger zerolog.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	return &Loop{
		machine:  machine,
		clk:      clk,
		interval: interval,
		onTick:   onTick,
		logger:   logger.With().Str("component", "refresh-loop").Logger(),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins ticking in the background.
func (l *Loop) Start() {
	go l.run()
	l.logger.Debug().Dur("interval", l.interval).Msg("Refresh loop started")
}

// Stop ends the loop. Safe to call more than once; pair with Done to wait
// for the final tick to finish.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopChan) })
}

// Done is closed once the loop has fully exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run() {
	defer close(l.done)

	ticker := l.clk.Ticker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			snap := l.machine.Poll(context.Background())
			if l.onTick != nil {
				l.onTick(snap)
			}
			if !snap.Active {
				// The machine left the active state; ticking stops here.
				l.logger.Debug().
					Bool("auto_discarded", snap.AutoDiscarded).
					Msg("Refresh loop stopped")
				return
			}
		}
	}
}
