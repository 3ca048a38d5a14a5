package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goodtune/gametime/internal/ledger"
	"github.com/goodtune/gametime/internal/message"
	"github.com/goodtune/gametime/internal/metrics"
	"github.com/goodtune/gametime/internal/session"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Interactive tracking widget",
	Long: `Open the interactive widget: a live session clock refreshed ten
times a second, daily and weekly totals, and the occasional supportive
message. Keys: s start, x stop, d discard, q quit.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575"))

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 2)

	messageStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#F7DC6F"))

	helpStyle = lipgloss.NewStyle().
			Faint(true)
)

// programRef lets the refresh loop deliver snapshots into the running
// bubbletea program; the pointer is shared with the model copy the program
// holds.
type programRef struct {
	send func(tea.Msg)
}

type snapshotMsg session.Snapshot

type statsMsg *ledger.Stats

type errMsg struct{ err error }

type watchModel struct {
	app      *app
	selector *message.Selector
	ref      *programRef

	loop    *session.Loop
	snap    session.Snapshot
	stats   *ledger.Stats
	line    string
	lastMin int
	width   int
	err     error
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Metrics.Enabled {
		addr := fmt.Sprintf("%s:%d", a.cfg.Metrics.BindAddress, a.cfg.Metrics.Port)
		srv := metrics.NewServer(addr, a.logger)
		if err := srv.Start(); err != nil {
			return err
		}
		defer func() { _ = srv.Stop() }()
	}

	var selector *message.Selector
	if a.cfg.Messages.Enabled {
		selector, err = message.NewSelector(nil, a.cfg.Messages.HistorySize, a.logger)
		if err != nil {
			return err
		}
	}

	m := watchModel{app: a, selector: selector, ref: &programRef{}, lastMin: -1}
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.ref.send = p.Send

	_, err = p.Run()
	return err
}

func (m watchModel) newLoop() *session.Loop {
	ref := m.ref
	onTick := func(snap session.Snapshot) {
		if ref.send != nil {
			ref.send(snapshotMsg(snap))
		}
	}
	return session.NewLoop(m.app.machine, m.app.clk, m.app.cfg.Tracking.TickIntervalDuration(), onTick, m.app.logger)
}

// bootMsg resumes ticking when a session was recovered from a previous run.
type bootMsg struct{}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.loadStats, func() tea.Msg { return bootMsg{} })
}

func (m watchModel) loadStats() tea.Msg {
	stats, err := m.app.ledger.Stats(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return statsMsg(stats)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case bootMsg:
		if elapsed, active := m.app.machine.Elapsed(); active && m.loop == nil {
			m.snap = session.Snapshot{Active: true, ElapsedTenths: elapsed}
			m.lastMin = ledger.Minutes(elapsed)
			m.loop = m.newLoop()
			m.loop.Start()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.loop != nil {
				m.loop.Stop()
			}
			return m, tea.Quit

		case "s":
			if _, active := m.app.machine.Elapsed(); active {
				return m, nil
			}
			if err := m.app.machine.Start(context.Background()); err != nil {
				m.err = err
				return m, nil
			}
			m.snap = session.Snapshot{Active: true}
			m.lastMin = 0
			m.refreshMessage()
			m.loop = m.newLoop()
			m.loop.Start()
			return m, nil

		case "x":
			if m.loop != nil {
				m.loop.Stop()
				m.loop = nil
			}
			_, err := m.app.machine.Stop(context.Background())
			if err != nil && !errors.Is(err, session.ErrNoSession) {
				m.err = err
				return m, nil
			}
			m.snap = session.Snapshot{}
			m.line = ""
			m.lastMin = -1
			return m, m.loadStats

		case "d":
			if m.loop != nil {
				m.loop.Stop()
				m.loop = nil
			}
			err := m.app.machine.Discard(context.Background())
			if err != nil && !errors.Is(err, session.ErrNoSession) {
				m.err = err
				return m, nil
			}
			m.snap = session.Snapshot{}
			m.line = ""
			m.lastMin = -1
			return m, nil
		}

	case snapshotMsg:
		m.snap = session.Snapshot(msg)
		if m.snap.AutoDiscarded {
			m.loop = nil
			m.line = ""
			m.lastMin = -1
			return m, m.loadStats
		}
		if minutes := ledger.Minutes(m.snap.ElapsedTenths); minutes != m.lastMin {
			m.lastMin = minutes
			m.refreshMessage()
		}
		return m, nil

	case statsMsg:
		m.stats = msg
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// refreshMessage re-picks the supportive line; called on every whole-minute
// boundary of the running session.
func (m *watchModel) refreshMessage() {
	if m.selector == nil || m.stats == nil {
		return
	}
	m.line = m.selector.Pick(message.Inputs{
		SessionMinutes:    m.lastMin,
		TodayTenths:       m.stats.Today + m.snap.ElapsedTenths,
		WeekAverageTenths: m.stats.WeekAverage,
		WeekTenths:        m.stats.WeekTotal,
		OverallTenths:     m.stats.Overall,
	})
}

func (m watchModel) View() string {
	title := titleStyle.Render("gametime")

	var clock string
	if m.snap.Active {
		clock = clockStyle.Render("● " + ledger.FormatClock(m.snap.ElapsedTenths))
	} else {
		clock = idleStyle.Render("○ idle")
	}

	var stats string
	if m.stats != nil {
		today := m.stats.Today + m.snap.ElapsedTenths
		stats = boxStyle.Render(fmt.Sprintf(
			"Today    %s\nWeek     %s  (avg %s/day)\nAll time %s",
			ledger.FormatTenths(today),
			ledger.FormatTenths(m.stats.WeekTotal+m.snap.ElapsedTenths),
			ledger.FormatTenths(m.stats.WeekAverage),
			ledger.FormatTenths(m.stats.Overall+m.snap.ElapsedTenths),
		))
	}

	view := title + "\n\n" + clock + "\n\n" + stats + "\n"
	if m.line != "" {
		view += "\n" + messageStyle.Render(m.line) + "\n"
	}
	if m.err != nil {
		view += "\n" + idleStyle.Render("error: "+m.err.Error()) + "\n"
	}
	view += "\n" + helpStyle.Render("s start · x stop · d discard · q quit")
	return view
}
