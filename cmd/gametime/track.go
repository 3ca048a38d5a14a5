package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/goodtune/gametime/internal/ledger"
	"github.com/goodtune/gametime/internal/session"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start tracking a gaming session",
	Long: `Start tracking a gaming session. The start timestamp is persisted
immediately, so the session survives restarts and is recovered on the next
invocation. Starting while a session is already running is a no-op.`,
	RunE: runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running session and commit it",
	Long: `Stop the running session. The elapsed time is committed to today's
total unless it is zero (clock skew) or longer than the session cap, in
which case the session is quietly dropped.`,
	RunE: runStop,
}

var discardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Abandon the running session without recording it",
	RunE:  runDiscard,
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(discardCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if elapsed, active := a.machine.Elapsed(); active {
		color.Yellow("A session is already running (%s).", ledger.FormatTenths(elapsed))
		return nil
	}

	if err := a.machine.Start(context.Background()); err != nil {
		return err
	}

	color.Green("Session started. Have fun!")
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	committed, err := a.machine.Stop(context.Background())
	if errors.Is(err, session.ErrNoSession) {
		color.Yellow("No session is running.")
		return nil
	}
	if err != nil {
		return err
	}

	if committed == 0 {
		color.Yellow("Session dropped, nothing was committed.")
		return nil
	}

	color.Green("Committed %s to today's total.", ledger.FormatTenths(committed))

	today, err := a.ledger.Today(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Today so far: %s\n", ledger.FormatTenths(today))
	return nil
}

func runDiscard(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	err = a.machine.Discard(context.Background())
	if errors.Is(err, session.ErrNoSession) {
		color.Yellow("No session is running.")
		return nil
	}
	if err != nil {
		return err
	}

	color.Green("Session discarded.")
	return nil
}
