package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/goodtune/gametime/internal/ledger"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session and today's total",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if elapsed, active := a.machine.Elapsed(); active {
		color.Green("● Tracking — %s elapsed", ledger.FormatClock(elapsed))
	} else {
		fmt.Println("○ Idle — no session running")
	}

	today, err := a.ledger.Today(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Today: %s\n", ledger.FormatTenths(today))

	return nil
}
