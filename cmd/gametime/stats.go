package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/goodtune/gametime/internal/ledger"
	"github.com/goodtune/gametime/internal/storage"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show daily, weekly and all-time play totals",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.ledger.Stats(context.Background())
	if err != nil {
		return err
	}

	header := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	header.Println("Play time")
	fmt.Printf("  Today:       %s\n", ledger.FormatTenths(stats.Today))
	fmt.Printf("  Yesterday:   %s\n", ledger.FormatTenths(stats.Yesterday))
	fmt.Println()

	header.Println("This week (Mon–Sun)")
	today := a.clk.Now().Format(storage.DateFormat)
	for _, day := range stats.Week {
		weekday := dayName(day.Date)
		line := fmt.Sprintf("  %-9s %s", weekday, ledger.FormatTenths(day.Tenths))
		if day.Date == today {
			color.New(color.FgGreen).Println(line)
		} else if day.Tenths == 0 {
			dim.Println(line)
		} else {
			fmt.Println(line)
		}
	}
	fmt.Printf("  Week total:   %s\n", ledger.FormatTenths(stats.WeekTotal))
	fmt.Printf("  Week average: %s/day\n", ledger.FormatTenths(stats.WeekAverage))
	fmt.Println()

	header.Println("All time")
	fmt.Printf("  Total:        %s (%.1f hours)\n", ledger.FormatTenths(stats.Overall), ledger.Hours(stats.Overall))
	fmt.Printf("  Daily average: %s over %d tracked day(s)\n", ledger.FormatTenths(stats.OverallAverage), stats.TrackedDays)

	return nil
}

func dayName(date string) string {
	t, err := time.ParseInLocation(storage.DateFormat, date, time.Local)
	if err != nil {
		return date
	}
	return t.Weekday().String()
}
