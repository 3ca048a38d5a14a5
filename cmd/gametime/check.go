package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/goodtune/gametime/internal/ledger"
	"github.com/spf13/cobra"
)

var checkRepair bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the stored totals are consistent",
	Long: `Verify that the overall total equals the sum of all day buckets.
The overall total is kept redundantly for cheap reads; if the two ever
diverge, --repair rewrites it from the day buckets.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkRepair, "repair", false, "Rewrite the overall total from the day buckets")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	totals := a.store.Totals()

	days, err := totals.DayTotals(ctx)
	if err != nil {
		return fmt.Errorf("read day totals: %w", err)
	}

	var sum int64
	for _, tenths := range days {
		sum += tenths
	}

	overall, err := totals.OverallTotal(ctx)
	if err != nil {
		return fmt.Errorf("read overall total: %w", err)
	}

	if overall == sum {
		color.Green("✅ Ledger consistent: %s across %d day(s).", ledger.FormatTenths(overall), len(days))
		return nil
	}

	color.Red("❌ Ledger inconsistent: overall total is %s but day buckets sum to %s.",
		ledger.FormatTenths(overall), ledger.FormatTenths(sum))

	if !checkRepair {
		return fmt.Errorf("ledger inconsistent (rerun with --repair to fix)")
	}

	if err := totals.SetOverallTotal(ctx, sum); err != nil {
		return fmt.Errorf("repair overall total: %w", err)
	}
	color.Green("Repaired: overall total rewritten to %s.", ledger.FormatTenths(sum))
	return nil
}
