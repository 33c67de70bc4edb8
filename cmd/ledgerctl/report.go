package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"taxiledger/internal/core"
	"taxiledger/internal/display"
	"taxiledger/internal/ledger"
	"taxiledger/internal/services"
)

type reportCmd struct {
	app       *app
	rangeName string
	now       string
}

func newReportCmd(a *app) *cobra.Command {
	rc := &reportCmd{app: a}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the expense report for a date range",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}
	cmd.Flags().StringVar(&rc.rangeName, "range", string(core.ThisMonth), "Date range: thisMonth, lastMonth, thisYear or all")
	cmd.Flags().StringVar(&rc.now, "now", "", "Report as of this date (YYYY/MM/DD) instead of today")
	return cmd
}

func (rc *reportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dr, err := core.ParseDateRange(rc.rangeName)
	if err != nil {
		return err
	}

	clock, err := rc.app.clock()
	if err != nil {
		return err
	}
	now := clock.Today()
	if rc.now != "" {
		if now, err = core.ParseCivilDate(rc.now); err != nil {
			return fmt.Errorf("--now: %w", err)
		}
	}

	store, err := rc.app.openStore(ctx, false)
	if err != nil {
		return err
	}
	rep, err := services.NewReportService(store, clock, nil, rc.app.logger).ReportAt(ctx, dr, now)
	if err != nil {
		return err
	}
	return printReport(cmd.OutOrStdout(), rep)
}

func printReport(out io.Writer, rep ledger.Report) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Range:\t%s\n", rep.Range)
	fmt.Fprintf(tw, "As of:\t%s\n", rep.Now)
	fmt.Fprintf(tw, "Expenses:\t%d\n", rep.Summary.Count)
	fmt.Fprintf(tw, "Total:\t%s\n", display.Rials(rep.Summary.Total))
	fmt.Fprintf(tw, "Average:\t%s\n", display.Rials(rep.Summary.Average))
	if rep.Top != nil {
		fmt.Fprintf(tw, "Top category:\t%s (%s)\n", rep.Top.Title, display.Percent(rep.Top.Percentage))
	}
	if len(rep.Breakdown) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tCOUNT\tSHARE")
		for _, b := range rep.Breakdown {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", b.Title, display.Rials(b.Amount), b.Count, display.Percent(b.Percentage))
		}
	}
	return tw.Flush()
}
