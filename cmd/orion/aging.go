package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JeanZorzetti/orion-analytics/internal/cli"
	"github.com/JeanZorzetti/orion-analytics/internal/report"
	"github.com/JeanZorzetti/orion-analytics/internal/risk"
)

func agingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aging",
		Short: "Show the aging report for open records",
		Long: `Classify open records into aging buckets relative to a reference date
and show per-group totals with urgency levels.

Groups are sorted most urgent first, largest total first within the
same urgency.`,
		RunE: runAging,
	}

	cmd.Flags().String("as-of", "", "Reference date for bucketing (format: 2006-01-02, default: today)")
	cmd.Flags().String("side", "payable", "Ledger side (payable, receivable)")
	cmd.Flags().String("group-by", "counterparty", "Grouping (counterparty, category)")
	cmd.Flags().Bool("json", false, "Emit the full report as JSON instead of a table")

	_ = viper.BindPFlag("aging.as_of", cmd.Flags().Lookup("as-of"))
	_ = viper.BindPFlag("aging.side", cmd.Flags().Lookup("side"))
	_ = viper.BindPFlag("aging.group_by", cmd.Flags().Lookup("group-by"))
	_ = viper.BindPFlag("aging.json", cmd.Flags().Lookup("json"))

	return cmd
}

func runAging(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	side, err := parseSide(viper.GetString("aging.side"))
	if err != nil {
		return err
	}
	asOf, err := parseAsOf(viper.GetString("aging.as_of"))
	if err != nil {
		return err
	}
	key, err := groupKeyFunc(viper.GetString("aging.group_by"))
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()

	records, rep, err := buildAgingReport(ctx, store, side, asOf, key, false)
	if err != nil {
		return err
	}

	if viper.GetBool("aging.json") {
		kpis := computePortfolioKPIs(records, rep, asOf)
		scores := risk.ScoreCounterparties(records, asOf)
		payload := report.Payload(rep.Groups, rep.Totals, kpis, scores)
		payload.ReferenceDate = asOf
		return report.NewJSONWriter(os.Stdout).Write(ctx, payload)
	}

	fmt.Println(cli.RenderAgingReport(rep))
	return nil
}
