package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JeanZorzetti/orion-analytics/internal/aging"
	"github.com/JeanZorzetti/orion-analytics/internal/cli"
	"github.com/JeanZorzetti/orion-analytics/internal/model"
	"github.com/JeanZorzetti/orion-analytics/internal/service"
)

func kpiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Show portfolio KPIs",
		Long: `Compute portfolio-level indicators over the stored ledger: outstanding
total, days outstanding, average settlement lag, delinquency rate and
top-counterparty concentration.

Settled records are included so settlement lag and delinquency reflect
actual payment history, not just the open portfolio.`,
		RunE: runKPI,
	}

	cmd.Flags().String("as-of", "", "Reference date (format: 2006-01-02, default: today)")
	cmd.Flags().String("side", "payable", "Ledger side (payable, receivable)")
	cmd.Flags().String("purchases", "", "Total purchases in the period, for days outstanding")
	cmd.Flags().Int("period-days", 30, "Length of the purchase period in days")

	_ = viper.BindPFlag("kpi.as_of", cmd.Flags().Lookup("as-of"))
	_ = viper.BindPFlag("kpi.side", cmd.Flags().Lookup("side"))
	_ = viper.BindPFlag("kpi.purchases", cmd.Flags().Lookup("purchases"))
	_ = viper.BindPFlag("kpi.period_days", cmd.Flags().Lookup("period-days"))

	return cmd
}

func runKPI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	side, err := parseSide(viper.GetString("kpi.side"))
	if err != nil {
		return err
	}
	asOf, err := parseAsOf(viper.GetString("kpi.as_of"))
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

	// History matters here: settled records feed the lag and
	// delinquency figures.
	records, err := store.GetRecords(ctx, service.RecordFilter{
		Side:          side,
		IncludeClosed: true,
	})
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	rep, err := aging.Aggregate(records, aging.Options{
		ReferenceDate: asOf,
		Key:           aging.KeyByCounterparty,
		Value:         aging.ValueForSide(side),
	})
	if err != nil {
		return fmt.Errorf("failed to aggregate: %w", err)
	}

	kpis := computePortfolioKPIs(records, rep, asOf)
	fmt.Println(cli.RenderKPIs(kpis))
	return nil
}

// computePortfolioKPIs applies the purchases/period flags to the KPI
// computation.
func computePortfolioKPIs(records []model.LedgerRecord, rep *aging.Report, asOf time.Time) model.KPISet {
	opts := aging.KPIOptions{
		ReferenceDate: asOf,
		DaysInPeriod:  viper.GetInt("kpi.period_days"),
	}
	if s := viper.GetString("kpi.purchases"); s != "" {
		if purchases, err := decimal.NewFromString(s); err == nil {
			opts.PurchasesInPeriod = purchases
		} else {
			slog.Warn("Ignoring malformed purchases value", "value", s)
		}
	}
	return aging.ComputeKPIs(records, rep, opts)
}
