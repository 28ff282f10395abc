package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JeanZorzetti/orion-analytics/internal/tui"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive analytics dashboard",
		Long: `Open a terminal dashboard with tabs for the aging report, portfolio
KPIs and counterparty risk scores. Use arrow keys or h/l to switch
tabs, r to reload from the database, q to quit.`,
		RunE: runDashboard,
	}

	cmd.Flags().String("as-of", "", "Reference date (format: 2006-01-02, default: today)")
	cmd.Flags().String("side", "payable", "Ledger side (payable, receivable)")

	_ = viper.BindPFlag("dashboard.as_of", cmd.Flags().Lookup("as-of"))
	_ = viper.BindPFlag("dashboard.side", cmd.Flags().Lookup("side"))

	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	side, err := parseSide(viper.GetString("dashboard.side"))
	if err != nil {
		return err
	}
	asOf, err := parseAsOf(viper.GetString("dashboard.as_of"))
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

	return tui.Run(ctx, tui.Config{
		Storage:       store,
		ReferenceDate: asOf,
		Side:          side,
	})
}
