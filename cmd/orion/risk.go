package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JeanZorzetti/orion-analytics/internal/cli"
	"github.com/JeanZorzetti/orion-analytics/internal/model"
	"github.com/JeanZorzetti/orion-analytics/internal/risk"
	"github.com/JeanZorzetti/orion-analytics/internal/service"
)

func riskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk [counterparty-id]",
		Short: "Score counterparty credit risk",
		Long: `Score counterparties on payment history, relationship length, delay,
purchase frequency and negative events, producing a 0-100 score with
credit recommendations.

With a counterparty ID argument, shows that counterparty's full
history-based score. Without one, scores every counterparty with
stored records, riskiest first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRisk,
	}

	cmd.Flags().String("as-of", "", "Reference date (format: 2006-01-02, default: today)")

	_ = viper.BindPFlag("risk.as_of", cmd.Flags().Lookup("as-of"))

	return cmd
}

func runRisk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	asOf, err := parseAsOf(viper.GetString("risk.as_of"))
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

	var scores []model.RiskScore
	if len(args) == 1 {
		records, err := store.GetCounterpartyRecords(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to load history for %s: %w", args[0], err)
		}
		scores = risk.ScoreCounterparties(records, asOf)
	} else {
		records, err := store.GetRecords(ctx, service.RecordFilter{IncludeClosed: true})
		if err != nil {
			return fmt.Errorf("failed to load records: %w", err)
		}
		scores = risk.ScoreCounterparties(records, asOf)
	}

	fmt.Println(cli.RenderRiskScores(scores))
	return nil
}
