package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JeanZorzetti/orion-analytics/internal/common"
	"github.com/JeanZorzetti/orion-analytics/internal/config"
	"github.com/JeanZorzetti/orion-analytics/internal/report"
	"github.com/JeanZorzetti/orion-analytics/internal/risk"
	"github.com/JeanZorzetti/orion-analytics/internal/service"
	"github.com/JeanZorzetti/orion-analytics/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full report to CSV, JSON or Google Sheets",
		Long: `Build the aging report, KPIs and risk scores in one pass and export
them together.

The csv and json formats write to --output (or stdout). The sheets
format writes three tabs to a Google Spreadsheet; authentication comes
from the config file or ORION_SHEETS_* environment variables.`,
		RunE: runExport,
	}

	cmd.Flags().String("as-of", "", "Reference date (format: 2006-01-02, default: today)")
	cmd.Flags().String("side", "payable", "Ledger side (payable, receivable)")
	cmd.Flags().String("group-by", "counterparty", "Grouping (counterparty, category)")
	cmd.Flags().StringP("format", "f", "csv", "Output format (csv, json, sheets)")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")

	_ = viper.BindPFlag("export.as_of", cmd.Flags().Lookup("as-of"))
	_ = viper.BindPFlag("export.side", cmd.Flags().Lookup("side"))
	_ = viper.BindPFlag("export.group_by", cmd.Flags().Lookup("group-by"))
	_ = viper.BindPFlag("export.format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("export.output", cmd.Flags().Lookup("output"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	side, err := parseSide(viper.GetString("export.side"))
	if err != nil {
		return err
	}
	asOf, err := parseAsOf(viper.GetString("export.as_of"))
	if err != nil {
		return err
	}
	key, err := groupKeyFunc(viper.GetString("export.group_by"))
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
	if len(records) == 0 {
		return common.NewUserError(
			"nothing to export; run 'orion import' or 'orion fetch' first",
			common.ErrNoRecords)
	}

	payload := report.Payload(rep.Groups, rep.Totals,
		computePortfolioKPIs(records, rep, asOf),
		risk.ScoreCounterparties(records, asOf))
	payload.ReferenceDate = asOf

	writer, cleanup, err := buildWriter(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := writer.Write(ctx, payload); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	slog.Info("Export complete",
		"format", viper.GetString("export.format"),
		"groups", len(payload.Groups),
		"scores", len(payload.Scores))
	return nil
}

// buildWriter picks the writer for the configured format. The cleanup
// function closes any file the writer targets.
func buildWriter(ctx context.Context) (service.ReportWriter, func(), error) {
	format := viper.GetString("export.format")
	switch format {
	case "csv", "json":
		out, cleanup, err := openOutput()
		if err != nil {
			return nil, nil, err
		}
		if format == "csv" {
			return report.NewCSVWriter(out), cleanup, nil
		}
		return report.NewJSONWriter(out), cleanup, nil

	case "sheets":
		cfg, err := config.LoadSheetsConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load sheets config: %w", err)
		}
		writer, err := sheets.NewWriter(ctx, *cfg, slog.Default())
		if err != nil {
			return nil, nil, err
		}
		return writer, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("invalid format %q (expected csv, json or sheets)", format)
	}
}

func openOutput() (*os.File, func(), error) {
	path := viper.GetString("export.output")
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(config.ExpandPath(path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			slog.Error("Failed to close output file", "error", err)
		}
	}, nil
}
