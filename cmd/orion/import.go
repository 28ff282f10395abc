package main

import (
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JeanZorzetti/orion-analytics/internal/importer"
	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import ledger records from a CSV file",
		Long: `Import accounts payable and receivable records from a CSV export.

Records are validated row by row and deduplicated by content hash, so
re-importing the same file is safe. Rows with a missing due date are
rejected with their line number.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "Parse and validate without saving")

	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	slog.Info("Importing records", "file", path)

	records, err := importer.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	slog.Info("Parsed records", "count", len(records))

	if viper.GetBool("import.dry_run") {
		summarizeRecords(records)
		slog.Info("Dry run, nothing saved")
		return nil
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

	// Save in batches so the progress bar reflects real work.
	const batchSize = 100
	bar := progressbar.Default(int64(len(records)), "saving")
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := store.SaveRecords(ctx, records[start:end]); err != nil {
			return fmt.Errorf("failed to save records: %w", err)
		}
		_ = bar.Add(end - start)
	}
	_ = bar.Finish()

	summarizeRecords(records)
	slog.Info("Import complete", "count", len(records))
	return nil
}

func summarizeRecords(records []model.LedgerRecord) {
	var payable, receivable, open int
	for _, r := range records {
		if r.Side == model.SidePayable {
			payable++
		} else {
			receivable++
		}
		if r.Open() {
			open++
		}
	}
	slog.Info("Record summary",
		"payable", payable,
		"receivable", receivable,
		"open", open)
}
