package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/JeanZorzetti/orion-analytics/internal/aging"
	"github.com/JeanZorzetti/orion-analytics/internal/config"
	"github.com/JeanZorzetti/orion-analytics/internal/model"
	"github.com/JeanZorzetti/orion-analytics/internal/service"
	"github.com/JeanZorzetti/orion-analytics/internal/storage"
)

const dateFormat = "2006-01-02"

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/orion/orion.db"
	}

	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// parseSide converts a --side flag value into a ledger side.
func parseSide(s string) (model.LedgerSide, error) {
	switch s {
	case "payable", "":
		return model.SidePayable, nil
	case "receivable":
		return model.SideReceivable, nil
	default:
		return "", fmt.Errorf("invalid side %q (expected payable or receivable)", s)
	}
}

// parseAsOf converts an --as-of flag value into a reference date,
// defaulting to today.
func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of date %q (expected %s)", s, dateFormat)
	}
	return t, nil
}

// groupKeyFunc maps a --group-by flag value onto a grouping function.
func groupKeyFunc(s string) (aging.KeyFunc, error) {
	switch s {
	case "counterparty", "":
		return aging.KeyByCounterparty, nil
	case "category":
		return aging.KeyByCategory, nil
	default:
		return nil, fmt.Errorf("invalid group-by %q (expected counterparty or category)", s)
	}
}

// buildAgingReport fetches open records for one side of the ledger and
// aggregates them.
func buildAgingReport(ctx context.Context, store service.Storage, side model.LedgerSide, asOf time.Time, key aging.KeyFunc, includeClosed bool) ([]model.LedgerRecord, *aging.Report, error) {
	records, err := store.GetRecords(ctx, service.RecordFilter{
		Side:          side,
		IncludeClosed: includeClosed,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load records: %w", err)
	}

	report, err := aging.Aggregate(records, aging.Options{
		ReferenceDate: asOf,
		Key:           key,
		Value:         aging.ValueForSide(side),
		IncludeClosed: includeClosed,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate: %w", err)
	}
	return records, report, nil
}
