// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

// RecordFilter defines filtering options for ledger record queries.
type RecordFilter struct {
	StartDue       *time.Time
	EndDue         *time.Time
	Side           model.LedgerSide
	CounterpartyID string
	Category       string
	IncludeClosed  bool
	Limit          int
	Offset         int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	SaveRecords(ctx context.Context, records []model.LedgerRecord) error
	GetRecords(ctx context.Context, filter RecordFilter) ([]model.LedgerRecord, error)
	GetRecordByID(ctx context.Context, id string) (*model.LedgerRecord, error)
	GetCounterpartyRecords(ctx context.Context, counterpartyID string) ([]model.LedgerRecord, error)
	ListCounterparties(ctx context.Context) ([]CounterpartyRef, error)
	MarkReconciled(ctx context.Context, id string, reconciledAt time.Time) error
	Migrate(ctx context.Context) error
	Close() error
}

// CounterpartyRef identifies a counterparty known to the store.
type CounterpartyRef struct {
	ID          string
	Name        string
	RecordCount int
}

// RecordFetcher pulls ledger records from a remote source.
type RecordFetcher interface {
	FetchRecords(ctx context.Context, startDate, endDate time.Time) ([]model.LedgerRecord, error)
}

// ReportPayload bundles everything a report writer needs.
type ReportPayload struct {
	ReferenceDate time.Time
	Groups        []model.AgingBucket
	Totals        model.AgingTotals
	KPIs          model.KPISet
	Scores        []model.RiskScore
}

// ReportWriter renders a computed report to some destination (file,
// spreadsheet). Writers receive already-computed data and do no math of
// their own.
type ReportWriter interface {
	Write(ctx context.Context, payload *ReportPayload) error
}

// RetryOptions configures retry behavior for remote operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
