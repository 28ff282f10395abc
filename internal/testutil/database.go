// Package testutil provides test utilities for the orion-analytics project.
// It offers in-memory database setup with proper test isolation and
// fixture builders for ledger records.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
	"github.com/JeanZorzetti/orion-analytics/internal/service"
	"github.com/JeanZorzetti/orion-analytics/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database, runs migrations,
// seeds the given records, and registers cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewRecord("inv-1").DueIn(-10).WithValue("1500.00").Build(),
//	)
func SetupTestDB(t *testing.T, records ...model.LedgerRecord) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(records) > 0 {
		if err := store.SaveRecords(ctx, records); err != nil {
			t.Fatalf("failed to seed records: %v", err)
		}
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustGetRecords returns all records matching the filter or fails the test.
func (db *TestDB) MustGetRecords(filter service.RecordFilter) []model.LedgerRecord {
	db.t.Helper()
	records, err := db.Storage.GetRecords(context.Background(), filter)
	if err != nil {
		db.t.Fatalf("failed to get records: %v", err)
	}
	return records
}

// RecordBuilder builds ledger record fixtures with sensible defaults.
type RecordBuilder struct {
	record model.LedgerRecord
}

// fixtureBase anchors relative due dates so fixtures are reproducible.
var fixtureBase = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

// FixtureReferenceDate returns the reference date fixture due dates are
// computed against.
func FixtureReferenceDate() time.Time {
	return fixtureBase
}

// NewRecord starts a builder for a payable record due on the fixture
// reference date with a value of 100.00.
func NewRecord(id string) *RecordBuilder {
	return &RecordBuilder{record: model.LedgerRecord{
		ID:               id,
		CounterpartyID:   "cp-" + id,
		CounterpartyName: "Counterparty " + id,
		Category:         "general",
		Side:             model.SidePayable,
		Status:           model.StatusPending,
		Value:            decimal.NewFromInt(100),
		IssueDate:        fixtureBase.AddDate(0, -1, 0),
		DueDate:          fixtureBase,
	}}
}

// WithSide sets the ledger side.
func (b *RecordBuilder) WithSide(side model.LedgerSide) *RecordBuilder {
	b.record.Side = side
	return b
}

// WithStatus sets the settlement status.
func (b *RecordBuilder) WithStatus(status model.RecordStatus) *RecordBuilder {
	b.record.Status = status
	return b
}

// WithCounterparty sets the counterparty identity.
func (b *RecordBuilder) WithCounterparty(id, name string) *RecordBuilder {
	b.record.CounterpartyID = id
	b.record.CounterpartyName = name
	return b
}

// WithCategory sets the record category.
func (b *RecordBuilder) WithCategory(category string) *RecordBuilder {
	b.record.Category = category
	return b
}

// WithValue sets the record value from a decimal string and fails the
// builder loudly on malformed input.
func (b *RecordBuilder) WithValue(value string) *RecordBuilder {
	b.record.Value = decimal.RequireFromString(value)
	return b
}

// WithPaidValue sets the amount already settled.
func (b *RecordBuilder) WithPaidValue(value string) *RecordBuilder {
	b.record.PaidValue = decimal.RequireFromString(value)
	return b
}

// DueIn offsets the due date by days relative to the fixture reference
// date. Negative values produce overdue records.
func (b *RecordBuilder) DueIn(days int) *RecordBuilder {
	b.record.DueDate = fixtureBase.AddDate(0, 0, days)
	return b
}

// IssuedMonthsAgo sets the issue date months before the fixture
// reference date.
func (b *RecordBuilder) IssuedMonthsAgo(months int) *RecordBuilder {
	b.record.IssueDate = fixtureBase.AddDate(0, -months, 0)
	return b
}

// Reconciled marks the record settled on the given date.
func (b *RecordBuilder) Reconciled(on time.Time) *RecordBuilder {
	b.record.Reconciled = true
	b.record.ReconciliationDate = on
	b.record.Status = model.StatusSettled
	b.record.PaidValue = b.record.Value.Abs()
	return b
}

// Build finalizes the record, generating its hash.
func (b *RecordBuilder) Build() model.LedgerRecord {
	rec := b.record
	rec.Hash = rec.GenerateHash()
	return rec
}
