// Package model defines the core domain types shared across the application.
package model

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSide identifies which side of the ledger a record belongs to.
type LedgerSide string

const (
	// SidePayable marks outgoing obligations (contas a pagar).
	SidePayable LedgerSide = "payable"
	// SideReceivable marks incoming balances (contas a receber).
	SideReceivable LedgerSide = "receivable"
)

// RecordStatus represents the settlement state of a ledger record.
type RecordStatus string

const (
	StatusPending   RecordStatus = "pending"
	StatusOverdue   RecordStatus = "overdue"
	StatusSettled   RecordStatus = "settled"
	StatusCancelled RecordStatus = "cancelled"
)

// Validation errors for ledger records.
var (
	ErrInvalidRecord = errors.New("invalid ledger record")
	ErrMissingDate   = errors.New("missing date")
)

// LedgerRecord is a single payable or receivable line item.
//
// Value and PaidValue are decimal currency amounts; payables may store
// outflows as negative values, so consumers must take the absolute value
// when summing that side.
type LedgerRecord struct {
	DueDate            time.Time
	IssueDate          time.Time
	ReconciliationDate time.Time
	ID                 string
	CounterpartyID     string
	CounterpartyName   string
	Category           string
	Hash               string
	Side               LedgerSide
	Status             RecordStatus
	Value              decimal.Decimal
	PaidValue          decimal.Decimal
	Reconciled         bool
}

// Validate checks the structural invariants of a record.
func (r *LedgerRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRecord)
	}
	if r.DueDate.IsZero() {
		return fmt.Errorf("%w: record %s has no due date", ErrMissingDate, r.ID)
	}
	if r.IssueDate.IsZero() {
		return fmt.Errorf("%w: record %s has no issue date", ErrMissingDate, r.ID)
	}
	switch r.Side {
	case SidePayable, SideReceivable:
	default:
		return fmt.Errorf("%w: record %s has unknown side %q", ErrInvalidRecord, r.ID, r.Side)
	}
	switch r.Status {
	case StatusPending, StatusOverdue, StatusSettled, StatusCancelled:
	default:
		return fmt.Errorf("%w: record %s has unknown status %q", ErrInvalidRecord, r.ID, r.Status)
	}
	if r.PaidValue.IsNegative() {
		return fmt.Errorf("%w: record %s has negative paid value", ErrInvalidRecord, r.ID)
	}
	if r.PaidValue.GreaterThan(r.Value.Abs()) {
		return fmt.Errorf("%w: record %s paid value exceeds value", ErrInvalidRecord, r.ID)
	}
	if !r.Reconciled && !r.ReconciliationDate.IsZero() {
		return fmt.Errorf("%w: record %s has reconciliation date but is not reconciled", ErrInvalidRecord, r.ID)
	}
	return nil
}

// Outstanding returns the unsettled balance of the record: the remaining
// balance for receivables, the absolute value for payables.
func (r *LedgerRecord) Outstanding() decimal.Decimal {
	if r.Side == SideReceivable {
		return r.Value.Sub(r.PaidValue)
	}
	return r.Value.Abs()
}

// Open reports whether the record still counts toward aging. Settled and
// cancelled records are excluded from bucketing.
func (r *LedgerRecord) Open() bool {
	return r.Status == StatusPending || r.Status == StatusOverdue
}

// GenerateHash creates a stable hash for duplicate detection across imports.
func (r *LedgerRecord) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s",
		r.DueDate.Format("2006-01-02"),
		r.Value.String(),
		r.CounterpartyID,
		r.Category,
		r.Side)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
