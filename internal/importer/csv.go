// Package importer parses ledger records from CSV exports of the ERP.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

// ErrBadHeader indicates the CSV header is missing required columns.
var ErrBadHeader = errors.New("csv header missing required columns")

const dateLayout = "2006-01-02"

// Required and optional column names, matched case-insensitively.
var requiredColumns = []string{"id", "side", "status", "issue_date", "due_date", "value"}

// ParseFile parses a CSV file into ledger records.
func ParseFile(path string) ([]model.LedgerRecord, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Parse reads CSV rows into validated ledger records. Malformed rows fail
// the whole parse with the offending line number; a bad date is never
// coerced to today.
func Parse(r io.Reader) ([]model.LedgerRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrBadHeader, name)
		}
	}

	var records []model.LedgerRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(row []string, cols map[string]int) (model.LedgerRecord, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rec model.LedgerRecord
	var err error

	rec.ID = field("id")
	rec.CounterpartyID = field("counterparty_id")
	rec.CounterpartyName = field("counterparty_name")
	rec.Category = field("category")
	rec.Side = model.LedgerSide(field("side"))
	rec.Status = model.RecordStatus(field("status"))

	if rec.IssueDate, err = parseDate(field("issue_date")); err != nil {
		return rec, fmt.Errorf("issue_date: %w", err)
	}
	if rec.DueDate, err = parseDate(field("due_date")); err != nil {
		return rec, fmt.Errorf("due_date: %w", err)
	}

	if rec.Value, err = decimal.NewFromString(field("value")); err != nil {
		return rec, fmt.Errorf("value %q: %w", field("value"), err)
	}
	if paid := field("paid_value"); paid != "" {
		if rec.PaidValue, err = decimal.NewFromString(paid); err != nil {
			return rec, fmt.Errorf("paid_value %q: %w", paid, err)
		}
	}

	if reconciled := field("reconciled"); reconciled != "" {
		rec.Reconciled = strings.EqualFold(reconciled, "true") || reconciled == "1"
	}
	if reconDate := field("reconciliation_date"); reconDate != "" {
		if rec.ReconciliationDate, err = parseDate(reconDate); err != nil {
			return rec, fmt.Errorf("reconciliation_date: %w", err)
		}
	}

	if err := rec.Validate(); err != nil {
		return rec, err
	}
	rec.Hash = rec.GenerateHash()
	return rec, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, model.ErrMissingDate
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q (want %s)", s, dateLayout)
	}
	return t, nil
}
