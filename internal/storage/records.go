package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JeanZorzetti/orion-analytics/internal/common"
	"github.com/JeanZorzetti/orion-analytics/internal/model"
	"github.com/JeanZorzetti/orion-analytics/internal/service"
)

const dateLayout = "2006-01-02"

// SaveRecords inserts or replaces records, deduplicating on hash. Records
// without a hash get one generated before insert.
func (s *SQLiteStorage) SaveRecords(ctx context.Context, records []model.LedgerRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_records
			(id, hash, counterparty_id, counterparty_name, category, side, status,
			 issue_date, due_date, value, paid_value, reconciled, reconciliation_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			status = excluded.status,
			paid_value = excluded.paid_value,
			reconciled = excluded.reconciled,
			reconciliation_date = excluded.reconciliation_date`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		hash := rec.Hash
		if hash == "" {
			hash = rec.GenerateHash()
		}

		var reconDate any
		if !rec.ReconciliationDate.IsZero() {
			reconDate = rec.ReconciliationDate.Format(dateLayout)
		}

		if _, err := stmt.ExecContext(ctx,
			rec.ID, hash, rec.CounterpartyID, rec.CounterpartyName, rec.Category,
			string(rec.Side), string(rec.Status),
			rec.IssueDate.Format(dateLayout), rec.DueDate.Format(dateLayout),
			rec.Value.String(), rec.PaidValue.String(),
			rec.Reconciled, reconDate,
		); err != nil {
			return fmt.Errorf("failed to save record %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// GetRecords returns records matching the filter, ordered by due date.
func (s *SQLiteStorage) GetRecords(ctx context.Context, filter service.RecordFilter) ([]model.LedgerRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var conditions []string
	var args []any

	if filter.Side != "" {
		conditions = append(conditions, "side = ?")
		args = append(args, string(filter.Side))
	}
	if filter.CounterpartyID != "" {
		conditions = append(conditions, "counterparty_id = ?")
		args = append(args, filter.CounterpartyID)
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if !filter.IncludeClosed {
		conditions = append(conditions, "status IN (?, ?)")
		args = append(args, string(model.StatusPending), string(model.StatusOverdue))
	}
	if filter.StartDue != nil {
		conditions = append(conditions, "due_date >= ?")
		args = append(args, filter.StartDue.Format(dateLayout))
	}
	if filter.EndDue != nil {
		conditions = append(conditions, "due_date <= ?")
		args = append(args, filter.EndDue.Format(dateLayout))
	}

	query := selectColumns + " FROM ledger_records"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY due_date, id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// GetRecordByID returns a single record or common.ErrNotFound.
func (s *SQLiteStorage) GetRecordByID(ctx context.Context, id string) (*model.LedgerRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, selectColumns+" FROM ledger_records WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetCounterpartyRecords returns a counterparty's full history, open and
// closed, oldest first. Risk scoring needs the settled records too.
func (s *SQLiteStorage) GetCounterpartyRecords(ctx context.Context, counterpartyID string) ([]model.LedgerRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(counterpartyID, "counterpartyID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		selectColumns+" FROM ledger_records WHERE counterparty_id = ? ORDER BY issue_date, id",
		counterpartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query counterparty records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// ListCounterparties returns the distinct counterparties with record counts.
func (s *SQLiteStorage) ListCounterparties(ctx context.Context) ([]service.CounterpartyRef, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT counterparty_id, MAX(counterparty_name), COUNT(*)
		FROM ledger_records
		WHERE counterparty_id != ''
		GROUP BY counterparty_id
		ORDER BY counterparty_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list counterparties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var refs []service.CounterpartyRef
	for rows.Next() {
		var ref service.CounterpartyRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.RecordCount); err != nil {
			return nil, fmt.Errorf("failed to scan counterparty: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// MarkReconciled flags a record as reconciled at the given time and moves
// it to settled.
func (s *SQLiteStorage) MarkReconciled(ctx context.Context, id string, reconciledAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if reconciledAt.IsZero() {
		return fmt.Errorf("%w: reconciledAt", model.ErrMissingDate)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE ledger_records
		SET reconciled = 1, reconciliation_date = ?, status = ?
		WHERE id = ?`,
		reconciledAt.Format(dateLayout), string(model.StatusSettled), id)
	if err != nil {
		return fmt.Errorf("failed to mark record reconciled: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("record %s: %w", id, common.ErrNotFound)
	}
	return nil
}

const selectColumns = `SELECT id, hash, counterparty_id, counterparty_name, category,
	side, status, issue_date, due_date, value, paid_value, reconciled, reconciliation_date`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.LedgerRecord, error) {
	var rec model.LedgerRecord
	var side, status, issueDate, dueDate, value, paidValue string
	var reconDate sql.NullString

	if err := row.Scan(&rec.ID, &rec.Hash, &rec.CounterpartyID, &rec.CounterpartyName,
		&rec.Category, &side, &status, &issueDate, &dueDate,
		&value, &paidValue, &rec.Reconciled, &reconDate); err != nil {
		return nil, err
	}

	rec.Side = model.LedgerSide(side)
	rec.Status = model.RecordStatus(status)

	var err error
	if rec.IssueDate, err = parseStoredDate(issueDate); err != nil {
		return nil, fmt.Errorf("record %s issue date: %w", rec.ID, err)
	}
	if rec.DueDate, err = parseStoredDate(dueDate); err != nil {
		return nil, fmt.Errorf("record %s due date: %w", rec.ID, err)
	}
	if reconDate.Valid && reconDate.String != "" {
		if rec.ReconciliationDate, err = parseStoredDate(reconDate.String); err != nil {
			return nil, fmt.Errorf("record %s reconciliation date: %w", rec.ID, err)
		}
	}
	if rec.Value, err = decimal.NewFromString(value); err != nil {
		return nil, fmt.Errorf("record %s value: %w", rec.ID, err)
	}
	if rec.PaidValue, err = decimal.NewFromString(paidValue); err != nil {
		return nil, fmt.Errorf("record %s paid value: %w", rec.ID, err)
	}

	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]model.LedgerRecord, error) {
	var records []model.LedgerRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// parseStoredDate accepts the plain date layout plus the timestamp forms
// SQLite may hand back for DATE columns written by other tools.
func parseStoredDate(s string) (time.Time, error) {
	for _, layout := range []string{dateLayout, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
