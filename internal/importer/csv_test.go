package importer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

const validCSV = `id,counterparty_id,counterparty_name,category,side,status,issue_date,due_date,value,paid_value,reconciled,reconciliation_date
inv-001,cp-10,Fornecedor Alfa,Suppliers,payable,pending,2024-01-10,2024-02-10,1500.00,,,
inv-002,cp-11,Cliente Beta,Sales,receivable,settled,2024-01-05,2024-02-05,980.50,980.50,true,2024-02-03
`

func TestParse(t *testing.T) {
	records, err := Parse(strings.NewReader(validCSV))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.ID != "inv-001" || first.Side != model.SidePayable || first.Status != model.StatusPending {
		t.Errorf("first record = %+v", first)
	}
	if !first.Value.Equal(decimal.RequireFromString("1500.00")) {
		t.Errorf("value = %s, want 1500.00", first.Value)
	}
	if first.Hash == "" {
		t.Error("hash not generated")
	}

	second := records[1]
	if !second.Reconciled {
		t.Error("second record should be reconciled")
	}
	want := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)
	if !second.ReconciliationDate.Equal(want) {
		t.Errorf("reconciliation date = %s, want %s", second.ReconciliationDate, want)
	}
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	csv := "id,side,status,issue_date,value\nx,payable,pending,2024-01-01,10\n"
	if _, err := Parse(strings.NewReader(csv)); !errors.Is(err, ErrBadHeader) {
		t.Errorf("error = %v, want ErrBadHeader", err)
	}
}

func TestParse_BadDateFailsWithLine(t *testing.T) {
	csv := strings.Join([]string{
		"id,counterparty_id,counterparty_name,category,side,status,issue_date,due_date,value",
		"inv-001,cp-1,A,Suppliers,payable,pending,2024-01-10,2024-02-10,100",
		"inv-002,cp-1,A,Suppliers,payable,pending,2024-01-10,10/02/2024,100",
	}, "\n")

	_, err := Parse(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected error for unparseable date")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestParse_EmptyDueDateIsError(t *testing.T) {
	csv := strings.Join([]string{
		"id,counterparty_id,counterparty_name,category,side,status,issue_date,due_date,value",
		"inv-001,cp-1,A,Suppliers,payable,pending,2024-01-10,,100",
	}, "\n")

	_, err := Parse(strings.NewReader(csv))
	if !errors.Is(err, model.ErrMissingDate) {
		t.Errorf("error = %v, want ErrMissingDate (never defaulted)", err)
	}
}

func TestParse_BadDecimal(t *testing.T) {
	csv := strings.Join([]string{
		"id,counterparty_id,counterparty_name,category,side,status,issue_date,due_date,value",
		"inv-001,cp-1,A,Suppliers,payable,pending,2024-01-10,2024-02-10,1.5e",
	}, "\n")

	if _, err := Parse(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for unparseable value")
	}
}

func TestParse_InvalidRecordRejected(t *testing.T) {
	csv := strings.Join([]string{
		"id,counterparty_id,counterparty_name,category,side,status,issue_date,due_date,value,paid_value",
		"inv-001,cp-1,A,Suppliers,receivable,pending,2024-01-10,2024-02-10,100,250",
	}, "\n")

	if _, err := Parse(strings.NewReader(csv)); !errors.Is(err, model.ErrInvalidRecord) {
		t.Errorf("error = %v, want ErrInvalidRecord (paid > value)", err)
	}
}
