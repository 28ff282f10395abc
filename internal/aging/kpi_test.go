package aging

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

func TestDaysOutstanding(t *testing.T) {
	tests := []struct {
		name         string
		outstanding  int64
		purchases    int64
		daysInPeriod int
		want         int
	}{
		{"documented scenario", 30000, 90000, 30, 10},
		{"zero purchases", 30000, 0, 30, 0},
		{"zero outstanding", 0, 90000, 30, 0},
		{"rounds up", 50000, 90000, 30, 17},
		{"longer period", 30000, 90000, 90, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysOutstanding(
				decimal.NewFromInt(tt.outstanding),
				decimal.NewFromInt(tt.purchases),
				tt.daysInPeriod)
			if got != tt.want {
				t.Errorf("DaysOutstanding() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDelinquencyRate(t *testing.T) {
	reconciledLate := record("r1", "a", 10, 100)
	reconciledLate.Reconciled = true
	reconciledLate.Status = model.StatusSettled
	reconciledLate.ReconciliationDate = reconciledLate.DueDate.AddDate(0, 0, 3)

	reconciledOnTime := record("r2", "a", 10, 100)
	reconciledOnTime.Reconciled = true
	reconciledOnTime.Status = model.StatusSettled
	reconciledOnTime.ReconciliationDate = reconciledOnTime.DueDate.AddDate(0, 0, -1)

	openOverdue := record("r3", "a", 5, 100)
	openCurrent := record("r4", "a", -5, 100)

	records := []model.LedgerRecord{reconciledLate, reconciledOnTime, openOverdue, openCurrent}
	got := DelinquencyRate(records, reference)
	if got != 50 {
		t.Errorf("DelinquencyRate() = %f, want 50", got)
	}

	if got := DelinquencyRate(nil, reference); got != 0 {
		t.Errorf("DelinquencyRate(empty) = %f, want 0", got)
	}
}

func TestDelinquencyRateDueToday(t *testing.T) {
	// Due today stays current no matter the reference clock, same as
	// the bucketer's due_today classification.
	dueToday := record("r1", "a", 0, 100)
	midMorning := reference.Add(10 * time.Hour)

	if got := DelinquencyRate([]model.LedgerRecord{dueToday}, midMorning); got != 0 {
		t.Errorf("DelinquencyRate(due today, 10:00 reference) = %f, want 0", got)
	}

	// Reconciled later the same day is on time; a day later is not.
	sameDay := record("r2", "a", 0, 100)
	sameDay.Reconciled = true
	sameDay.Status = model.StatusSettled
	sameDay.ReconciliationDate = sameDay.DueDate.Add(14 * time.Hour)

	nextDay := record("r3", "a", 0, 100)
	nextDay.Reconciled = true
	nextDay.Status = model.StatusSettled
	nextDay.ReconciliationDate = nextDay.DueDate.AddDate(0, 0, 1)

	if got := DelinquencyRate([]model.LedgerRecord{sameDay, nextDay}, midMorning); got != 50 {
		t.Errorf("DelinquencyRate(same-day + next-day settlement) = %f, want 50", got)
	}
}

func TestAverageSettlementLag(t *testing.T) {
	early := record("r1", "a", 0, 100)
	early.Reconciled = true
	early.ReconciliationDate = early.DueDate.AddDate(0, 0, -4)

	late := record("r2", "a", 0, 100)
	late.Reconciled = true
	late.ReconciliationDate = late.DueDate.AddDate(0, 0, 6)

	open := record("r3", "a", 0, 100)

	// Early settlement floors at 0 instead of offsetting the late one.
	got := AverageSettlementLag([]model.LedgerRecord{early, late, open})
	if got != 3 {
		t.Errorf("AverageSettlementLag() = %f, want 3", got)
	}

	if got := AverageSettlementLag(nil); got != 0 {
		t.Errorf("AverageSettlementLag(empty) = %f, want 0", got)
	}
}

func TestConcentration(t *testing.T) {
	groups := []model.AgingBucket{
		{Key: "a", Total: decimal.NewFromInt(500)},
		{Key: "b", Total: decimal.NewFromInt(300)},
		{Key: "c", Total: decimal.NewFromInt(150)},
		{Key: "d", Total: decimal.NewFromInt(50)},
	}
	grand := decimal.NewFromInt(1000)

	if got := Concentration(groups, grand, 2); got != 80 {
		t.Errorf("Concentration(top 2) = %f, want 80", got)
	}
	// Default N covers every group here.
	if got := Concentration(groups, grand, 0); got != 100 {
		t.Errorf("Concentration(default) = %f, want 100", got)
	}
	if got := Concentration(groups, decimal.Zero, 2); got != 0 {
		t.Errorf("Concentration(zero total) = %f, want 0", got)
	}
	if got := Concentration(nil, grand, 2); got != 0 {
		t.Errorf("Concentration(no groups) = %f, want 0", got)
	}
}

func TestComputeKPIs_EmptyPortfolio(t *testing.T) {
	report, err := Aggregate(nil, defaultOptions())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	kpis := ComputeKPIs(nil, report, KPIOptions{
		ReferenceDate:     reference,
		PurchasesInPeriod: decimal.Zero,
	})
	if kpis.DaysOutstanding != 0 || kpis.DelinquencyRatePct != 0 ||
		kpis.ConcentrationPct != 0 || kpis.AverageSettlementLag != 0 {
		t.Errorf("empty portfolio KPIs not all zero: %+v", kpis)
	}
}

func TestComputeKPIs_DefaultsDaysInPeriod(t *testing.T) {
	records := []model.LedgerRecord{record("r1", "a", 5, 30000)}
	report, err := Aggregate(records, defaultOptions())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	kpis := ComputeKPIs(records, report, KPIOptions{
		ReferenceDate:     reference,
		PurchasesInPeriod: decimal.NewFromInt(90000),
	})
	if kpis.DaysOutstanding != 10 {
		t.Errorf("DaysOutstanding = %d, want 10 (30-day default period)", kpis.DaysOutstanding)
	}
	if kpis.RecordCount != 1 {
		t.Errorf("RecordCount = %d, want 1", kpis.RecordCount)
	}
}
