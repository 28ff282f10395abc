package aging

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

func record(id, counterparty string, daysPastDue int, value int64) model.LedgerRecord {
	return model.LedgerRecord{
		ID:               id,
		CounterpartyID:   counterparty,
		CounterpartyName: counterparty,
		Category:         "general",
		Side:             model.SideReceivable,
		Status:           model.StatusPending,
		IssueDate:        reference.AddDate(0, -1, 0),
		DueDate:          reference.AddDate(0, 0, -daysPastDue),
		Value:            decimal.NewFromInt(value),
	}
}

func defaultOptions() Options {
	return Options{
		ReferenceDate: reference,
		Key:           KeyByCounterparty,
		Value:         ReceivableValue,
	}
}

func TestAggregate_ConcreteScenario(t *testing.T) {
	// Three records 5, 10 and 40 days overdue with values 100, 200, 300.
	records := []model.LedgerRecord{
		record("r1", "acme", 5, 100),
		record("r2", "acme", 10, 200),
		record("r3", "acme", 40, 300),
	}

	report, err := Aggregate(records, defaultOptions())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(report.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(report.Groups))
	}

	g := report.Groups[0]
	assertDecimal(t, "overdue_1_7", g.Overdue1To7, 100)
	assertDecimal(t, "overdue_8_15", g.Overdue8To15, 200)
	assertDecimal(t, "overdue_30_plus", g.Overdue30Plus, 300)
	assertDecimal(t, "total", g.Total, 600)

	// 100% overdue trips the percentage condition even though the
	// absolute 30+ amount is far below its threshold.
	if g.Urgency != model.UrgencyCritical {
		t.Errorf("urgency = %s, want critical", g.Urgency)
	}
}

func TestAggregate_BucketSumInvariant(t *testing.T) {
	records := []model.LedgerRecord{
		record("r1", "a", -3, 101),
		record("r2", "a", 0, 37),
		record("r3", "a", 4, 55),
		record("r4", "a", 12, 210),
		record("r5", "a", 22, 7),
		record("r6", "a", 90, 1234),
	}

	report, err := Aggregate(records, defaultOptions())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	g := report.Groups[0]
	sum := g.NotYetDue.Add(g.DueToday).Add(g.OverdueTotal())
	if !sum.Equal(g.Total) {
		t.Errorf("bucket sum %s != total %s", sum, g.Total)
	}
	if g.RecordCount != len(records) {
		t.Errorf("record count = %d, want %d", g.RecordCount, len(records))
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	report, err := Aggregate(nil, defaultOptions())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(report.Groups) != 0 {
		t.Errorf("got %d groups, want 0", len(report.Groups))
	}
	if !report.Totals.Total.IsZero() {
		t.Errorf("totals = %s, want 0", report.Totals.Total)
	}
	if report.Totals.Urgency != model.UrgencyLow {
		t.Errorf("urgency = %s, want low", report.Totals.Urgency)
	}
}

func TestAggregate_MissingDueDateSkipped(t *testing.T) {
	broken := record("r2", "acme", 0, 50)
	broken.DueDate = time.Time{}
	records := []model.LedgerRecord{
		record("r1", "acme", 5, 100),
		broken,
	}

	report, err := Aggregate(records, defaultOptions())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].ID != "r2" {
		t.Fatalf("skipped = %v, want [r2]", report.Skipped)
	}
	assertDecimal(t, "total excludes skipped", report.Totals.Total, 100)
}

func TestAggregate_SortContract(t *testing.T) {
	// low urgency but big total, critical small, high medium-sized.
	records := []model.LedgerRecord{
		record("r1", "calm-large", -10, 90000),
		record("r2", "critical-small", 45, 200),
		record("r3", "high-mid", 3, 16000),
		record("r4", "high-mid", -3, 40000),
	}

	report, err := Aggregate(records, defaultOptions())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	var got []string
	for _, g := range report.Groups {
		got = append(got, g.Key)
	}
	want := []string{"critical-small", "high-mid", "calm-large"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("group order = %v, want %v", got, want)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	records := []model.LedgerRecord{
		record("r1", "alpha", 5, 300),
		record("r2", "beta", 5, 300),
		record("r3", "gamma", 12, 40),
		record("r4", "alpha", 40, 11000),
	}

	first, err := Aggregate(records, defaultOptions())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	second, err := Aggregate(records, defaultOptions())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over identical input produced different reports")
	}
}

func TestAggregate_ClosedRecordsExcluded(t *testing.T) {
	settled := record("r2", "acme", 20, 500)
	settled.Status = model.StatusSettled
	settled.PaidValue = decimal.NewFromInt(500)
	cancelled := record("r3", "acme", 20, 700)
	cancelled.Status = model.StatusCancelled

	report, err := Aggregate([]model.LedgerRecord{
		record("r1", "acme", 5, 100), settled, cancelled,
	}, defaultOptions())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	assertDecimal(t, "total", report.Totals.Total, 100)
}

func TestAggregate_OptionValidation(t *testing.T) {
	opts := defaultOptions()
	opts.Key = nil
	if _, err := Aggregate(nil, opts); !errors.Is(err, ErrNilKeyFunc) {
		t.Errorf("nil key: error = %v", err)
	}

	opts = defaultOptions()
	opts.Value = nil
	if _, err := Aggregate(nil, opts); !errors.Is(err, ErrNilValueFunc) {
		t.Errorf("nil value: error = %v", err)
	}

	opts = defaultOptions()
	opts.ReferenceDate = time.Time{}
	if _, err := Aggregate(nil, opts); !errors.Is(err, ErrZeroReference) {
		t.Errorf("zero reference: error = %v", err)
	}
}

func TestClassifyUrgency(t *testing.T) {
	d := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

	tests := []struct {
		name          string
		overdueTotal  int64
		overdue30Plus int64
		total         int64
		want          model.Urgency
	}{
		{"all zero", 0, 0, 0, model.UrgencyLow},
		{"nothing overdue", 0, 0, 100000, model.UrgencyLow},
		{"just over 10 percent", 1100, 0, 10000, model.UrgencyMedium},
		{"exactly 10 percent stays low", 1000, 0, 10000, model.UrgencyLow},
		{"absolute medium threshold", 5001, 0, 100000, model.UrgencyMedium},
		{"just over 25 percent", 2600, 0, 10000, model.UrgencyHigh},
		{"absolute high threshold", 15001, 0, 200000, model.UrgencyHigh},
		{"just over 50 percent", 5100, 0, 10000, model.UrgencyCritical},
		{"absolute critical threshold", 2000, 10001, 100000, model.UrgencyCritical},
		{"critical by value despite tiny percentage", 10500, 10500, 1000000, model.UrgencyCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyUrgency(d(tt.overdueTotal), d(tt.overdue30Plus), d(tt.total))
			if got != tt.want {
				t.Errorf("ClassifyUrgency() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyUrgency_Monotonic(t *testing.T) {
	// Growing the 30+ bucket while holding everything else fixed can only
	// move urgency toward critical.
	total := decimal.NewFromInt(100000)
	prev := model.UrgencyLow
	for v := int64(0); v <= 60000; v += 500 {
		overdue := decimal.NewFromInt(v)
		got := ClassifyUrgency(overdue, overdue, total.Add(overdue))
		if got > prev {
			t.Fatalf("overdue30plus=%d: urgency %s moved away from critical (was %s)", v, got, prev)
		}
		prev = got
	}
}

func assertDecimal(t *testing.T, label string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s = %s, want %d", label, got, want)
	}
}
