package aging

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

// Aggregation errors.
var (
	ErrNilKeyFunc    = errors.New("key extractor cannot be nil")
	ErrNilValueFunc  = errors.New("value extractor cannot be nil")
	ErrZeroReference = errors.New("reference date cannot be zero")
)

// KeyFunc extracts the grouping key and display name for a record.
type KeyFunc func(model.LedgerRecord) (key, name string)

// ValueFunc extracts the amount a record contributes to its bucket.
type ValueFunc func(model.LedgerRecord) decimal.Decimal

// PayableValue sums payables by absolute value, since outflows may be
// stored negative.
func PayableValue(r model.LedgerRecord) decimal.Decimal {
	return r.Value.Abs()
}

// ReceivableValue sums receivables by their remaining balance.
func ReceivableValue(r model.LedgerRecord) decimal.Decimal {
	return r.Value.Sub(r.PaidValue)
}

// ValueForSide picks the extractor matching a ledger side.
func ValueForSide(side model.LedgerSide) ValueFunc {
	if side == model.SideReceivable {
		return ReceivableValue
	}
	return PayableValue
}

// KeyByCounterparty groups by counterparty, falling back to the category
// label when the counterparty is unknown.
func KeyByCounterparty(r model.LedgerRecord) (string, string) {
	if r.CounterpartyID != "" {
		return r.CounterpartyID, r.CounterpartyName
	}
	return "category:" + r.Category, r.Category
}

// KeyByCategory groups by the free-text category label.
func KeyByCategory(r model.LedgerRecord) (string, string) {
	return r.Category, r.Category
}

// Options configures a single aggregation run. The reference date is
// explicit so results are reproducible; callers that want "now" pass it in.
type Options struct {
	ReferenceDate time.Time
	Key           KeyFunc
	Value         ValueFunc
	IncludeClosed bool
}

// Report is the full output of one aggregation: sorted groups, grand
// totals, and the records that could not be bucketed.
type Report struct {
	ReferenceDate time.Time
	Groups        []model.AgingBucket
	Totals        model.AgingTotals
	Skipped       []model.LedgerRecord
}

// Aggregate buckets every record by its due date, sums values per group,
// classifies each group's urgency and sorts groups most urgent first,
// larger totals first within the same urgency.
//
// Records without a due date are collected into Skipped rather than being
// silently assigned a bucket. An empty input yields an empty group list
// and zero totals, never an error.
func Aggregate(records []model.LedgerRecord, opts Options) (*Report, error) {
	if opts.Key == nil {
		return nil, ErrNilKeyFunc
	}
	if opts.Value == nil {
		return nil, ErrNilValueFunc
	}
	if opts.ReferenceDate.IsZero() {
		return nil, ErrZeroReference
	}

	report := &Report{ReferenceDate: opts.ReferenceDate}
	groups := make(map[string]*model.AgingBucket)
	order := make([]string, 0)

	for _, rec := range records {
		if !opts.IncludeClosed && !rec.Open() {
			continue
		}
		if rec.DueDate.IsZero() {
			report.Skipped = append(report.Skipped, rec)
			continue
		}

		bucket, err := ClassifyBucket(rec.DueDate, opts.ReferenceDate)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}

		key, name := opts.Key(rec)
		group, ok := groups[key]
		if !ok {
			group = &model.AgingBucket{Key: key, Name: name}
			groups[key] = group
			order = append(order, key)
		}
		group.Add(bucket, opts.Value(rec))
	}

	report.Groups = make([]model.AgingBucket, 0, len(order))
	for _, key := range order {
		group := groups[key]
		group.Urgency = ClassifyUrgency(group.OverdueTotal(), group.Overdue30Plus, group.Total)
		report.Groups = append(report.Groups, *group)
		report.Totals.AddGroup(group)
	}
	report.Totals.Urgency = ClassifyUrgency(
		report.Totals.OverdueTotal(), report.Totals.Overdue30Plus, report.Totals.Total)

	sortGroups(report.Groups)
	return report, nil
}

// sortGroups orders by urgency rank (critical first), then total
// descending. The key tiebreak keeps output deterministic when two groups
// match on both.
func sortGroups(groups []model.AgingBucket) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Urgency != groups[j].Urgency {
			return groups[i].Urgency < groups[j].Urgency
		}
		if !groups[i].Total.Equal(groups[j].Total) {
			return groups[i].Total.GreaterThan(groups[j].Total)
		}
		return groups[i].Key < groups[j].Key
	})
}

// Urgency thresholds. Percentage and absolute-value conditions are
// deliberately disjunctive; they must not be folded into a weighted score.
var (
	criticalAbsolute = decimal.NewFromInt(10000)
	highAbsolute     = decimal.NewFromInt(15000)
	mediumAbsolute   = decimal.NewFromInt(5000)
)

// ClassifyUrgency derives the urgency label from the overdue totals of a
// group or portfolio. First match wins.
func ClassifyUrgency(overdueTotal, overdue30Plus, total decimal.Decimal) model.Urgency {
	pct := 0.0
	if total.IsPositive() {
		pct, _ = overdueTotal.Div(total).Mul(decimal.NewFromInt(100)).Float64()
	}

	switch {
	case pct > 50 || overdue30Plus.GreaterThan(criticalAbsolute):
		return model.UrgencyCritical
	case pct > 25 || overdueTotal.GreaterThan(highAbsolute):
		return model.UrgencyHigh
	case pct > 10 || overdueTotal.GreaterThan(mediumAbsolute):
		return model.UrgencyMedium
	default:
		return model.UrgencyLow
	}
}
