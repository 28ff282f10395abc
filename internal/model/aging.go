package model

import (
	"github.com/shopspring/decimal"
)

// Bucket is a time-since-due-date classification for a single record.
type Bucket int

const (
	BucketNotYetDue Bucket = iota
	BucketDueToday
	BucketOverdue1To7
	BucketOverdue8To15
	BucketOverdue16To30
	BucketOverdue30Plus
)

// String returns the bucket label used in reports.
func (b Bucket) String() string {
	switch b {
	case BucketNotYetDue:
		return "not_yet_due"
	case BucketDueToday:
		return "due_today"
	case BucketOverdue1To7:
		return "overdue_1_7"
	case BucketOverdue8To15:
		return "overdue_8_15"
	case BucketOverdue16To30:
		return "overdue_16_30"
	case BucketOverdue30Plus:
		return "overdue_30_plus"
	default:
		return "unknown"
	}
}

// Urgency summarizes how overdue a group is. Lower values are more urgent;
// the zero value is intentionally the most severe so sorting by rank puts
// critical groups first.
type Urgency int

const (
	UrgencyCritical Urgency = iota
	UrgencyHigh
	UrgencyMedium
	UrgencyLow
)

// String returns the urgency label used in reports.
func (u Urgency) String() string {
	switch u {
	case UrgencyCritical:
		return "critical"
	case UrgencyHigh:
		return "high"
	case UrgencyMedium:
		return "medium"
	case UrgencyLow:
		return "low"
	default:
		return "unknown"
	}
}

// AgingBucket holds the per-group accumulators of an aging report.
type AgingBucket struct {
	Key           string
	Name          string
	NotYetDue     decimal.Decimal
	DueToday      decimal.Decimal
	Overdue1To7   decimal.Decimal
	Overdue8To15  decimal.Decimal
	Overdue16To30 decimal.Decimal
	Overdue30Plus decimal.Decimal
	Total         decimal.Decimal
	RecordCount   int
	Urgency       Urgency
}

// Add accumulates a value into the given bucket and the group total.
func (a *AgingBucket) Add(b Bucket, v decimal.Decimal) {
	switch b {
	case BucketNotYetDue:
		a.NotYetDue = a.NotYetDue.Add(v)
	case BucketDueToday:
		a.DueToday = a.DueToday.Add(v)
	case BucketOverdue1To7:
		a.Overdue1To7 = a.Overdue1To7.Add(v)
	case BucketOverdue8To15:
		a.Overdue8To15 = a.Overdue8To15.Add(v)
	case BucketOverdue16To30:
		a.Overdue16To30 = a.Overdue16To30.Add(v)
	case BucketOverdue30Plus:
		a.Overdue30Plus = a.Overdue30Plus.Add(v)
	}
	a.Total = a.Total.Add(v)
	a.RecordCount++
}

// OverdueTotal returns the sum of the four overdue buckets.
func (a *AgingBucket) OverdueTotal() decimal.Decimal {
	return a.Overdue1To7.
		Add(a.Overdue8To15).
		Add(a.Overdue16To30).
		Add(a.Overdue30Plus)
}

// OverduePercentage returns the overdue share of the group total, 0 when
// the total is zero.
func (a *AgingBucket) OverduePercentage() float64 {
	if !a.Total.IsPositive() {
		return 0
	}
	pct, _ := a.OverdueTotal().Div(a.Total).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// AgingTotals is the grand total across all groups of a report.
type AgingTotals struct {
	NotYetDue     decimal.Decimal
	DueToday      decimal.Decimal
	Overdue1To7   decimal.Decimal
	Overdue8To15  decimal.Decimal
	Overdue16To30 decimal.Decimal
	Overdue30Plus decimal.Decimal
	Total         decimal.Decimal
	RecordCount   int
	Urgency       Urgency
}

// AddGroup folds a group's accumulators into the grand totals.
func (t *AgingTotals) AddGroup(g *AgingBucket) {
	t.NotYetDue = t.NotYetDue.Add(g.NotYetDue)
	t.DueToday = t.DueToday.Add(g.DueToday)
	t.Overdue1To7 = t.Overdue1To7.Add(g.Overdue1To7)
	t.Overdue8To15 = t.Overdue8To15.Add(g.Overdue8To15)
	t.Overdue16To30 = t.Overdue16To30.Add(g.Overdue16To30)
	t.Overdue30Plus = t.Overdue30Plus.Add(g.Overdue30Plus)
	t.Total = t.Total.Add(g.Total)
	t.RecordCount += g.RecordCount
}

// OverdueTotal returns the sum of the four overdue buckets.
func (t *AgingTotals) OverdueTotal() decimal.Decimal {
	return t.Overdue1To7.
		Add(t.Overdue8To15).
		Add(t.Overdue16To30).
		Add(t.Overdue30Plus)
}

// OverduePercentage returns the overdue share of the grand total, 0 when
// the total is zero.
func (t *AgingTotals) OverduePercentage() float64 {
	if !t.Total.IsPositive() {
		return 0
	}
	pct, _ := t.OverdueTotal().Div(t.Total).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
