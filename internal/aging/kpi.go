package aging

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

// DefaultConcentrationTopN is the number of groups considered by the
// concentration ratio when the caller does not specify one.
const DefaultConcentrationTopN = 5

// KPIOptions configures portfolio KPI derivation.
type KPIOptions struct {
	ReferenceDate     time.Time
	PurchasesInPeriod decimal.Decimal
	DaysInPeriod      int
	TopN              int
}

// DaysOutstanding estimates how long outstanding balances remain
// unsettled: outstanding / purchases * daysInPeriod, rounded. Zero
// purchases yields 0, never a division error.
func DaysOutstanding(outstanding, purchases decimal.Decimal, daysInPeriod int) int {
	if !purchases.IsPositive() {
		return 0
	}
	v, _ := outstanding.Div(purchases).Mul(decimal.NewFromInt(int64(daysInPeriod))).Float64()
	return int(math.Round(v))
}

// DelinquencyRate returns the percentage of records settled late or
// currently past due: reconciled after the due date, or unreconciled with
// a due date before the reference date. Lateness counts whole calendar
// days, matching the bucketer: a record due today is not delinquent no
// matter the time of day on either side.
func DelinquencyRate(records []model.LedgerRecord, reference time.Time) float64 {
	if len(records) == 0 {
		return 0
	}
	late := 0
	for _, rec := range records {
		if rec.Reconciled {
			if !rec.ReconciliationDate.IsZero() && DaysPastDue(rec.DueDate, rec.ReconciliationDate) > 0 {
				late++
			}
			continue
		}
		if !rec.DueDate.IsZero() && DaysPastDue(rec.DueDate, reference) > 0 {
			late++
		}
	}
	return float64(late) / float64(len(records)) * 100
}

// AverageSettlementLag returns the mean days between due date and
// reconciliation among reconciled records, floored at zero per record so
// early payments do not offset late ones. 0 when nothing is reconciled.
func AverageSettlementLag(records []model.LedgerRecord) float64 {
	total, count := 0, 0
	for _, rec := range records {
		if !rec.Reconciled || rec.ReconciliationDate.IsZero() || rec.DueDate.IsZero() {
			continue
		}
		lag := DaysPastDue(rec.DueDate, rec.ReconciliationDate)
		if lag < 0 {
			lag = 0
		}
		total += lag
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// Concentration returns the share of the grand total held by the top-N
// groups, as a percentage. 0 when the grand total is zero.
func Concentration(groups []model.AgingBucket, grandTotal decimal.Decimal, topN int) float64 {
	if !grandTotal.IsPositive() || len(groups) == 0 {
		return 0
	}
	if topN <= 0 {
		topN = DefaultConcentrationTopN
	}

	byTotal := make([]decimal.Decimal, len(groups))
	for i, g := range groups {
		byTotal[i] = g.Total
	}
	sort.Slice(byTotal, func(i, j int) bool {
		return byTotal[i].GreaterThan(byTotal[j])
	})

	if topN > len(byTotal) {
		topN = len(byTotal)
	}
	top := decimal.Zero
	for _, t := range byTotal[:topN] {
		top = top.Add(t)
	}
	pct, _ := top.Div(grandTotal).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// ComputeKPIs derives the portfolio KPI set from raw records and an
// already-aggregated report. Degenerate inputs (empty lists, zero
// denominators) yield zeros throughout.
func ComputeKPIs(records []model.LedgerRecord, report *Report, opts KPIOptions) model.KPISet {
	days := opts.DaysInPeriod
	if days <= 0 {
		days = 30
	}
	return model.KPISet{
		OutstandingTotal:     report.Totals.Total,
		DaysOutstanding:      DaysOutstanding(report.Totals.Total, opts.PurchasesInPeriod, days),
		AverageSettlementLag: AverageSettlementLag(records),
		DelinquencyRatePct:   DelinquencyRate(records, opts.ReferenceDate),
		ConcentrationPct:     Concentration(report.Groups, report.Totals.Total, opts.TopN),
		RecordCount:          len(records),
	}
}
