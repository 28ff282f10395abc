// Package report shapes computed analytics into plain tabular rows and
// writes them as CSV or JSON documents. Writers do no computation of
// their own; everything arrives pre-aggregated.
package report

import (
	"math"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
	"github.com/JeanZorzetti/orion-analytics/internal/service"
)

// AgingHeader is the column layout of an aging report.
var AgingHeader = []string{
	"group", "not_yet_due", "due_today", "overdue_1_7", "overdue_8_15",
	"overdue_16_30", "overdue_30_plus", "total", "records", "urgency",
}

// RiskHeader is the column layout of a risk report.
var RiskHeader = []string{
	"counterparty", "score", "category", "trend", "payment_history_pct",
	"avg_delay_days", "credit_limit", "max_term_days", "needs_review", "needs_collateral",
}

// Row is a single tabular line of string/number primitives.
type Row []any

// AgingRows flattens groups plus a trailing totals line into rows.
func AgingRows(groups []model.AgingBucket, totals model.AgingTotals) []Row {
	rows := make([]Row, 0, len(groups)+1)
	for _, g := range groups {
		name := g.Name
		if name == "" {
			name = g.Key
		}
		rows = append(rows, Row{
			name,
			g.NotYetDue.String(), g.DueToday.String(),
			g.Overdue1To7.String(), g.Overdue8To15.String(),
			g.Overdue16To30.String(), g.Overdue30Plus.String(),
			g.Total.String(), g.RecordCount, g.Urgency.String(),
		})
	}
	rows = append(rows, Row{
		"TOTAL",
		totals.NotYetDue.String(), totals.DueToday.String(),
		totals.Overdue1To7.String(), totals.Overdue8To15.String(),
		totals.Overdue16To30.String(), totals.Overdue30Plus.String(),
		totals.Total.String(), totals.RecordCount, totals.Urgency.String(),
	})
	return rows
}

// RiskRows flattens risk scores into rows, in the order given.
func RiskRows(scores []model.RiskScore) []Row {
	rows := make([]Row, 0, len(scores))
	for _, s := range scores {
		name := s.CounterpartyName
		if name == "" {
			name = s.CounterpartyID
		}
		rows = append(rows, Row{
			name, s.Score, string(s.Category), string(s.Trend),
			round2(s.Factors.PaymentHistoryPct), round2(s.Factors.AverageDelayDays),
			s.Recommendations.CreditLimit.String(), s.Recommendations.MaxTermDays,
			s.Recommendations.RequiresCreditReview, s.Recommendations.RequiresCollateral,
		})
	}
	return rows
}

// KPICards converts a KPI set into summary cards. When a previous period
// is supplied each card carries its percentage change; a zero previous
// value yields no change figure rather than a division blowup.
func KPICards(current model.KPISet, previous *model.KPISet) []model.SummaryCard {
	outstanding, _ := current.OutstandingTotal.Float64()

	cards := []model.SummaryCard{
		{Label: "Outstanding total", Value: outstanding},
		{Label: "Days outstanding", Value: float64(current.DaysOutstanding)},
		{Label: "Average settlement lag (days)", Value: round2(current.AverageSettlementLag)},
		{Label: "Delinquency rate (%)", Value: round2(current.DelinquencyRatePct)},
		{Label: "Top-5 concentration (%)", Value: round2(current.ConcentrationPct)},
	}

	if previous == nil {
		return cards
	}

	prevOutstanding, _ := previous.OutstandingTotal.Float64()
	prevValues := []float64{
		prevOutstanding,
		float64(previous.DaysOutstanding),
		previous.AverageSettlementLag,
		previous.DelinquencyRatePct,
		previous.ConcentrationPct,
	}
	for i := range cards {
		if prevValues[i] == 0 {
			continue
		}
		change := round2((cards[i].Value - prevValues[i]) / prevValues[i] * 100)
		cards[i].PercentageChange = &change
	}
	return cards
}

// Payload assembles the writer payload from computed parts.
func Payload(groups []model.AgingBucket, totals model.AgingTotals, kpis model.KPISet, scores []model.RiskScore) *service.ReportPayload {
	return &service.ReportPayload{
		Groups: groups,
		Totals: totals,
		KPIs:   kpis,
		Scores: scores,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
