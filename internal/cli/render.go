package cli

import (
	"fmt"
	"strings"

	"github.com/JeanZorzetti/orion-analytics/internal/aging"
	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

// RenderAgingReport formats an aging report as a fixed-width terminal
// table with a totals line.
func RenderAgingReport(rep *aging.Report) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Aging Report"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("as of %s", rep.ReferenceDate.Format("2006-01-02"))))
	b.WriteString("\n\n")

	if len(rep.Groups) == 0 {
		b.WriteString(SubtleStyle.Render("No open records."))
		b.WriteString("\n")
		return b.String()
	}

	header := fmt.Sprintf("%-28s %12s %12s %12s %12s %12s %12s %14s  %s",
		"GROUP", "NOT DUE", "TODAY", "1-7d", "8-15d", "16-30d", "30d+", "TOTAL", "URGENCY")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, g := range rep.Groups {
		name := g.Name
		if name == "" {
			name = g.Key
		}
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		line := fmt.Sprintf("%-28s %12s %12s %12s %12s %12s %12s %14s  %s",
			name,
			g.NotYetDue.StringFixed(2), g.DueToday.StringFixed(2),
			g.Overdue1To7.StringFixed(2), g.Overdue8To15.StringFixed(2),
			g.Overdue16To30.StringFixed(2), g.Overdue30Plus.StringFixed(2),
			g.Total.StringFixed(2),
			UrgencyStyle(g.Urgency).Render(g.Urgency.String()))
		b.WriteString(line)
		b.WriteString("\n")
	}

	t := rep.Totals
	b.WriteString("\n")
	b.WriteString(BoldStyle.Render(fmt.Sprintf("%-28s %12s %12s %12s %12s %12s %12s %14s  %s",
		"TOTAL",
		t.NotYetDue.StringFixed(2), t.DueToday.StringFixed(2),
		t.Overdue1To7.StringFixed(2), t.Overdue8To15.StringFixed(2),
		t.Overdue16To30.StringFixed(2), t.Overdue30Plus.StringFixed(2),
		t.Total.StringFixed(2),
		t.Urgency.String())))
	b.WriteString("\n")

	if len(rep.Skipped) > 0 {
		b.WriteString(WarningStyle.Render(
			fmt.Sprintf("\n%d record(s) skipped: missing due date\n", len(rep.Skipped))))
	}

	return b.String()
}

// RenderKPIs formats the portfolio KPI set as labeled cards.
func RenderKPIs(kpis model.KPISet) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Portfolio KPIs"))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Outstanding total", kpis.OutstandingTotal.StringFixed(2)},
		{"Days outstanding", fmt.Sprintf("%d", kpis.DaysOutstanding)},
		{"Avg settlement lag", fmt.Sprintf("%.1f days", kpis.AverageSettlementLag)},
		{"Delinquency rate", fmt.Sprintf("%.1f%%", kpis.DelinquencyRatePct)},
		{"Top-5 concentration", fmt.Sprintf("%.1f%%", kpis.ConcentrationPct)},
		{"Records analyzed", fmt.Sprintf("%d", kpis.RecordCount)},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-22s %s\n",
			SubtleStyle.Render(row.label), BoldStyle.Render(row.value)))
	}

	return b.String()
}

// RenderRiskScores formats counterparty risk scores, riskiest first.
func RenderRiskScores(scores []model.RiskScore) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Counterparty Risk"))
	b.WriteString("\n\n")

	if len(scores) == 0 {
		b.WriteString(SubtleStyle.Render("No counterparties with history."))
		b.WriteString("\n")
		return b.String()
	}

	header := fmt.Sprintf("%-28s %6s %-10s %-10s %14s %6s %7s %11s",
		"COUNTERPARTY", "SCORE", "CATEGORY", "TREND", "CREDIT LIMIT", "TERM", "REVIEW", "COLLATERAL")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, s := range scores {
		name := s.CounterpartyName
		if name == "" {
			name = s.CounterpartyID
		}
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		b.WriteString(fmt.Sprintf("%-28s %6d %-10s %-10s %14s %5dd %7s %11s\n",
			name,
			s.Score,
			CategoryStyle(s.Category).Render(string(s.Category)),
			string(s.Trend),
			s.Recommendations.CreditLimit.StringFixed(2),
			s.Recommendations.MaxTermDays,
			yesNo(s.Recommendations.RequiresCreditReview),
			yesNo(s.Recommendations.RequiresCollateral)))
	}

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
