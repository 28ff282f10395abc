package risk

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JeanZorzetti/orion-analytics/internal/aging"
	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

// averageMonthDays converts a relationship span in days to months.
const averageMonthDays = 30

// DeriveFactors aggregates a single counterparty's record history into
// scoring factors. An empty history yields zero factors, not an error;
// degenerate denominators yield zeros.
//
// NegativeEvents (protests, bounced instruments) are not derivable from
// ledger records; callers with access to a bureau feed set the field on
// the returned factors before scoring.
func DeriveFactors(records []model.LedgerRecord, reference time.Time) model.RiskFactors {
	var f model.RiskFactors
	if len(records) == 0 {
		return f
	}

	settled := 0
	delaySum := 0
	overdueCount := 0
	overdueValue := decimal.Zero
	ticketSum := decimal.Zero
	firstIssue := time.Time{}

	for _, rec := range records {
		if rec.Status == model.StatusSettled {
			settled++
		}
		if rec.Open() && !rec.DueDate.IsZero() {
			if days := aging.DaysPastDue(rec.DueDate, reference); days > 0 {
				delaySum += days
				overdueCount++
				overdueValue = overdueValue.Add(rec.Outstanding())
			}
		}
		ticketSum = ticketSum.Add(rec.Value.Abs())
		if !rec.IssueDate.IsZero() && (firstIssue.IsZero() || rec.IssueDate.Before(firstIssue)) {
			firstIssue = rec.IssueDate
		}
	}

	f.PaymentHistoryPct = float64(settled) / float64(len(records)) * 100
	if overdueCount > 0 {
		f.AverageDelayDays = float64(delaySum) / float64(overdueCount)
		f.AverageOverdueValue = overdueValue.Div(decimal.NewFromInt(int64(overdueCount)))
	}
	f.AverageTicket = ticketSum.Div(decimal.NewFromInt(int64(len(records))))

	if !firstIssue.IsZero() {
		days := aging.DaysPastDue(firstIssue, reference)
		if days > 0 {
			f.RelationshipMonths = float64(days) / averageMonthDays
		}
	}
	months := f.RelationshipMonths
	if months < 1 {
		months = 1
	}
	f.PurchaseFrequency = float64(len(records)) / months

	return f
}

// ScoreCounterparties groups records by counterparty, derives factors and
// scores each one. Records without a counterparty are ignored. Output is
// sorted riskiest first, name as tiebreak, so runs are deterministic.
func ScoreCounterparties(records []model.LedgerRecord, reference time.Time) []model.RiskScore {
	byCounterparty := make(map[string][]model.LedgerRecord)
	names := make(map[string]string)
	order := make([]string, 0)

	for _, rec := range records {
		if rec.CounterpartyID == "" {
			continue
		}
		if _, ok := byCounterparty[rec.CounterpartyID]; !ok {
			order = append(order, rec.CounterpartyID)
			names[rec.CounterpartyID] = rec.CounterpartyName
		}
		byCounterparty[rec.CounterpartyID] = append(byCounterparty[rec.CounterpartyID], rec)
	}

	scores := make([]model.RiskScore, 0, len(order))
	for _, id := range order {
		factors := DeriveFactors(byCounterparty[id], reference)
		scores = append(scores, Score(id, names[id], factors))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score < scores[j].Score
		}
		return scores[i].CounterpartyName < scores[j].CounterpartyName
	})
	return scores
}
