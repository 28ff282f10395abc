// Package risk scores counterparty creditworthiness from aggregated
// payment-history factors.
//
// The formula is a fixed, explainable heuristic. It is deliberately not a
// model: every weight below is part of the contract with downstream credit
// policy and must not be tuned without changing that contract.
package risk

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

// Scoring weights. They sum to 1.0 across the five factor terms.
const (
	weightPaymentHistory = 0.40
	weightDelay          = 0.20
	weightRelationship   = 0.15
	weightNegativeEvents = 0.15
	weightFrequency      = 0.10

	// Normalization caps for the ratio terms.
	fullRelationshipMonths = 60
	fullPurchaseFrequency  = 10

	// Penalty slopes.
	delayPenaltyPerDay       = 2
	negativeEventPenaltyEach = 10
)

// Score reduces a counterparty's factors to a clamped [0,100] score with
// category, trend and credit recommendations.
func Score(counterpartyID, counterpartyName string, f model.RiskFactors) model.RiskScore {
	raw := f.PaymentHistoryPct*weightPaymentHistory +
		math.Min(f.RelationshipMonths/fullRelationshipMonths, 1)*100*weightRelationship +
		math.Max(0, 100-f.AverageDelayDays*delayPenaltyPerDay)*weightDelay +
		math.Min(f.PurchaseFrequency/fullPurchaseFrequency, 1)*100*weightFrequency +
		math.Max(0, 100-float64(f.NegativeEvents)*negativeEventPenaltyEach)*weightNegativeEvents

	score := int(math.Round(math.Min(math.Max(raw, 0), 100)))

	return model.RiskScore{
		CounterpartyID:   counterpartyID,
		CounterpartyName: counterpartyName,
		Score:            score,
		Category:         Categorize(score),
		Trend:            trendOf(f),
		Factors:          f,
		Recommendations:  Recommend(score, f.AverageTicket),
	}
}

// Categorize maps a score to its credit grade. The boundaries form a
// non-overlapping partition of [0,100].
func Categorize(score int) model.RiskCategory {
	switch {
	case score >= 80:
		return model.RiskExcellent
	case score >= 60:
		return model.RiskGood
	case score >= 40:
		return model.RiskRegular
	case score >= 20:
		return model.RiskBad
	default:
		return model.RiskCritical
	}
}

// trendOf derives the direction of payment behavior from the current
// average delay. A zero delay means nothing is running late right now.
func trendOf(f model.RiskFactors) model.RiskTrend {
	switch {
	case f.AverageDelayDays == 0:
		return model.TrendImproving
	case f.AverageDelayDays <= 5:
		return model.TrendStable
	default:
		return model.TrendWorsening
	}
}

// Recommend derives credit-policy suggestions from the score and the
// counterparty's average ticket.
func Recommend(score int, averageTicket decimal.Decimal) model.RiskRecommendations {
	limit := averageTicket.
		Mul(decimal.NewFromInt(int64(score))).
		Mul(decimal.NewFromInt(3)).
		Div(decimal.NewFromInt(100)).
		Round(0)

	return model.RiskRecommendations{
		CreditLimit:          limit,
		MaxTermDays:          maxTermDays(score),
		RequiresCreditReview: score < 60,
		RequiresCollateral:   score < 40,
	}
}

func maxTermDays(score int) int {
	switch {
	case score >= 80:
		return 60
	case score >= 60:
		return 45
	case score >= 40:
		return 30
	case score >= 20:
		return 15
	default:
		return 0
	}
}
