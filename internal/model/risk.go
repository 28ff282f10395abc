package model

import (
	"github.com/shopspring/decimal"
)

// RiskCategory is the credit grade derived from a risk score.
type RiskCategory string

const (
	RiskExcellent RiskCategory = "excellent"
	RiskGood      RiskCategory = "good"
	RiskRegular   RiskCategory = "regular"
	RiskBad       RiskCategory = "bad"
	RiskCritical  RiskCategory = "critical"
)

// RiskTrend indicates the direction a counterparty's payment behavior
// is moving.
type RiskTrend string

const (
	TrendImproving RiskTrend = "improving"
	TrendStable    RiskTrend = "stable"
	TrendWorsening RiskTrend = "worsening"
)

// RiskFactors are the raw inputs of the scoring formula, aggregated per
// counterparty from its record history.
type RiskFactors struct {
	AverageOverdueValue decimal.Decimal
	AverageTicket       decimal.Decimal
	PaymentHistoryPct   float64
	AverageDelayDays    float64
	PurchaseFrequency   float64
	RelationshipMonths  float64
	NegativeEvents      int
}

// RiskRecommendations are the credit-policy suggestions derived from a
// score and the counterparty's average ticket.
type RiskRecommendations struct {
	CreditLimit          decimal.Decimal
	MaxTermDays          int
	RequiresCreditReview bool
	RequiresCollateral   bool
}

// RiskScore is the full scoring result for one counterparty.
type RiskScore struct {
	CounterpartyID   string
	CounterpartyName string
	Category         RiskCategory
	Trend            RiskTrend
	Factors          RiskFactors
	Recommendations  RiskRecommendations
	Score            int
}
