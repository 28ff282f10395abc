package model

import (
	"github.com/shopspring/decimal"
)

// KPISet holds the portfolio-level financial ratios derived from a record
// list and a reference date. Values are raw numbers; formatting is a
// presentation concern.
type KPISet struct {
	OutstandingTotal     decimal.Decimal
	DaysOutstanding      int
	AverageSettlementLag float64
	DelinquencyRatePct   float64
	ConcentrationPct     float64
	RecordCount          int
}

// SummaryCard is the shape report renderers consume for KPI tiles.
// PercentageChange is nil when there is no comparison period.
type SummaryCard struct {
	PercentageChange *float64
	Label            string
	Value            float64
}
