package risk

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

func TestScore_PerfectHistory(t *testing.T) {
	f := model.RiskFactors{
		PaymentHistoryPct:  100,
		RelationshipMonths: 60,
		AverageDelayDays:   0,
		PurchaseFrequency:  10,
		NegativeEvents:     0,
		AverageTicket:      decimal.NewFromInt(1000),
	}

	got := Score("cp-1", "Perfect Customer", f)
	if got.Score != 100 {
		t.Errorf("score = %d, want 100", got.Score)
	}
	if got.Category != model.RiskExcellent {
		t.Errorf("category = %s, want excellent", got.Category)
	}
	if got.Trend != model.TrendImproving {
		t.Errorf("trend = %s, want improving", got.Trend)
	}
}

func TestScore_Clamped(t *testing.T) {
	extremes := []model.RiskFactors{
		{},
		{PaymentHistoryPct: -500, AverageDelayDays: 10000, NegativeEvents: 1000},
		{PaymentHistoryPct: 100000, RelationshipMonths: 100000, PurchaseFrequency: 100000},
		{PaymentHistoryPct: 250, RelationshipMonths: -5, AverageDelayDays: -30, PurchaseFrequency: -1},
	}

	for i, f := range extremes {
		got := Score("cp", "extreme", f)
		if got.Score < 0 || got.Score > 100 {
			t.Errorf("case %d: score %d outside [0,100]", i, got.Score)
		}
	}
}

func TestScore_WeightedFormula(t *testing.T) {
	// 80*0.40 + min(30/60,1)*100*0.15 + max(0,100-5*2)*0.20
	// + min(5/10,1)*100*0.10 + max(0,100-2*10)*0.15
	// = 32 + 7.5 + 18 + 5 + 12 = 74.5 -> 75
	f := model.RiskFactors{
		PaymentHistoryPct:  80,
		RelationshipMonths: 30,
		AverageDelayDays:   5,
		PurchaseFrequency:  5,
		NegativeEvents:     2,
	}

	got := Score("cp", "weighted", f)
	if got.Score != 75 {
		t.Errorf("score = %d, want 75", got.Score)
	}
	if got.Trend != model.TrendStable {
		t.Errorf("trend = %s, want stable", got.Trend)
	}
}

func TestCategorize_Partition(t *testing.T) {
	tests := []struct {
		score int
		want  model.RiskCategory
	}{
		{100, model.RiskExcellent},
		{80, model.RiskExcellent},
		{79, model.RiskGood},
		{60, model.RiskGood},
		{59, model.RiskRegular},
		{40, model.RiskRegular},
		{39, model.RiskBad},
		{20, model.RiskBad},
		{19, model.RiskCritical},
		{0, model.RiskCritical},
	}

	for _, tt := range tests {
		if got := Categorize(tt.score); got != tt.want {
			t.Errorf("Categorize(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestTrend(t *testing.T) {
	tests := []struct {
		delay float64
		want  model.RiskTrend
	}{
		{0, model.TrendImproving},
		{0.5, model.TrendStable},
		{5, model.TrendStable},
		{5.1, model.TrendWorsening},
		{40, model.TrendWorsening},
	}

	for _, tt := range tests {
		got := Score("cp", "t", model.RiskFactors{AverageDelayDays: tt.delay})
		if got.Trend != tt.want {
			t.Errorf("delay %.1f: trend = %s, want %s", tt.delay, got.Trend, tt.want)
		}
	}
}

func TestRecommend(t *testing.T) {
	ticket := decimal.NewFromInt(1000)

	tests := []struct {
		name         string
		score        int
		wantLimit    int64
		wantTerm     int
		wantReview   bool
		wantGuaranty bool
	}{
		{"excellent", 90, 2700, 60, false, false},
		{"boundary excellent", 80, 2400, 60, false, false},
		{"good", 60, 1800, 45, false, false},
		{"regular needs review", 50, 1500, 30, true, false},
		{"bad needs collateral", 30, 900, 15, true, true},
		{"critical gets nothing", 10, 300, 0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.score, ticket)
			if !got.CreditLimit.Equal(decimal.NewFromInt(tt.wantLimit)) {
				t.Errorf("credit limit = %s, want %d", got.CreditLimit, tt.wantLimit)
			}
			if got.MaxTermDays != tt.wantTerm {
				t.Errorf("max term = %d, want %d", got.MaxTermDays, tt.wantTerm)
			}
			if got.RequiresCreditReview != tt.wantReview {
				t.Errorf("requires review = %v, want %v", got.RequiresCreditReview, tt.wantReview)
			}
			if got.RequiresCollateral != tt.wantGuaranty {
				t.Errorf("requires collateral = %v, want %v", got.RequiresCollateral, tt.wantGuaranty)
			}
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	f := model.RiskFactors{
		PaymentHistoryPct:  63.7,
		RelationshipMonths: 17.2,
		AverageDelayDays:   3.4,
		PurchaseFrequency:  2.8,
		NegativeEvents:     1,
		AverageTicket:      decimal.RequireFromString("812.55"),
	}

	a := Score("cp", "same", f)
	b := Score("cp", "same", f)
	if a.Score != b.Score || a.Category != b.Category || !a.Recommendations.CreditLimit.Equal(b.Recommendations.CreditLimit) {
		t.Error("identical factors produced different scores")
	}
}
