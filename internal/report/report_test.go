package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
	"github.com/JeanZorzetti/orion-analytics/internal/service"
)

func samplePayload() *service.ReportPayload {
	group := model.AgingBucket{
		Key:  "cp-1",
		Name: "Fornecedor Alfa",
	}
	group.Add(model.BucketOverdue1To7, decimal.NewFromInt(100))
	group.Add(model.BucketOverdue30Plus, decimal.NewFromInt(300))
	group.Urgency = model.UrgencyCritical

	var totals model.AgingTotals
	totals.AddGroup(&group)
	totals.Urgency = model.UrgencyCritical

	score := model.RiskScore{
		CounterpartyID:   "cp-1",
		CounterpartyName: "Fornecedor Alfa",
		Score:            35,
		Category:         model.RiskBad,
		Trend:            model.TrendWorsening,
		Factors:          model.RiskFactors{AverageDelayDays: 12},
		Recommendations: model.RiskRecommendations{
			CreditLimit:          decimal.NewFromInt(900),
			MaxTermDays:          15,
			RequiresCreditReview: true,
			RequiresCollateral:   true,
		},
	}

	return &service.ReportPayload{
		Groups: []model.AgingBucket{group},
		Totals: totals,
		KPIs:   model.KPISet{DaysOutstanding: 10},
		Scores: []model.RiskScore{score},
	}
}

func TestAgingRows(t *testing.T) {
	p := samplePayload()
	rows := AgingRows(p.Groups, p.Totals)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want group + totals", len(rows))
	}
	if rows[0][0] != "Fornecedor Alfa" {
		t.Errorf("group label = %v", rows[0][0])
	}
	if rows[1][0] != "TOTAL" {
		t.Errorf("last row label = %v, want TOTAL", rows[1][0])
	}
	if rows[0][7] != "400" {
		t.Errorf("group total = %v, want 400", rows[0][7])
	}

	// Rows must contain only plain primitives.
	for _, row := range rows {
		for i, v := range row {
			switch v.(type) {
			case string, int, float64, bool:
			default:
				t.Errorf("column %d has non-primitive type %T", i, v)
			}
		}
	}
}

func TestKPICards(t *testing.T) {
	current := model.KPISet{
		OutstandingTotal:   decimal.NewFromInt(400),
		DaysOutstanding:    10,
		DelinquencyRatePct: 50,
	}

	cards := KPICards(current, nil)
	if len(cards) != 5 {
		t.Fatalf("got %d cards, want 5", len(cards))
	}
	for _, c := range cards {
		if c.PercentageChange != nil {
			t.Errorf("card %q has change without a previous period", c.Label)
		}
	}

	previous := model.KPISet{
		OutstandingTotal:   decimal.NewFromInt(200),
		DelinquencyRatePct: 25,
	}
	cards = KPICards(current, &previous)
	if cards[0].PercentageChange == nil || *cards[0].PercentageChange != 100 {
		t.Errorf("outstanding change = %v, want 100", cards[0].PercentageChange)
	}
	// Previous days-outstanding is zero, so no change figure.
	if cards[1].PercentageChange != nil {
		t.Errorf("days outstanding change = %v, want nil on zero base", *cards[1].PercentageChange)
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVWriter(&buf).Write(context.Background(), samplePayload()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != strings.Join(AgingHeader, ",") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(out, "Fornecedor Alfa,0,0,100,0,0,300,400,2,critical") {
		t.Errorf("missing aging row in:\n%s", out)
	}
	if !strings.Contains(out, strings.Join(RiskHeader, ",")) {
		t.Error("missing risk header")
	}
	if !strings.Contains(out, "35,bad,worsening") {
		t.Errorf("missing risk row in:\n%s", out)
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONWriter(&buf).Write(context.Background(), samplePayload()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := doc["aging"]; !ok {
		t.Error("missing aging section")
	}
	risk, ok := doc["risk"].([]any)
	if !ok || len(risk) != 1 {
		t.Fatalf("risk section = %v", doc["risk"])
	}
	entry := risk[0].(map[string]any)
	if entry["score"] != float64(35) || entry["needs_collateral"] != true {
		t.Errorf("risk entry = %v", entry)
	}
}
