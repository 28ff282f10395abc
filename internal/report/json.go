package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
	"github.com/JeanZorzetti/orion-analytics/internal/service"
)

// JSONWriter implements the ReportWriter interface with a stable
// machine-readable document.
type JSONWriter struct {
	w io.Writer
}

// NewJSONWriter wraps an output stream.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

type jsonDocument struct {
	ReferenceDate string              `json:"reference_date,omitempty"`
	Aging         jsonAging           `json:"aging"`
	KPIs          []model.SummaryCard `json:"kpis"`
	Risk          []jsonRisk          `json:"risk,omitempty"`
}

type jsonAging struct {
	Header []string `json:"header"`
	Rows   []Row    `json:"rows"`
}

type jsonRisk struct {
	Counterparty    string  `json:"counterparty"`
	Score           int     `json:"score"`
	Category        string  `json:"category"`
	Trend           string  `json:"trend"`
	CreditLimit     string  `json:"credit_limit"`
	MaxTermDays     int     `json:"max_term_days"`
	NeedsReview     bool    `json:"needs_review"`
	NeedsCollateral bool    `json:"needs_collateral"`
	AvgDelayDays    float64 `json:"avg_delay_days"`
}

// Write renders the payload as an indented JSON document.
func (j *JSONWriter) Write(_ context.Context, payload *service.ReportPayload) error {
	doc := jsonDocument{
		Aging: jsonAging{
			Header: AgingHeader,
			Rows:   AgingRows(payload.Groups, payload.Totals),
		},
		KPIs: KPICards(payload.KPIs, nil),
	}
	if !payload.ReferenceDate.IsZero() {
		doc.ReferenceDate = payload.ReferenceDate.Format("2006-01-02")
	}

	for _, s := range payload.Scores {
		name := s.CounterpartyName
		if name == "" {
			name = s.CounterpartyID
		}
		doc.Risk = append(doc.Risk, jsonRisk{
			Counterparty:    name,
			Score:           s.Score,
			Category:        string(s.Category),
			Trend:           string(s.Trend),
			CreditLimit:     s.Recommendations.CreditLimit.String(),
			MaxTermDays:     s.Recommendations.MaxTermDays,
			NeedsReview:     s.Recommendations.RequiresCreditReview,
			NeedsCollateral: s.Recommendations.RequiresCollateral,
			AvgDelayDays:    s.Factors.AverageDelayDays,
		})
	}

	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
