package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/JeanZorzetti/orion-analytics/internal/service"
)

// CSVWriter implements the ReportWriter interface, emitting the aging
// table followed by a risk section.
type CSVWriter struct {
	w io.Writer
}

// NewCSVWriter wraps an output stream.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// Write renders the payload as CSV.
func (c *CSVWriter) Write(_ context.Context, payload *service.ReportPayload) error {
	out := csv.NewWriter(c.w)

	if err := writeSection(out, AgingHeader, AgingRows(payload.Groups, payload.Totals)); err != nil {
		return fmt.Errorf("failed to write aging section: %w", err)
	}

	if len(payload.Scores) > 0 {
		// Blank line between sections.
		if err := out.Write([]string{}); err != nil {
			return fmt.Errorf("failed to write separator: %w", err)
		}
		if err := writeSection(out, RiskHeader, RiskRows(payload.Scores)); err != nil {
			return fmt.Errorf("failed to write risk section: %w", err)
		}
	}

	out.Flush()
	return out.Error()
}

func writeSection(out *csv.Writer, header []string, rows []Row) error {
	if err := out.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = formatField(v)
		}
		if err := out.Write(fields); err != nil {
			return err
		}
	}
	return nil
}

func formatField(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
