package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/JeanZorzetti/orion-analytics/internal/common"
	"github.com/JeanZorzetti/orion-analytics/internal/report"
	"github.com/JeanZorzetti/orion-analytics/internal/service"
)

// Tab names written by the report.
const (
	agingSheet = "Aging"
	kpiSheet   = "KPIs"
	riskSheet  = "Risk"
)

// Writer implements the ReportWriter interface for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: svc,
		logger:  logger,
	}, nil
}

// Write renders the payload into three tabs: the aging table, the KPI
// cards, and the per-counterparty risk table.
func (w *Writer) Write(ctx context.Context, payload *service.ReportPayload) error {
	w.logger.Info("starting report export",
		"groups", len(payload.Groups),
		"scores", len(payload.Scores),
		"reference_date", payload.ReferenceDate.Format("2006-01-02"))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	tabs := map[string][][]any{
		agingSheet: rowsToValues(report.AgingHeader, report.AgingRows(payload.Groups, payload.Totals)),
		kpiSheet:   kpiValues(payload),
		riskSheet:  rowsToValues(report.RiskHeader, report.RiskRows(payload.Scores)),
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	for name, values := range tabs {
		if err := w.ensureSheet(ctx, spreadsheetID, name); err != nil {
			return fmt.Errorf("failed to prepare tab %s: %w", name, err)
		}
		if err := common.WithRetry(ctx, func() error {
			return w.writeTab(ctx, spreadsheetID, name, values)
		}, retryOpts); err != nil {
			return fmt.Errorf("failed to write tab %s: %w", name, err)
		}
	}

	w.logger.Info("report export complete", "spreadsheet_id", spreadsheetID)
	return nil
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		return w.config.SpreadsheetID, nil
	}

	created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: w.config.SpreadsheetName,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	w.logger.Info("created spreadsheet",
		"id", created.SpreadsheetId, "title", w.config.SpreadsheetName)
	return created.SpreadsheetId, nil
}

// ensureSheet creates the named tab if it does not exist yet.
func (w *Writer) ensureSheet(ctx context.Context, spreadsheetID, name string) error {
	spreadsheet, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == name {
			return nil
		}
	}

	_, err = w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: name},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", name, err)
	}
	return nil
}

func (w *Writer) writeTab(ctx context.Context, spreadsheetID, name string, values [][]any) error {
	clearRange := fmt.Sprintf("%s!A:Z", name)
	if _, err := w.service.Spreadsheets.Values.Clear(
		spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear %s: %w", name, err)
	}

	// Large portfolios exceed the per-request payload limit, so rows go
	// up in batches.
	for start := 0; start < len(values); start += w.config.BatchSize {
		end := start + w.config.BatchSize
		if end > len(values) {
			end = len(values)
		}

		_, err := w.service.Spreadsheets.Values.Update(
			spreadsheetID, fmt.Sprintf("%s!A%d", name, start+1),
			&sheets.ValueRange{Values: values[start:end]}).
			ValueInputOption("RAW").
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", name, err)
		}
	}
	return nil
}

func rowsToValues(header []string, rows []report.Row) [][]any {
	values := make([][]any, 0, len(rows)+1)
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	values = append(values, headerRow)
	for _, row := range rows {
		values = append(values, []any(row))
	}
	return values
}

func kpiValues(payload *service.ReportPayload) [][]any {
	values := [][]any{{"label", "value"}}
	for _, card := range report.KPICards(payload.KPIs, nil) {
		values = append(values, []any{card.Label, card.Value})
	}
	return values
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	if config.ServiceAccountPath != "" {
		return sheets.NewService(ctx,
			option.WithCredentialsFile(config.ServiceAccountPath),
			option.WithScopes(sheets.SpreadsheetsScope))
	}

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
	token := &oauth2.Token{RefreshToken: config.RefreshToken}
	return sheets.NewService(ctx,
		option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
}
