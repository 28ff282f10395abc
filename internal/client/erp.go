// Package client fetches ledger records from the Orion ERP REST API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JeanZorzetti/orion-analytics/internal/common"
	"github.com/JeanZorzetti/orion-analytics/internal/model"
	"github.com/JeanZorzetti/orion-analytics/internal/service"
)

// ERPClient implements the RecordFetcher interface against the ERP's
// ledger endpoint.
type ERPClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	retryOpts  service.RetryOptions
}

// Wire types. Amounts come over as strings so decimal precision survives
// the trip; an unparseable amount fails the fetch rather than being
// rounded through a float.
type recordsResponse struct {
	Records []wireRecord `json:"records"`
}

type wireRecord struct {
	ID                 string `json:"id"`
	CounterpartyID     string `json:"counterparty_id"`
	CounterpartyName   string `json:"counterparty_name"`
	Category           string `json:"category"`
	Side               string `json:"side"`
	Status             string `json:"status"`
	IssueDate          string `json:"issue_date"`
	DueDate            string `json:"due_date"`
	Value              string `json:"value"`
	PaidValue          string `json:"paid_value"`
	ReconciliationDate string `json:"reconciliation_date"`
	Reconciled         bool   `json:"reconciled"`
}

// NewERPClient creates a client for the given base URL and API token.
func NewERPClient(baseURL, token string, retryOpts service.RetryOptions) (*ERPClient, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: erp.base_url", common.ErrMissingConfig)
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("%w: erp.base_url must be an http(s) URL", common.ErrInvalidConfig)
	}

	return &ERPClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryOpts: retryOpts,
	}, nil
}

// FetchRecords pulls ledger records with due dates inside the given range.
// Transient failures (connection errors, 429s, 5xx) are retried with
// backoff.
func (c *ERPClient) FetchRecords(ctx context.Context, startDate, endDate time.Time) ([]model.LedgerRecord, error) {
	u, err := url.Parse(c.baseURL + "/api/v1/ledger/records")
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	q := u.Query()
	q.Set("due_from", startDate.Format("2006-01-02"))
	q.Set("due_to", endDate.Format("2006-01-02"))
	u.RawQuery = q.Encode()

	slog.Debug("Requesting ledger records",
		"due_from", startDate.Format("2006-01-02"),
		"due_to", endDate.Format("2006-01-02"))

	var records []model.LedgerRecord
	err = common.WithRetry(ctx, func() error {
		var fetchErr error
		records, fetchErr = c.fetchOnce(ctx, u.String())
		return fetchErr
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}

	slog.Info("Fetched ledger records", "count", len(records))
	return records, nil
}

func (c *ERPClient) fetchOnce(ctx context.Context, fetchURL string) ([]model.LedgerRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, &common.RetryableError{Err: err, Retryable: false}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrERPConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, common.ErrERPRateLimit
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: status %d", common.ErrERPUnauthorized, resp.StatusCode),
			Retryable: false,
		}
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", common.ErrERPConnection, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body)),
			Retryable: false,
		}
	}

	var payload recordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("failed to decode response: %w", err),
			Retryable: false,
		}
	}

	records := make([]model.LedgerRecord, 0, len(payload.Records))
	for i, w := range payload.Records {
		rec, err := w.toModel()
		if err != nil {
			return nil, &common.RetryableError{
				Err:       fmt.Errorf("record %d (%s): %w", i, w.ID, err),
				Retryable: false,
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (w wireRecord) toModel() (model.LedgerRecord, error) {
	rec := model.LedgerRecord{
		ID:               w.ID,
		CounterpartyID:   w.CounterpartyID,
		CounterpartyName: w.CounterpartyName,
		Category:         w.Category,
		Side:             model.LedgerSide(w.Side),
		Status:           model.RecordStatus(w.Status),
		Reconciled:       w.Reconciled,
	}

	var err error
	if rec.IssueDate, err = parseWireDate(w.IssueDate); err != nil {
		return rec, fmt.Errorf("issue_date: %w", err)
	}
	if rec.DueDate, err = parseWireDate(w.DueDate); err != nil {
		return rec, fmt.Errorf("due_date: %w", err)
	}
	if w.ReconciliationDate != "" {
		if rec.ReconciliationDate, err = parseWireDate(w.ReconciliationDate); err != nil {
			return rec, fmt.Errorf("reconciliation_date: %w", err)
		}
	}

	if rec.Value, err = decimal.NewFromString(w.Value); err != nil {
		return rec, fmt.Errorf("value %q: %w", w.Value, err)
	}
	if w.PaidValue != "" {
		if rec.PaidValue, err = decimal.NewFromString(w.PaidValue); err != nil {
			return rec, fmt.Errorf("paid_value %q: %w", w.PaidValue, err)
		}
	}

	if err := rec.Validate(); err != nil {
		return rec, err
	}
	rec.Hash = rec.GenerateHash()
	return rec, nil
}

func parseWireDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, model.ErrMissingDate
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
