package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JeanZorzetti/orion-analytics/internal/client"
	"github.com/JeanZorzetti/orion-analytics/internal/common"
	"github.com/JeanZorzetti/orion-analytics/internal/service"
)

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch ledger records from the ERP",
		Long: `Fetch accounts payable and receivable records from the ERP REST API
and store them in the local database.

Records are deduplicated by content hash, so repeated fetches over
overlapping date ranges are safe. Transient ERP errors (rate limits,
5xx responses) are retried with backoff.`,
		RunE: runFetch,
	}

	cmd.Flags().StringP("start-date", "s", "", "Start of the due-date range (format: 2006-01-02)")
	cmd.Flags().StringP("end-date", "e", "", "End of the due-date range (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", 90, "Number of days to fetch (used if start/end dates not specified)")
	cmd.Flags().Bool("dry-run", false, "Fetch without saving")

	_ = viper.BindPFlag("fetch.start_date", cmd.Flags().Lookup("start-date"))
	_ = viper.BindPFlag("fetch.end_date", cmd.Flags().Lookup("end-date"))
	_ = viper.BindPFlag("fetch.days", cmd.Flags().Lookup("days"))
	_ = viper.BindPFlag("fetch.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	baseURL := viper.GetString("erp.base_url")
	token := viper.GetString("erp.token")
	if baseURL == "" {
		return fmt.Errorf("%w: erp.base_url is required (set ORION_ERP_BASE_URL or the config file)", common.ErrMissingConfig)
	}

	erp, err := client.NewERPClient(baseURL, token, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	})
	if err != nil {
		return fmt.Errorf("failed to create ERP client: %w", err)
	}

	startDate, endDate, err := parseFetchRange()
	if err != nil {
		return err
	}

	slog.Info("Fetching records from ERP",
		"start", startDate.Format(dateFormat),
		"end", endDate.Format(dateFormat))

	records, err := erp.FetchRecords(ctx, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to fetch records: %w", err)
	}

	slog.Info("Fetched records", "count", len(records))
	summarizeRecords(records)

	if viper.GetBool("fetch.dry_run") {
		slog.Info("Dry run, nothing saved")
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()

	if err := store.SaveRecords(ctx, records); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}

	slog.Info("Fetch complete", "count", len(records))
	return nil
}

func parseFetchRange() (start, end time.Time, err error) {
	end = time.Now()
	start = end.AddDate(0, 0, -viper.GetInt("fetch.days"))

	if s := viper.GetString("fetch.start_date"); s != "" {
		start, err = time.Parse(dateFormat, s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", s, err)
		}
	}
	if s := viper.GetString("fetch.end_date"); s != "" {
		end, err = time.Parse(dateFormat, s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", s, err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s",
			end.Format(dateFormat), start.Format(dateFormat))
	}
	return start, end, nil
}
