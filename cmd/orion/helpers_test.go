package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

func TestParseSide(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.LedgerSide
		wantErr bool
	}{
		{name: "payable", input: "payable", want: model.SidePayable},
		{name: "receivable", input: "receivable", want: model.SideReceivable},
		{name: "empty defaults to payable", input: "", want: model.SidePayable},
		{name: "unknown", input: "both", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSide(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAsOf(t *testing.T) {
	got, err := parseAsOf("2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = parseAsOf("15/06/2024")
	assert.Error(t, err)

	// Empty defaults to now.
	got, err = parseAsOf("")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), got, time.Minute)
}

func TestGroupKeyFunc(t *testing.T) {
	rec := model.LedgerRecord{
		CounterpartyID:   "cp-1",
		CounterpartyName: "Alfa",
		Category:         "rent",
	}

	byCounterparty, err := groupKeyFunc("counterparty")
	require.NoError(t, err)
	key, _ := byCounterparty(rec)
	assert.Equal(t, "cp-1", key)

	byCategory, err := groupKeyFunc("category")
	require.NoError(t, err)
	key, _ = byCategory(rec)
	assert.Equal(t, "rent", key)

	_, err = groupKeyFunc("vendor")
	assert.Error(t, err)
}

func TestParseFetchRange(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("fetch.days", 30)
	viper.Set("fetch.start_date", "")
	viper.Set("fetch.end_date", "")

	start, end, err := parseFetchRange()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), end, time.Minute)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), start, time.Minute)

	viper.Set("fetch.start_date", "2024-01-01")
	viper.Set("fetch.end_date", "2024-03-31")
	start, end, err = parseFetchRange()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), end)

	// Inverted range is rejected.
	viper.Set("fetch.start_date", "2024-03-31")
	viper.Set("fetch.end_date", "2024-01-01")
	_, _, err = parseFetchRange()
	assert.Error(t, err)
}
