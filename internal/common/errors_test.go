package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := NewUserError("could not reach the ERP", inner)

	assert.Equal(t, "could not reach the ERP: dial tcp: connection refused", err.Error())
	assert.ErrorIs(t, err, inner)

	// Without an inner error only the message shows.
	bare := &UserError{UserMessage: "nothing to export"}
	assert.Equal(t, "nothing to export", bare.Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "rate limit", err: ErrRateLimit, want: true},
		{name: "erp rate limit wrapped", err: fmt.Errorf("fetch: %w", ErrERPRateLimit), want: true},
		{name: "erp connection", err: ErrERPConnection, want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "retryable flag set", err: &RetryableError{Err: errors.New("503"), Retryable: true}, want: true},
		{name: "retryable flag unset", err: &RetryableError{Err: errors.New("401"), Retryable: false}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "not found", err: ErrNotFound, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
