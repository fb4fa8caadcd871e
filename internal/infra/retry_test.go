package infra_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"doorlock-remote/internal/infra"
)

func fastRetry() infra.RetryConfig {
	return infra.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}
}

func TestWithRetry_SucceedsEventually(t *testing.T) {
	calls := 0
	err := infra.WithRetry(context.Background(), fastRetry(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestWithRetry_GivesUp(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := infra.WithRetry(context.Background(), fastRetry(), func(context.Context) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 3, calls)
}

func TestWithRetry_Permanent(t *testing.T) {
	calls := 0
	bad := errors.New("bad request")
	err := infra.WithRetry(context.Background(), fastRetry(), func(context.Context) error {
		calls++
		return infra.Permanent(bad)
	})
	require.Equal(t, bad, err)
	require.Equal(t, 1, calls)
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	require.True(t, infra.IsRetryableHTTPStatus(http.StatusTooManyRequests))
	require.True(t, infra.IsRetryableHTTPStatus(http.StatusBadGateway))
	require.False(t, infra.IsRetryableHTTPStatus(http.StatusBadRequest))
}
