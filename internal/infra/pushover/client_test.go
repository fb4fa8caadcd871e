package pushover_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"doorlock-remote/internal/domain"
	"doorlock-remote/internal/infra"
	"doorlock-remote/internal/infra/pushover"
)

func logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotify_PhotoAttachment(t *testing.T) {
	var got struct {
		message    string
		attachment []byte
		token      string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		got.message = r.FormValue("message")
		got.token = r.FormValue("token")
		f, _, err := r.FormFile("attachment")
		if err == nil {
			got.attachment, _ = io.ReadAll(f)
			f.Close()
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := pushover.NewClientWithURL("app-token", "user-key", server.URL, logger())

	outcome := domain.Succeeded(domain.CommandTakePhoto, "Photo fetched successfully")
	outcome.Image = []byte{0xff, 0xd8}
	require.NoError(t, client.Notify(context.Background(), outcome))

	require.Equal(t, "app-token", got.token)
	require.Equal(t, "[take_photo] Photo fetched successfully", got.message)
	require.Equal(t, []byte{0xff, 0xd8}, got.attachment)
}

func TestNotify_Disabled(t *testing.T) {
	client := pushover.NewClientWithURL("", "", "http://127.0.0.1:1", logger())
	require.NoError(t, client.Notify(context.Background(), domain.UserMessageOutcome("hi")))
}

func TestNotify_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := pushover.NewClientWithURL("t", "u", server.URL, logger()).
		WithRetry(infra.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1})

	require.NoError(t, client.Notify(context.Background(), domain.Succeeded(domain.CommandLock, "ok")))
	require.Equal(t, int32(2), calls.Load())
}

func TestNotify_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := pushover.NewClientWithURL("t", "u", server.URL, logger()).
		WithRetry(infra.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1})

	require.Error(t, client.Notify(context.Background(), domain.Failed(domain.CommandUnlock, "door jammed")))
	require.Equal(t, int32(1), calls.Load())
}
