package audio_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"doorlock-remote/internal/domain"
	"doorlock-remote/internal/infra/audio"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPSource_Inject(t *testing.T) {
	source := audio.NewHTTPSource("127.0.0.1:0", "", discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, source.Start(ctx))
	defer source.Stop()

	go func() {
		time.Sleep(50 * time.Millisecond)
		source.Inject(domain.Utterance{Text: "lock the door"})
	}()

	u, err := source.NextUtterance(ctx)
	require.NoError(t, err)
	require.Equal(t, "lock the door", u.Text)
}

func TestHTTPSource_AudioEndpoint(t *testing.T) {
	source := audio.NewHTTPSource(":0", "", discardLogger())
	handler := source.Handler()

	req := httptest.NewRequest(http.MethodPost, "/audio", bytes.NewReader([]byte("m4a bytes")))
	req.Header.Set("Content-Type", "audio/m4a")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	u, err := source.NextUtterance(context.Background())
	require.NoError(t, err)
	require.NotNil(t, u.Clip)
	require.Equal(t, "audio/m4a", u.Clip.MIMEType)
	require.Equal(t, []byte("m4a bytes"), u.Clip.Data)
}

func TestHTTPSource_AudioEndpointRejects(t *testing.T) {
	source := audio.NewHTTPSource(":0", "", discardLogger())
	handler := source.Handler()

	req := httptest.NewRequest(http.MethodPost, "/audio", strings.NewReader("hello"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/audio", http.NoBody)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPSource_AudioEndpointRejectsOversizeClip(t *testing.T) {
	source := audio.NewHTTPSource(":0", "", discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/audio", bytes.NewReader(make([]byte, 10<<20+1)))
	req.Header.Set("Content-Type", "audio/wav")
	rec := httptest.NewRecorder()
	source.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := source.NextUtterance(ctx)
	require.Error(t, err)

	req = httptest.NewRequest(http.MethodPost, "/audio", bytes.NewReader(make([]byte, 10<<20)))
	req.Header.Set("Content-Type", "audio/wav")
	rec = httptest.NewRecorder()
	source.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHTTPSource_TextEndpoint(t *testing.T) {
	source := audio.NewHTTPSource(":0", "", discardLogger())
	handler := source.Handler()

	req := httptest.NewRequest(http.MethodPost, "/text", strings.NewReader(`{"text":"  take a photo please "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "take a photo please", body["text"])

	u, err := source.NextUtterance(context.Background())
	require.NoError(t, err)
	require.Nil(t, u.Clip)
	require.Equal(t, "take a photo please", u.Text)

	req = httptest.NewRequest(http.MethodPost, "/text", strings.NewReader("   "))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPSource_QueueFull(t *testing.T) {
	source := audio.NewHTTPSource(":0", "", discardLogger())
	for i := 0; i < 10; i++ {
		require.True(t, source.Inject(domain.Utterance{Text: "lock"}))
	}

	req := httptest.NewRequest(http.MethodPost, "/text", strings.NewReader("unlock"))
	rec := httptest.NewRecorder()
	source.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHTTPSource_Token(t *testing.T) {
	authToken := "test-secret-token-123"
	source := audio.NewHTTPSource(":0", authToken, discardLogger())
	handler := source.Handler()

	tests := []struct {
		name       string
		token      string
		inQuery    bool
		wantStatus int
	}{
		{name: "valid token in header", token: authToken, wantStatus: http.StatusAccepted},
		{name: "valid token in query", token: authToken, inQuery: true, wantStatus: http.StatusAccepted},
		{name: "invalid token", token: "wrong-token", wantStatus: http.StatusUnauthorized},
		{name: "missing token", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/text"
			if tt.inQuery {
				target += "?token=" + tt.token
			}
			req := httptest.NewRequest(http.MethodPost, target, strings.NewReader("unlock"))
			if !tt.inQuery && tt.token != "" {
				req.Header.Set("X-Auth-Token", tt.token)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHTTPSource_RateLimit(t *testing.T) {
	source := audio.NewHTTPSource(":0", "", discardLogger())
	handler := source.Handler()

	var last int
	for i := 0; i < 31; i++ {
		req := httptest.NewRequest(http.MethodPost, "/text", strings.NewReader("lock"))
		req.RemoteAddr = "192.0.2.1:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		last = rec.Code
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}
