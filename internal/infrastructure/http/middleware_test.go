package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	httpapi "github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/http"
)

type logLine struct {
	msg    string
	fields map[string]any
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recordingLogger) record(msg string, fields map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{msg: msg, fields: fields})
}

func (l *recordingLogger) Info(msg string, fields map[string]any)  { l.record(msg, fields) }
func (l *recordingLogger) Warn(msg string, fields map[string]any)  { l.record(msg, fields) }
func (l *recordingLogger) Error(msg string, fields map[string]any) { l.record(msg, fields) }

func TestLogRequests_TagsLineWithRequestID(t *testing.T) {
	logger := &recordingLogger{}
	r := chi.NewRouter()
	r.Use(httpapi.RequestID)
	r.Use(httpapi.LogRequests(logger))
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "req-7", httpapi.GetRequestID(r.Context()))
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(httpapi.RequestIDHeader, "req-7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Len(t, logger.lines, 1)
	require.Equal(t, "http request", logger.lines[0].msg)
	require.Equal(t, "req-7", logger.lines[0].fields["request_id"])
	require.Equal(t, http.StatusTeapot, logger.lines[0].fields["status"])
	require.Equal(t, "/ping", logger.lines[0].fields["path"])
}

func TestWebhookError_LogsRequestID(t *testing.T) {
	logger := &recordingLogger{}
	s := newStack(t, &fakeProcessor{}, "http://unused")
	s.handler.Logger = logger

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"type":`))
	req.Header.Set(httpapi.RequestIDHeader, "req-9")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, logger.lines, 1)
	require.Equal(t, "req-9", logger.lines[0].fields["request_id"])
}

func TestGetRequestID_EmptyWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, httpapi.GetRequestID(req.Context()))
}
