package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureRegisteredIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		EnsureRegistered()
		EnsureRegistered()
	})
}

func TestRecorders(t *testing.T) {
	assert.NotPanics(t, func() {
		SetSessionExchanges(3)
		RecordSessionEviction(1)
		RecordToolExecution("http_get", 5*time.Millisecond, true)
		RecordToolExecution("http_get", 5*time.Millisecond, false)
		RecordHTTPRequest("GET", true)
		RecordAgentRun("gemini", 10*time.Millisecond, false)
	})
}

func TestSnapshot(t *testing.T) {
	SetSessionExchanges(2)
	RecordHTTPRequest("GET", true)

	snapshot, err := Snapshot()
	require.NoError(t, err)

	assert.Contains(t, snapshot, "session_exchanges 2")
	assert.Contains(t, snapshot, "api_http_requests_total{method=GET,status=success}")
	assert.NotContains(t, snapshot, "duration_seconds")
}

func TestMetricsHandler(t *testing.T) {
	RecordHTTPRequest("POST", false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	MetricsHandler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "api_http_requests_total")
}
