package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petitionsigner/pkg/platform/circuit"
)

func serve(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := chi.NewRouter()
	h.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestLiveness(t *testing.T) {
	rec, body := serve(t, New("test"), "/health/live")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", body["status"])
}

func TestStatus(t *testing.T) {
	rec, body := serve(t, New("staging"), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "staging", body["environment"])
	assert.Equal(t, Version, body["version"])
}

func TestReadinessReportsOpenBreakerAsDegraded(t *testing.T) {
	b := circuit.New("openlaw", circuit.WithFailureThreshold(1))
	h := New("test")
	h.RegisterCheck("openlaw", BreakerCheck(b))

	rec, body := serve(t, h, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, "up", body["checks"].(map[string]any)["openlaw"])

	b.Observe(false)

	rec, body = serve(t, h, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "degraded", body["checks"].(map[string]any)["openlaw"])
}

func TestReadinessFailsOnHardCheck(t *testing.T) {
	b := circuit.New("openlaw", circuit.WithFailureThreshold(1))
	b.Observe(false)
	h := New("test")
	h.RegisterCheck("openlaw", BreakerCheck(b))
	h.RegisterCheck("sessions", func() error { return errors.New("store closed") })

	rec, body := serve(t, h, "/health/ready")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body["status"])
	assert.Equal(t, "down: store closed", body["checks"].(map[string]any)["sessions"])
}
