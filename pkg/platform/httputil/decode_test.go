package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "petitionsigner/pkg/domain-errors"
)

type accountRequest struct {
	Account string `json:"account"`

	steps []string
}

func (r *accountRequest) Sanitize() { r.steps = append(r.steps, "sanitize") }

func (r *accountRequest) Normalize() {
	r.steps = append(r.steps, "normalize")
	r.Account = strings.ToLower(strings.TrimSpace(r.Account))
}

func (r *accountRequest) Validate() error {
	r.steps = append(r.steps, "validate")
	if r.Account == "" {
		return errors.New("account is required")
	}
	if !strings.HasPrefix(r.Account, "0x") {
		return dErrors.New(dErrors.CodeNoAccount, "account is not an address")
	}
	return nil
}

type countRequest struct {
	Count int `json:"count"`
}

func decodeInto[T any](t *testing.T, body io.Reader) (*T, *httptest.ResponseRecorder) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", body)
	w := httptest.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	req, _ := DecodeAndPrepare[T](w, r, logger, context.Background(), "req-1")
	return req, w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestDecodeAndPrepareRunsHooksInOrder(t *testing.T) {
	req, w := decodeInto[accountRequest](t, strings.NewReader(`{"account":"  0xABCdef  "}`))

	require.NotNil(t, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0xabcdef", req.Account)
	assert.Equal(t, []string{"sanitize", "normalize", "validate"}, req.steps)
}

func TestDecodeAndPrepareRejects(t *testing.T) {
	tests := []struct {
		name       string
		body       io.Reader
		wantStatus int
		wantCode   dErrors.Code
	}{
		{"malformed json", strings.NewReader(`{"account":`), http.StatusBadRequest, dErrors.CodeBadRequest},
		{"empty body", strings.NewReader(""), http.StatusBadRequest, dErrors.CodeBadRequest},
		{"trailing value", strings.NewReader(`{"account":"0x1"} {"account":"0x2"}`), http.StatusBadRequest, dErrors.CodeBadRequest},
		{"wrong type", strings.NewReader(`{"account":42}`), http.StatusBadRequest, dErrors.CodeBadRequest},
		{"plain validation error", strings.NewReader(`{"account":" "}`), http.StatusBadRequest, dErrors.CodeInvalidInput},
		{"domain validation error", strings.NewReader(`{"account":"alice"}`), http.StatusUnprocessableEntity, dErrors.CodeNoAccount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, w := decodeInto[accountRequest](t, tt.body)

			assert.Nil(t, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, string(tt.wantCode), errorBody(t, w)["error"])
		})
	}
}

func TestDecodeJSONOversizedBody(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"count":1234567890}`))
	r.Body = http.MaxBytesReader(w, r.Body, 8)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	req, ok := DecodeJSON[countRequest](w, r, logger, context.Background(), "req-2")

	assert.False(t, ok)
	assert.Nil(t, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	body := errorBody(t, w)
	assert.Equal(t, string(dErrors.CodeTooLarge), body["error"])
	assert.Contains(t, body["error_description"], "8 bytes")
}

func TestPrepareRequestWithoutHooks(t *testing.T) {
	assert.NoError(t, PrepareRequest(&countRequest{Count: 3}))
}
