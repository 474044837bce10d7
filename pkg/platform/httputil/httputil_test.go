package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "petitionsigner/pkg/domain-errors"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		code       dErrors.Code
		wantStatus int
	}{
		{dErrors.CodeNotFound, http.StatusNotFound},
		{dErrors.CodeInvalidDate, http.StatusBadRequest},
		{dErrors.CodeConflict, http.StatusConflict},
		{dErrors.CodeTooLarge, http.StatusRequestEntityTooLarge},
		{dErrors.CodeAuthFailed, http.StatusUnauthorized},
		{dErrors.CodeNoAccount, http.StatusUnprocessableEntity},
		{dErrors.CodeTemplateFailed, http.StatusBadGateway},
		{dErrors.CodeNetwork, http.StatusBadGateway},
		{dErrors.CodeTimeout, http.StatusGatewayTimeout},
		{dErrors.Code("made_up"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			w := httptest.NewRecorder()

			WriteError(w, dErrors.New(tt.code, "failed"))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}

func TestWriteErrorBody(t *testing.T) {
	t.Run("remote status survives wrapping", func(t *testing.T) {
		w := httptest.NewRecorder()
		upload := dErrors.WithStatus(dErrors.CodeSubmissionFailed, http.StatusServiceUnavailable, "all upload strategies failed", nil)

		WriteError(w, fmt.Errorf("create contract: %w", upload))

		body := errorBody(t, w)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "submission_failed", body["error"])
		assert.Equal(t, "all upload strategies failed", body["error_description"])
		assert.EqualValues(t, http.StatusServiceUnavailable, body["remote_status"])
		assert.NotContains(t, body, "retryable")
	})

	t.Run("wallet refusals are retryable", func(t *testing.T) {
		w := httptest.NewRecorder()

		WriteError(w, dErrors.New(dErrors.CodeSigningRejected, "user denied message signature"))

		body := errorBody(t, w)
		assert.Equal(t, "signing_rejected", body["error"])
		assert.Equal(t, true, body["retryable"])
	})

	t.Run("unknown codes and plain errors report internal_error", func(t *testing.T) {
		for _, err := range []error{dErrors.New(dErrors.Code("made_up"), "x"), errors.New("boom")} {
			w := httptest.NewRecorder()

			WriteError(w, err)

			assert.Equal(t, "internal_error", errorBody(t, w)["error"])
		}
	})
}
