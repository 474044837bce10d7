package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "petitionsigner/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// A known remote status is echoed as "remote_status" so the UI can show it.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		response := map[string]any{
			"error": DomainCodeToHTTPCode(domainErr.Code),
		}
		if domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		if domainErr.Status != 0 {
			response["remote_status"] = domainErr.Status
		}
		if dErrors.IsRetryable(err) {
			response["retryable"] = true
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), response)
		return
	}

	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": DomainCodeToHTTPCode(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeInvalidDate:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case dErrors.CodeUnauthorized, dErrors.CodeAuthFailed:
		return http.StatusUnauthorized
	case dErrors.CodeWalletUnavailable, dErrors.CodeNoAccount, dErrors.CodeSigningRejected:
		return http.StatusUnprocessableEntity
	case dErrors.CodeTemplateFailed, dErrors.CodeSubmissionFailed, dErrors.CodeNetwork:
		return http.StatusBadGateway
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to the "error" field of JSON responses.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound, dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeInvalidDate,
		dErrors.CodeConflict, dErrors.CodeUnauthorized, dErrors.CodeTimeout, dErrors.CodeTooLarge,
		dErrors.CodeAuthFailed, dErrors.CodeTemplateFailed, dErrors.CodeSubmissionFailed,
		dErrors.CodeWalletUnavailable, dErrors.CodeNoAccount, dErrors.CodeSigningRejected, dErrors.CodeNetwork:
		return string(code)
	default:
		return string(dErrors.CodeInternal)
	}
}
