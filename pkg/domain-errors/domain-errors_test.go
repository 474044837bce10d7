package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorText(t *testing.T) {
	assert.Equal(t, "template lookup failed", (&Error{Code: CodeTemplateFailed, Message: "template lookup failed"}).Error())
	assert.Equal(t, "no_account", (&Error{Code: CodeNoAccount}).Error())
}

func TestErrorsIsMatchesOnCode(t *testing.T) {
	upload := New(CodeSubmissionFailed, "all upload strategies failed")
	wrapped := fmt.Errorf("create contract: %w", upload)

	assert.True(t, errors.Is(wrapped, &Error{Code: CodeSubmissionFailed}))
	assert.False(t, errors.Is(wrapped, &Error{Code: CodeTemplateFailed}))
	assert.False(t, errors.Is(wrapped, errors.New("all upload strategies failed")))
}

func TestWrap(t *testing.T) {
	t.Run("keeps the inner code and remote status", func(t *testing.T) {
		inner := WithStatus(CodeAuthFailed, http.StatusUnauthorized, "login rejected", nil)

		err := Wrap(inner, CodeInternal, "login")

		assert.True(t, HasCode(err, CodeAuthFailed))
		assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
		assert.Equal(t, "login", err.Error())
		assert.ErrorIs(t, err, inner)
	})

	t.Run("applies the given code to plain errors", func(t *testing.T) {
		cause := errors.New("connection reset by peer")

		err := Wrap(cause, CodeNetwork, "upload contract")

		assert.True(t, HasCode(err, CodeNetwork))
		assert.Zero(t, StatusOf(err))
		assert.Same(t, cause, errors.Unwrap(err))
	})
}

func TestNewf(t *testing.T) {
	err := Newf(CodeInvalidDate, "field %q: %q is not a date", "Filing Date", "soon")

	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, CodeInvalidDate, de.Code)
	assert.Equal(t, `field "Filing Date": "soon" is not a date`, de.Message)
}

func TestHasCodeAndStatusOfPlainErrors(t *testing.T) {
	plain := errors.New("boom")

	assert.False(t, HasCode(plain, CodeInternal))
	assert.Zero(t, StatusOf(plain))
	assert.False(t, HasCode(nil, CodeInternal))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{CodeNetwork, true},
		{CodeTimeout, true},
		{CodeWalletUnavailable, true},
		{CodeNoAccount, true},
		{CodeSigningRejected, true},
		{CodeAuthFailed, false},
		{CodeTemplateFailed, false},
		{CodeSubmissionFailed, false},
		{CodeInvalidDate, false},
		{CodeConflict, false},
		{CodeTooLarge, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := fmt.Errorf("sign: %w", New(tt.code, "x"))
			assert.Equal(t, tt.want, IsRetryable(err))
		})
	}

	assert.False(t, IsRetryable(errors.New("plain")))
}
