package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(ErrCodePlateNotFound, "plate ABCD12 not found")

	assert.Equal(t, ErrCodePlateNotFound, err.Code)
	assert.Contains(t, err.Error(), "PLT_001")
	assert.Contains(t, err.Error(), "plate ABCD12 not found")
	assert.NotEmpty(t, err.Stack)
}

func TestWrapNilReturnsNil(t *testing.T) {
	var got *AppError = Wrap(nil, ErrCodeInternal, "ignored")
	assert.Nil(t, got)
}

func TestWrapPreservesCauseChain(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, ErrCodeProviderUnavailable, "autofact fetch failed")

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, ErrCodeProviderUnavailable, GetCode(err))
}

func TestWrapUnknownKeepsOriginalCode(t *testing.T) {
	inner := New(ErrCodeQuotaExceeded, "daily limit reached")
	outer := Wrap(inner, ErrCodeUnknown, "valuation rejected")

	assert.Equal(t, ErrCodeQuotaExceeded, outer.Code)
}

func TestIsCodeWalksChain(t *testing.T) {
	inner := New(ErrCodeProviderTimeout, "page load timed out")
	outer := Wrap(inner, ErrCodeProviderUnavailable, "provider failed")
	wrapped := fmt.Errorf("resolving price: %w", outer)

	assert.True(t, IsCode(wrapped, ErrCodeProviderUnavailable))
	assert.True(t, IsCode(wrapped, ErrCodeProviderTimeout))
	assert.False(t, IsCode(wrapped, ErrCodeQuotaExceeded))
}

func TestWithDetail(t *testing.T) {
	base := New(ErrCodePlateInvalid, "plate must not be empty")
	detailed := base.WithDetail("input=\"  \"")

	assert.Empty(t, base.Detail)
	assert.Equal(t, "input=\"  \"", detailed.Detail)
	assert.Contains(t, detailed.Error(), "input=")

	var nilErr *AppError
	assert.Nil(t, nilErr.WithDetail("x"))
}

func TestClassificationHelpers(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodePlateNotFound, "")))
	assert.True(t, IsInvalidInput(InvalidParam("year is not numeric")))
	assert.True(t, IsQuotaExceeded(QuotaExceeded("limit 1000 reached")))
	assert.True(t, IsProviderUnavailable(ProviderUnavailable("browser crashed")))
	assert.False(t, IsProviderUnavailable(New(ErrCodePlateNotFound, "")))
	assert.False(t, IsQuotaExceeded(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, ErrCodeUnknown, GetCode(fmt.Errorf("plain error")))
	assert.Equal(t, ErrCodeDatabaseError, GetCode(New(ErrCodeDatabaseError, "query failed")))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatusForCode(ErrCodeQuotaExceeded))
	assert.Equal(t, http.StatusNotFound, HTTPStatusForCode(ErrCodePlateNotFound))
	assert.Equal(t, http.StatusBadGateway, HTTPStatusForCode(ErrCodeProviderUnavailable))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("NOPE_999")))
}

func TestClientServerClassification(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeQuotaExceeded))
	assert.True(t, IsServerError(ErrCodeProviderUnavailable))
	assert.False(t, IsClientError(ErrCodeInternal))
}
