package errors

import "net/http"

// ErrorCode is a string identifier for a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeUnknown            ErrorCode = "COMMON_000"
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeDatabaseError      ErrorCode = "COMMON_009"
	ErrCodeCacheError         ErrorCode = "COMMON_010"
	ErrCodeExternalService    ErrorCode = "COMMON_011"

	// CodeOK is the sentinel returned by GetCode for a nil error.
	CodeOK ErrorCode = "OK"
)

// Plate resolution error codes.
const (
	// ErrCodePlateNotFound means a provider definitively found no vehicle
	// for the plate.  Not retried against the same provider.
	ErrCodePlateNotFound ErrorCode = "PLT_001"

	// ErrCodePlateInvalid means the plate failed input validation before
	// any provider was attempted.
	ErrCodePlateInvalid ErrorCode = "PLT_002"

	// ErrCodePlateExhausted means every configured provider failed or
	// found nothing.
	ErrCodePlateExhausted ErrorCode = "PLT_003"
)

// Data-provider error codes.  All three trigger fallback to the next
// provider in priority order.
const (
	ErrCodeProviderUnavailable ErrorCode = "SRC_001"
	ErrCodeProviderParseError  ErrorCode = "SRC_002"
	ErrCodeProviderTimeout     ErrorCode = "SRC_003"
)

// Pricing error codes.
const (
	// ErrCodePriceUnavailable means no provider produced a plausible price
	// and the fallback estimator could not apply.
	ErrCodePriceUnavailable ErrorCode = "PRC_001"

	// ErrCodePriceInvalid means the market price handed to the formula
	// engine was null, zero, or negative.
	ErrCodePriceInvalid ErrorCode = "PRC_002"
)

// Quota error codes.
const (
	// ErrCodeQuotaExceeded means the daily valuation budget is spent.
	// Callers must reject the request; no fallback applies.
	ErrCodeQuotaExceeded ErrorCode = "QTA_001"

	// ErrCodeCounterUnavailable means the counter store could not be
	// reached.  The gate fails open on this code; it is logged, never
	// surfaced to callers.
	ErrCodeCounterUnavailable ErrorCode = "QTA_002"
)

// errorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var errorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeUnknown:            http.StatusInternalServerError,
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,

	ErrCodePlateNotFound:  http.StatusNotFound,
	ErrCodePlateInvalid:   http.StatusBadRequest,
	ErrCodePlateExhausted: http.StatusNotFound,

	ErrCodeProviderUnavailable: http.StatusBadGateway,
	ErrCodeProviderParseError:  http.StatusBadGateway,
	ErrCodeProviderTimeout:     http.StatusGatewayTimeout,

	ErrCodePriceUnavailable: http.StatusNotFound,
	ErrCodePriceInvalid:     http.StatusUnprocessableEntity,

	ErrCodeQuotaExceeded:      http.StatusTooManyRequests,
	ErrCodeCounterUnavailable: http.StatusServiceUnavailable,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the code maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether the code maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}
