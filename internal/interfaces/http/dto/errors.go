package dto

import "net/http"

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes raised by allocation and settlement.
// These keep their domain spelling so API clients can match on them.
const (
	// ErrCodeNothingToPay is used when no allocation line has a positive amount
	ErrCodeNothingToPay = "NOTHING_TO_PAY"
	// ErrCodeNegativeAmount is used when a line's amount to pay is negative
	ErrCodeNegativeAmount = "NEGATIVE_AMOUNT"
	// ErrCodeOverAllocation is used when a line exceeds the invoice residual
	ErrCodeOverAllocation = "OVER_ALLOCATION"
	// ErrCodeNoPaymentMethod is used when the journal has no usable method
	ErrCodeNoPaymentMethod = "NO_PAYMENT_METHOD"
	// ErrCodeNoSettlementLine is used when the payment has no open line to match
	ErrCodeNoSettlementLine = "NO_SETTLEMENT_LINE"
	// ErrCodeIncompleteRequest is used when required allocation inputs are missing
	ErrCodeIncompleteRequest = "INCOMPLETE_REQUEST"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeNothingToPay:      http.StatusUnprocessableEntity,
	ErrCodeNegativeAmount:    http.StatusUnprocessableEntity,
	ErrCodeOverAllocation:    http.StatusUnprocessableEntity,
	ErrCodeNoPaymentMethod:   http.StatusUnprocessableEntity,
	ErrCodeNoSettlementLine:  http.StatusUnprocessableEntity,
	ErrCodeIncompleteRequest: http.StatusUnprocessableEntity,
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps plain domain error codes to the
// standardized ERR_ form used at the HTTP boundary.
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a legacy error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
