package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
)

// Request error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeInvalidTenant is used when X-Tenant-ID is not a UUID
	ErrCodeInvalidTenant = "ERR_INVALID_TENANT"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodePeriodNotFound      = "ERR_PERIOD_NOT_FOUND"
	ErrCodeRateNotFound        = "ERR_RATE_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInUse               = "ERR_IN_USE"
	// ErrCodeLocked is used when another process holds the asset lock
	ErrCodeLocked = "ERR_LOCKED"
)

// Business rule error codes (422)
const (
	ErrCodeInvalidState       = "ERR_INVALID_STATE"
	ErrCodeBusinessRule       = "ERR_BUSINESS_RULE"
	ErrCodeInvalidSchedule    = "ERR_INVALID_SCHEDULE_CONFIGURATION"
	ErrCodeAssetNotOpen       = "ERR_ASSET_NOT_OPEN"
	ErrCodeHasPostedEntries   = "ERR_HAS_POSTED_ENTRIES"
	ErrCodeInvalidCategory    = "ERR_INVALID_CATEGORY"
	ErrCodeRecursiveAsset     = "ERR_RECURSIVE_ASSET"
	ErrCodeUnbalancedMove     = "ERR_UNBALANCED_MOVE"
	ErrCodePeriodClosed       = "ERR_PERIOD_CLOSED"
	ErrCodeMissingAccount     = "ERR_MISSING_ACCOUNT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation and input errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeInvalidJSON:        http.StatusBadRequest,
	ErrCodeInvalidTenant:      http.StatusBadRequest,
	ErrCodeRequestTooLarge:    http.StatusRequestEntityTooLarge,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodePeriodNotFound:      http.StatusNotFound,
	ErrCodeRateNotFound:        http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInUse:               http.StatusConflict,
	ErrCodeLocked:              http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:       http.StatusUnprocessableEntity,
	ErrCodeInvalidSchedule:    http.StatusUnprocessableEntity,
	ErrCodeAssetNotOpen:       http.StatusUnprocessableEntity,
	ErrCodeHasPostedEntries:   http.StatusUnprocessableEntity,
	ErrCodeInvalidCategory:    http.StatusUnprocessableEntity,
	ErrCodeRecursiveAsset:     http.StatusUnprocessableEntity,
	ErrCodeUnbalancedMove:     http.StatusUnprocessableEntity,
	ErrCodePeriodClosed:       http.StatusUnprocessableEntity,
	ErrCodeMissingAccount:     http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                      ErrCodeNotFound,
	"PERIOD_NOT_FOUND":               ErrCodePeriodNotFound,
	"RATE_NOT_FOUND":                 ErrCodeRateNotFound,
	"ALREADY_EXISTS":                 ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT":           ErrCodeConcurrencyConflict,
	"VERSION_CONFLICT":               ErrCodeConcurrencyConflict,
	"LOCK_NOT_ACQUIRED":              ErrCodeLocked,
	"HAS_ASSETS":                     ErrCodeInUse,
	"HAS_CHILDREN":                   ErrCodeInUse,
	"INVALID_INPUT":                  ErrCodeInvalidInput,
	"INVALID_STATE":                  ErrCodeInvalidState,
	"INVALID_SCHEDULE_CONFIGURATION": ErrCodeInvalidSchedule,
	"ASSET_NOT_OPEN":                 ErrCodeAssetNotOpen,
	"HAS_POSTED_ENTRIES":             ErrCodeHasPostedEntries,
	"INVALID_CATEGORY":               ErrCodeInvalidCategory,
	"RECURSIVE_ASSET":                ErrCodeRecursiveAsset,
	"UNBALANCED_MOVE":                ErrCodeUnbalancedMove,
	"PERIOD_CLOSED":                  ErrCodePeriodClosed,
	"MISSING_ACCOUNT":                ErrCodeMissingAccount,
	"VALIDATION_ERROR":               ErrCodeValidation,
	"BAD_REQUEST":                    ErrCodeBadRequest,
	"INTERNAL_ERROR":                 ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Unmapped INVALID_* codes are input errors; any other unmapped domain code
// is reported as a business rule violation. Codes already in API format pass
// through unchanged.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	switch {
	case strings.HasPrefix(code, "ERR_"):
		return code
	case strings.HasPrefix(code, "INVALID_"):
		return ErrCodeInvalidInput
	case code == "":
		return ErrCodeUnknown
	default:
		return ErrCodeBusinessRule
	}
}
