package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "VALIDATION_ERROR"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "CONFLICT"
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall through to the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeTokenExpired:   http.StatusUnauthorized,
	ErrCodeTokenInvalid:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,

	ErrCodeNotFound:     http.StatusNotFound,
	"PRODUCT_NOT_FOUND": http.StatusNotFound,

	ErrCodeConflict:            http.StatusConflict,
	"ALREADY_EXISTS":           http.StatusConflict,
	"DUPLICATE_PRODUCT":        http.StatusConflict,
	"CONCURRENT_MODIFICATION":  http.StatusConflict,
	"PAYMENT_ALREADY_REPORTED": http.StatusConflict,

	"INVALID_STATE":         http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":    http.StatusUnprocessableEntity,
	"PRODUCT_UNAVAILABLE":   http.StatusUnprocessableEntity,
	"METHOD_INACTIVE":       http.StatusUnprocessableEntity,
	"REFUND_EXCEEDS_AMOUNT": http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":        http.StatusUnprocessableEntity,
	"ALREADY_DEACTIVATED":   http.StatusUnprocessableEntity,
	"ORDER_TOTAL_TOO_LOW":   http.StatusUnprocessableEntity,
	"ORDER_TOTAL_TOO_HIGH":  http.StatusUnprocessableEntity,

	"NO_ITEMS":       http.StatusBadRequest,
	"TOO_MANY_ITEMS": http.StatusBadRequest,

	"DATABASE_ERROR":      http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// INVALID_* field errors map to 400; anything else unknown maps to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
