package dto

import (
	"net/http"

	"github.com/scf/backend/internal/domain/bill"
	"github.com/scf/backend/internal/domain/shared"
)

// Transport-level error codes not produced by the domain
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes missing from the map resolve to 500.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,

	shared.CodeValidationFailed: http.StatusBadRequest,
	bill.CodeInvalidDateRange:   http.StatusBadRequest,

	shared.CodeNotFound: http.StatusNotFound,

	// UNAUTHORIZED here means an authenticated caller lacks the right to act
	// on this bill (e.g. not the drawee), so it maps to 403 rather than 401.
	shared.CodeUnauthorized: http.StatusForbidden,

	shared.CodeAlreadyExists:           http.StatusConflict,
	shared.CodeDuplicateActiveResource: http.StatusConflict,
	shared.CodeConcurrencyConflict:     http.StatusConflict,

	shared.CodeInvalidState:  http.StatusUnprocessableEntity,
	bill.CodeWrongHolder:     http.StatusUnprocessableEntity,
	bill.CodeSelfEndorsement: http.StatusUnprocessableEntity,
	bill.CodePartyNotActive:  http.StatusUnprocessableEntity,

	shared.CodeLedgerError: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
