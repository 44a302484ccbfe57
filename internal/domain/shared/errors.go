package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the domain. Validation-class errors are always
// detected before any persistence write.
const (
	CodeNotFound                = "NOT_FOUND"
	CodeAlreadyExists           = "ALREADY_EXISTS"
	CodeInvalidState            = "INVALID_STATE"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeValidationFailed        = "VALIDATION_FAILED"
	CodeDuplicateActiveResource = "DUPLICATE_ACTIVE_RESOURCE"
	CodeConcurrencyConflict     = "CONCURRENCY_CONFLICT"
	CodeLedgerError             = "LEDGER_ERROR"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
)

// HasCode reports whether err is a DomainError carrying the given code
func HasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if de, ok := err.(*DomainError); ok {
		return de.Code == code
	}
	return false
}
