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

// Error codes used across the ledger domain
const (
	CodeNotFound            = "NOT_FOUND"
	CodeDuplicateCode       = "DUPLICATE_CODE"
	CodeTypeMismatch        = "TYPE_MISMATCH"
	CodeCyclicHierarchy     = "CYCLIC_HIERARCHY"
	CodeHasActivity         = "HAS_ACTIVITY"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeInvalidInput        = "INVALID_INPUT"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
)
