package shared

// ErrorKind classifies a domain error into the rejection taxonomy used
// across the core: the kind decides both the HTTP mapping at the boundary
// and whether a caller may retry.
type ErrorKind string

const (
	// KindValidation rejects malformed or incomplete input before any mutation
	KindValidation ErrorKind = "VALIDATION"
	// KindStateConflict rejects an operation not allowed in the current state
	KindStateConflict ErrorKind = "STATE_CONFLICT"
	// KindNotFound signals a referenced entity does not exist
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindReconciliation rejects an amount that would break balance invariants
	KindReconciliation ErrorKind = "RECONCILIATION"
	// KindConcurrency signals a lost optimistic-lock race
	KindConcurrency ErrorKind = "CONCURRENCY"
)

// DomainError represents a domain-level error with a stable code
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error of the given kind
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

// NewValidationError creates a VALIDATION error
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// NewStateConflictError creates a STATE_CONFLICT error
func NewStateConflictError(code, message string) *DomainError {
	return NewDomainError(KindStateConflict, code, message)
}

// NewNotFoundError creates a NOT_FOUND error
func NewNotFoundError(code, message string) *DomainError {
	return NewDomainError(KindNotFound, code, message)
}

// NewReconciliationError creates a RECONCILIATION error
func NewReconciliationError(code, message string) *DomainError {
	return NewDomainError(KindReconciliation, code, message)
}

// Common domain errors
var (
	ErrNotFound            = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewStateConflictError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(KindConcurrency, "CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewStateConflictError("INVALID_STATE", "Operation not allowed in current state")
)
