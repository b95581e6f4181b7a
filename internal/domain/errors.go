package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyMessage       = NewDomainError(ErrCodeValidation, "no message provided")
	ErrMissingFeedbackID  = NewDomainError(ErrCodeValidation, "kb_id required")
	ErrInvalidContentType = NewDomainError(ErrCodeValidation, "invalid content type")
)

// Not found errors
var (
	ErrKnowledgeNotFound = NewDomainError(ErrCodeNotFound, "knowledge item not found")
	ErrAudioNotFound     = NewDomainError(ErrCodeNotFound, "audio track not found")
)

// Source errors. Rebuilds and lookups that hit these keep the last published
// snapshot and degrade instead of failing the user.
var (
	ErrSourceUnavailable = NewDomainError(ErrCodeSourceUnavailable, "knowledge store unavailable")
)
