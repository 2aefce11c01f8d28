package interfaces

import "fmt"

// ValidationError reports input that violates a rule of the operation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// AccessDeniedError is returned when a resource exists outside the caller's
// project capability set. It is distinct from NotFoundError.
type AccessDeniedError struct {
	Resource string
	ID       string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access to %s %s denied", e.Resource, e.ID)
}

// ConflictError is returned when a conditional write lost against a
// concurrent modification.
type ConflictError struct {
	Resource string
	ID       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Resource, e.ID)
}

type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}
