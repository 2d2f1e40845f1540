package bracket

import "fmt"

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError reports an operation the current lifecycle state does not allow.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return e.Reason
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func State(format string, args ...any) error {
	return &StateError{Reason: fmt.Sprintf(format, args...)}
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}
