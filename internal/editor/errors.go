package editor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionClosed is returned when an editor is used after it completed or was abandoned
var ErrSessionClosed = errors.New("editor session is closed")

// FieldError describes one invalid draft field
type FieldError struct {
	Field   Field
	Message string
}

// ValidationError lists every invalid field of a submitted draft.
// The user can correct the input and submit again.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid habit: " + strings.Join(parts, "; ")
}

// Has reports whether field is among the invalid fields
func (e *ValidationError) Has(field Field) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Message returns the message for field, or "" if the field is valid
func (e *ValidationError) Message(field Field) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// MutationError wraps a failure of the persistence service
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s habit: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// CallerContractError signals input the caller was required to provide correctly,
// such as a missing record in edit mode. It is a programming error.
type CallerContractError struct {
	Reason string
	Err    error
}

func (e *CallerContractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("editor contract violated: %s: %v", e.Reason, e.Err)
	}
	return "editor contract violated: " + e.Reason
}

func (e *CallerContractError) Unwrap() error { return e.Err }
