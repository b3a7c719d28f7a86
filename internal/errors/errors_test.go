package errors

import (
	"errors"
	"testing"

	"github.com/lolo8304/habits-together/internal/editor"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name: "validation error",
			err: &editor.ValidationError{Fields: []editor.FieldError{
				{Field: editor.FieldTitle, Message: "title is required"},
				{Field: editor.FieldColorName, Message: `unknown color "plaid"`},
			}},
			expected: "Error: habit is invalid\n  - title: title is required\n  - colorName: unknown color \"plaid\"",
		},
		{
			name:     "mutation error",
			err:      &editor.MutationError{Op: "update", Err: errors.New("no such habit")},
			expected: "Error: update habit: no such habit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	if got := Formatf("user %q not found", "ana"); got != `Error: user "ana" not found` {
		t.Errorf("Formatf() = %q", got)
	}
}
