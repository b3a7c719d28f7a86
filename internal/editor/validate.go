package editor

import (
	"strings"

	"github.com/lolo8304/habits-together/internal/catalog"
	"github.com/lolo8304/habits-together/internal/models"
)

// Validate checks the whole draft in one pass and returns nil when it is valid
func Validate(draft models.HabitDraft, catalogs catalog.Set) *ValidationError {
	var errs []FieldError

	if !catalogs.Icons.Has(draft.Icon) {
		errs = append(errs, FieldError{Field: FieldIcon, Message: "unknown icon " + quote(draft.Icon)})
	}
	if strings.TrimSpace(draft.Title) == "" {
		errs = append(errs, FieldError{Field: FieldTitle, Message: "title is required"})
	}
	if !catalogs.Colors.Has(draft.ColorName) {
		errs = append(errs, FieldError{Field: FieldColorName, Message: "unknown color " + quote(draft.ColorName)})
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

func quote(s string) string {
	return "\"" + s + "\""
}
