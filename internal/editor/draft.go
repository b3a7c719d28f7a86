package editor

import (
	"fmt"

	"github.com/lolo8304/habits-together/internal/models"
)

// Field names one editable field of a habit draft
type Field string

const (
	FieldIcon                     Field = "icon"
	FieldTitle                    Field = "title"
	FieldDescription              Field = "description"
	FieldColorName                Field = "colorName"
	FieldAllowMultipleCompletions Field = "allowMultipleCompletions"
)

// Fields lists the draft fields in form order
var Fields = []Field{FieldIcon, FieldTitle, FieldDescription, FieldColorName, FieldAllowMultipleCompletions}

// SetField returns a copy of draft with one field replaced. Values are not
// validated here so intermediate states such as an empty title stay
// representable. A value of the wrong type is a caller error and the draft
// is returned unchanged.
func SetField(draft models.HabitDraft, field Field, value any) (models.HabitDraft, error) {
	switch field {
	case FieldAllowMultipleCompletions:
		b, ok := value.(bool)
		if !ok {
			return draft, wrongType(field, "bool", value)
		}
		draft.AllowMultipleCompletions = b
		return draft, nil
	case FieldIcon, FieldTitle, FieldDescription, FieldColorName:
		s, ok := value.(string)
		if !ok {
			return draft, wrongType(field, "string", value)
		}
		switch field {
		case FieldIcon:
			draft.Icon = s
		case FieldTitle:
			draft.Title = s
		case FieldDescription:
			draft.Description = s
		case FieldColorName:
			draft.ColorName = s
		}
		return draft, nil
	default:
		return draft, &CallerContractError{Reason: fmt.Sprintf("unknown field %q", field)}
	}
}

func wrongType(field Field, want string, value any) error {
	return &CallerContractError{Reason: fmt.Sprintf("field %s expects %s, got %T", field, want, value)}
}
