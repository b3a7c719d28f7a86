// Package editor implements the habit editor: one draft per session,
// seeded from defaults (create) or an existing habit (edit), validated on
// submit into exactly one create or update intent.
package editor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/models"
)

// Mode selects between creating a new habit and editing an existing one
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// ParseMode converts a string into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCreate, ModeEdit:
		return Mode(s), nil
	default:
		return "", &CallerContractError{Reason: fmt.Sprintf("unknown mode %q", s)}
	}
}

// Session is the result of initializing an editor. It is either a
// CreateSession or an EditSession.
type Session interface {
	Mode() Mode
	// Draft returns the initial draft of the session
	Draft() models.HabitDraft
	isSession()
}

// CreateSession starts from the default draft
type CreateSession struct {
	initial models.HabitDraft
}

func (s CreateSession) Mode() Mode { return ModeCreate }
func (s CreateSession) Draft() models.HabitDraft { return s.initial }
func (CreateSession) isSession() {}

// EditSession starts from an existing habit. The identifier is kept apart
// from the editable draft.
type EditSession struct {
	ID      string
	initial models.HabitDraft
}

func (s EditSession) Mode() Mode { return ModeEdit }
func (s EditSession) Draft() models.HabitDraft { return s.initial }
func (EditSession) isSession() {}

// DefaultDraft returns the draft a new habit starts from
func DefaultDraft() models.HabitDraft {
	return models.HabitDraft{
		Icon:                     constants.DefaultHabitIcon,
		Title:                    "",
		Description:              "",
		ColorName:                constants.DefaultHabitColor,
		AllowMultipleCompletions: false,
	}
}

// Initialize starts an editor session. Edit mode requires a record with an ID.
func Initialize(mode Mode, record *models.Habit) (Session, error) {
	switch mode {
	case ModeCreate:
		return CreateSession{initial: DefaultDraft()}, nil
	case ModeEdit:
		if record == nil {
			return nil, &CallerContractError{Reason: "edit mode requires a habit record"}
		}
		if record.ID == "" {
			return nil, &CallerContractError{Reason: "habit record has no id"}
		}
		return EditSession{ID: record.ID, initial: record.Draft()}, nil
	default:
		return nil, &CallerContractError{Reason: fmt.Sprintf("unknown mode %q", mode)}
	}
}

// ParseSessionInput initializes a session from its serialized form: a mode
// name and, in edit mode, the habit record as JSON.
func ParseSessionInput(mode string, habitJSON string) (Session, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}
	if m == ModeCreate {
		return Initialize(ModeCreate, nil)
	}
	if habitJSON == "" {
		return nil, &CallerContractError{Reason: "edit mode requires a habit record"}
	}
	var record models.Habit
	dec := json.NewDecoder(strings.NewReader(habitJSON))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&record); err != nil {
		return nil, &CallerContractError{Reason: "malformed habit record", Err: err}
	}
	if dec.More() {
		return nil, &CallerContractError{Reason: "trailing data after habit record"}
	}
	return Initialize(ModeEdit, &record)
}
