package editor

import (
	"context"
	"fmt"

	"github.com/lolo8304/habits-together/internal/catalog"
	"github.com/lolo8304/habits-together/internal/models"
)

// HabitService persists habits
type HabitService interface {
	CreateHabit(ctx context.Context, payload models.HabitDraft) (models.Habit, error)
	UpdateHabit(ctx context.Context, id string, payload models.HabitDraft) (models.Habit, error)
}

// Intent is a validated request to persist a draft. It is either a
// CreateIntent or an UpdateIntent.
type Intent interface {
	Draft() models.HabitDraft
	isIntent()
}

// CreateIntent asks the persistence service to create a habit
type CreateIntent struct {
	Payload models.HabitDraft
}

func (i CreateIntent) Draft() models.HabitDraft { return i.Payload }
func (CreateIntent) isIntent() {}

// UpdateIntent asks the persistence service to update habit ID
type UpdateIntent struct {
	ID      string
	Payload models.HabitDraft
}

func (i UpdateIntent) Draft() models.HabitDraft { return i.Payload }
func (UpdateIntent) isIntent() {}

// Submit validates draft and produces the intent matching the session's mode.
// On a validation failure no intent is returned.
func Submit(session Session, draft models.HabitDraft, catalogs catalog.Set) (Intent, error) {
	if session == nil {
		return nil, &CallerContractError{Reason: "no session"}
	}
	if verr := Validate(draft, catalogs); verr != nil {
		return nil, verr
	}
	switch s := session.(type) {
	case CreateSession:
		return CreateIntent{Payload: draft}, nil
	case EditSession:
		return UpdateIntent{ID: s.ID, Payload: draft}, nil
	default:
		return nil, &CallerContractError{Reason: fmt.Sprintf("unsupported session %T", session)}
	}
}

// Dispatch performs intent against svc exactly once. Failures are not retried.
func Dispatch(ctx context.Context, intent Intent, svc HabitService) (models.Habit, error) {
	switch in := intent.(type) {
	case CreateIntent:
		h, err := svc.CreateHabit(ctx, in.Payload)
		if err != nil {
			return models.Habit{}, &MutationError{Op: "create", Err: err}
		}
		return h, nil
	case UpdateIntent:
		h, err := svc.UpdateHabit(ctx, in.ID, in.Payload)
		if err != nil {
			return models.Habit{}, &MutationError{Op: "update", Err: err}
		}
		return h, nil
	default:
		return models.Habit{}, &CallerContractError{Reason: fmt.Sprintf("unsupported intent %T", intent)}
	}
}
