package editor

import (
	"context"
	"errors"

	"github.com/lolo8304/habits-together/internal/catalog"
	"github.com/lolo8304/habits-together/internal/models"
)

// ErrSubmitInFlight is returned when a submit is issued while another one has not settled
var ErrSubmitInFlight = errors.New("habit is already being saved")

// Completion is the "session complete" signal: the caller returns to the previous screen.
type Completion struct {
	Mode  Mode
	Habit models.Habit
}

// Editor owns the draft of one editing session
type Editor struct {
	session  Session
	catalogs catalog.Set
	draft    models.HabitDraft

	iconBrowserOpen bool
	submitting      bool
	closed          bool
}

// New starts an editor over an initialized session
func New(session Session, catalogs catalog.Set) *Editor {
	return &Editor{
		session:  session,
		catalogs: catalogs,
		draft:    session.Draft(),
	}
}

// Open initializes a session and wraps it in an editor
func Open(mode Mode, record *models.Habit, catalogs catalog.Set) (*Editor, error) {
	s, err := Initialize(mode, record)
	if err != nil {
		return nil, err
	}
	return New(s, catalogs), nil
}

func (e *Editor) Session() Session { return e.session }
func (e *Editor) Mode() Mode { return e.session.Mode() }
func (e *Editor) Draft() models.HabitDraft { return e.draft }
func (e *Editor) Catalogs() catalog.Set { return e.catalogs }
func (e *Editor) Closed() bool { return e.closed }
func (e *Editor) Submitting() bool { return e.submitting }
func (e *Editor) IconBrowserOpen() bool { return e.iconBrowserOpen }

// Set replaces one field of the draft. The draft is frozen while a submit
// is in flight.
func (e *Editor) Set(field Field, value any) error {
	if e.closed {
		return ErrSessionClosed
	}
	if e.submitting {
		return ErrSubmitInFlight
	}
	d, err := SetField(e.draft, field, value)
	if err != nil {
		return err
	}
	e.draft = d
	return nil
}

// OpenIconBrowser shows the icon catalog
func (e *Editor) OpenIconBrowser() error {
	if e.closed {
		return ErrSessionClosed
	}
	e.iconBrowserOpen = true
	return nil
}

// CloseIconBrowser hides the icon catalog without changing the draft
func (e *Editor) CloseIconBrowser() {
	e.iconBrowserOpen = false
}

// SelectIcon sets the draft's icon and closes the browser in one step
func (e *Editor) SelectIcon(icon string) error {
	if err := e.Set(FieldIcon, icon); err != nil {
		return err
	}
	e.iconBrowserOpen = false
	return nil
}

// Validate checks the current draft without submitting it
func (e *Editor) Validate() *ValidationError {
	return Validate(e.draft, e.catalogs)
}

// Begin validates the draft and marks a submit as in flight. The returned
// intent must be dispatched by the caller and the result passed to Finish.
func (e *Editor) Begin() (Intent, error) {
	if e.closed {
		return nil, ErrSessionClosed
	}
	if e.submitting {
		return nil, ErrSubmitInFlight
	}
	intent, err := Submit(e.session, e.draft, e.catalogs)
	if err != nil {
		return nil, err
	}
	e.submitting = true
	return intent, nil
}

// Finish settles an in-flight submit. On success the session closes and the
// draft is discarded; on failure the draft stays so the user can try again.
func (e *Editor) Finish(saved models.Habit, err error) (Completion, error) {
	if !e.submitting {
		return Completion{}, &CallerContractError{Reason: "finish without begin"}
	}
	e.submitting = false
	if err != nil {
		var merr *MutationError
		if !errors.As(err, &merr) {
			err = &MutationError{Op: opFor(e.session), Err: err}
		}
		return Completion{}, err
	}
	e.close()
	return Completion{Mode: e.session.Mode(), Habit: saved}, nil
}

// Submit validates, dispatches the intent to svc once and completes the session
func (e *Editor) Submit(ctx context.Context, svc HabitService) (Completion, error) {
	intent, err := e.Begin()
	if err != nil {
		return Completion{}, err
	}
	saved, err := Dispatch(ctx, intent, svc)
	return e.Finish(saved, err)
}

// Abandon discards the draft without persisting anything
func (e *Editor) Abandon() {
	e.close()
}

func (e *Editor) close() {
	e.closed = true
	e.iconBrowserOpen = false
	e.draft = models.HabitDraft{}
}

func opFor(s Session) string {
	if s.Mode() == ModeEdit {
		return "update"
	}
	return "create"
}
