// Package relationship drives the viewer's relationship with one subject user.
// Mutations go through a single in-flight slot; the status only changes when
// the relationship service confirms it.
package relationship

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lolo8304/habits-together/internal/models"
)

var (
	// ErrActionInFlight is returned when a mutation is requested while another one is pending
	ErrActionInFlight = errors.New("a relationship change is already in progress")
	// ErrActionUnavailable is returned when the action does not match the current status
	ErrActionUnavailable = errors.New("action not available for the current relationship")
)

// Service performs relationship mutations and returns the resulting relationship
type Service interface {
	SendFriendRequest(ctx context.Context, subjectID string) (models.Relationship, error)
	RemoveFriend(ctx context.Context, subjectID string) (models.Relationship, error)
}

// Action identifies a relationship mutation
type Action int

const (
	ActionNone Action = iota
	ActionAdd
	ActionRemove
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "send friend request"
	case ActionRemove:
		return "remove friend"
	default:
		return "none"
	}
}

// MutationError wraps a failed relationship mutation
type MutationError struct {
	Action    Action
	SubjectID string
	Err       error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// SettledMsg reports the outcome of a mutation
type SettledMsg struct {
	SubjectID    string
	Action       Action
	Relationship models.Relationship
	Err          error
}

// View is the render-ready state of the controller
type View struct {
	Status          models.RelationshipStatus
	FriendsSince    *time.Time
	IsAddPending    bool
	IsRemovePending bool
	Available       Action
	Err             error
}

// Controller owns the relationship state for one subject
type Controller struct {
	subjectID string
	svc       Service
	timeout   time.Duration

	rel      models.Relationship
	inFlight Action
	lastErr  error
}

// NewController creates a controller seeded with the subject's current relationship
func NewController(subjectID string, initial models.Relationship, svc Service) *Controller {
	return &Controller{
		subjectID: subjectID,
		svc:       svc,
		rel:       initial.Normalize(),
	}
}

// WithTimeout bounds each service call
func (c *Controller) WithTimeout(d time.Duration) *Controller {
	c.timeout = d
	return c
}

func (c *Controller) SubjectID() string { return c.subjectID }

// Relationship returns the last confirmed relationship
func (c *Controller) Relationship() models.Relationship { return c.rel }

// InFlight returns the pending action, or ActionNone
func (c *Controller) InFlight() Action { return c.inFlight }

// View returns the state to render
func (c *Controller) View() View {
	return View{
		Status:          c.rel.Status,
		FriendsSince:    c.rel.FriendsSince,
		IsAddPending:    c.inFlight == ActionAdd,
		IsRemovePending: c.inFlight == ActionRemove,
		Available:       Available(c.rel.Status),
		Err:             c.lastErr,
	}
}

// Available returns the primary action offered for a status: add until the
// users are friends, remove once they are.
func Available(status models.RelationshipStatus) Action {
	switch status {
	case models.RelationshipNone, models.RelationshipPendingOutgoing:
		return ActionAdd
	case models.RelationshipFriends:
		return ActionRemove
	default:
		return ActionNone
	}
}

// Permitted reports whether action may start from status. Besides the
// primary action, a pending outgoing request may be cancelled with remove.
func Permitted(status models.RelationshipStatus, action Action) bool {
	switch action {
	case ActionAdd:
		return status == models.RelationshipNone || status == models.RelationshipPendingOutgoing
	case ActionRemove:
		return status == models.RelationshipPendingOutgoing || status == models.RelationshipFriends
	default:
		return false
	}
}

// SendFriendRequest starts a friend request. The returned command performs the
// service call and yields a SettledMsg to pass to Settle.
func (c *Controller) SendFriendRequest(ctx context.Context) (tea.Cmd, error) {
	return c.begin(ctx, ActionAdd)
}

// RemoveFriend starts removing the friendship or cancelling the outgoing request
func (c *Controller) RemoveFriend(ctx context.Context) (tea.Cmd, error) {
	return c.begin(ctx, ActionRemove)
}

func (c *Controller) begin(ctx context.Context, action Action) (tea.Cmd, error) {
	if c.inFlight != ActionNone {
		return nil, ErrActionInFlight
	}
	if !Permitted(c.rel.Status, action) {
		return nil, ErrActionUnavailable
	}
	c.inFlight = action
	c.lastErr = nil

	subjectID, svc, timeout := c.subjectID, c.svc, c.timeout
	return func() tea.Msg {
		callCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		var (
			rel models.Relationship
			err error
		)
		switch action {
		case ActionAdd:
			rel, err = svc.SendFriendRequest(callCtx, subjectID)
		case ActionRemove:
			rel, err = svc.RemoveFriend(callCtx, subjectID)
		}
		return SettledMsg{SubjectID: subjectID, Action: action, Relationship: rel, Err: err}
	}, nil
}

// Settle applies a mutation outcome. The in-flight slot is always cleared.
// A failure leaves the status as it was and is returned as a *MutationError.
func (c *Controller) Settle(msg SettledMsg) error {
	if msg.SubjectID != c.subjectID || msg.Action != c.inFlight || c.inFlight == ActionNone {
		return nil
	}
	c.inFlight = ActionNone

	if msg.Err != nil {
		c.lastErr = &MutationError{Action: msg.Action, SubjectID: msg.SubjectID, Err: msg.Err}
		return c.lastErr
	}
	c.rel = msg.Relationship.Normalize()
	return nil
}

// Do runs action to completion synchronously
func (c *Controller) Do(ctx context.Context, action Action) error {
	var (
		cmd tea.Cmd
		err error
	)
	switch action {
	case ActionAdd:
		cmd, err = c.SendFriendRequest(ctx)
	case ActionRemove:
		cmd, err = c.RemoveFriend(ctx)
	default:
		return ErrActionUnavailable
	}
	if err != nil {
		return err
	}
	msg, _ := cmd().(SettledMsg)
	return c.Settle(msg)
}

// Refresh replaces the confirmed relationship with one fetched from outside.
// The pending slot is left alone.
func (c *Controller) Refresh(rel models.Relationship) {
	c.rel = rel.Normalize()
}
