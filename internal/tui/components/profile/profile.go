package profile

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/models"
	"github.com/lolo8304/habits-together/internal/relationship"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 3)

	nameStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	friendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	dangerButtonStyle = buttonStyle.Background(lipgloss.Color("160"))
)

// Model renders one user's profile and drives the relationship button
type Model struct {
	subject models.User
	ctrl    *relationship.Controller
	spinner spinner.Model
	action  key.Binding
	cancel  key.Binding
	notice  string
}

func New(subject models.User, ctrl *relationship.Controller) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{
		subject: subject,
		ctrl:    ctrl,
		spinner: s,
		action: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "press button"),
		),
		cancel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cancel request"),
		),
	}
}

func (m Model) Subject() models.User { return m.subject }

func (m Model) ActionKey() key.Binding { return m.action }

func (m Model) CancelKey() key.Binding { return m.cancel }

func (m Model) Init() tea.Cmd {
	if m.ctrl.InFlight() != relationship.ActionNone {
		return m.spinner.Tick
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		var action relationship.Action
		switch {
		case key.Matches(msg, m.action):
			action = m.ctrl.View().Available
		case key.Matches(msg, m.cancel):
			action = relationship.ActionRemove
		default:
			return m, nil
		}
		var (
			cmd tea.Cmd
			err error
		)
		switch action {
		case relationship.ActionAdd:
			cmd, err = m.ctrl.SendFriendRequest(context.Background())
		case relationship.ActionRemove:
			cmd, err = m.ctrl.RemoveFriend(context.Background())
		default:
			err = relationship.ErrActionUnavailable
		}
		if err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.notice = ""
		return m, tea.Batch(cmd, m.spinner.Tick)

	case spinner.TickMsg:
		if m.ctrl.InFlight() == relationship.ActionNone {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	view := m.ctrl.View()

	lines := []string{
		nameStyle.Render(m.subject.Name()),
		mutedStyle.Render("@" + m.subject.Username),
		"",
		"Joined " + m.subject.CreatedAt.Local().Format(constants.DisplayDateFormat),
	}
	if view.Status == models.RelationshipFriends && view.FriendsSince != nil {
		lines = append(lines, friendStyle.Render("Friends since "+view.FriendsSince.Local().Format(constants.DisplayDateFormat)))
	}
	lines = append(lines, "", m.button(view))
	if view.Status == models.RelationshipPendingOutgoing && !view.IsAddPending && !view.IsRemovePending {
		lines = append(lines, mutedStyle.Render("Request sent · x to cancel"))
	}

	if view.Err != nil {
		lines = append(lines, "", errorStyle.Render(view.Err.Error()))
	}
	if m.notice != "" {
		lines = append(lines, "", mutedStyle.Render(m.notice))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) button(view relationship.View) string {
	switch {
	case view.IsAddPending:
		return buttonStyle.Render(m.spinner.View() + " Sending request")
	case view.IsRemovePending:
		return dangerButtonStyle.Render(m.spinner.View() + " Removing")
	}

	switch view.Status {
	case models.RelationshipFriends:
		return dangerButtonStyle.Render("Remove friend")
	case models.RelationshipPendingOutgoing:
		return buttonStyle.Render("Send request again")
	default:
		return buttonStyle.Render("Add friend")
	}
}
