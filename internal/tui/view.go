package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lolo8304/habits-together/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case constants.StatePeople:
		content = docStyle.Render(m.peopleModel.View())
	case constants.StateEditor:
		content = m.editor.View()
	case constants.StateProfile:
		content = lipgloss.Place(m.width, max(m.height-6, 0),
			lipgloss.Center, lipgloss.Center,
			m.profileModel.View(),
		)
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	var notice string
	if m.notice != "" {
		notice = warningStyle.Render(m.notice)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		notice,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := "Habits"
	if m.state == constants.StatePeople || m.state == constants.StateProfile {
		active = "People"
	}

	var tabs []string
	for _, title := range []string{"Habits", "People"} {
		if title == active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	tabs = append(tabs, mutedStyle.Render("  @"+m.viewer.Username))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete habit \""+m.habitToDelete.Title+"\"?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
