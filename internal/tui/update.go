package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/editor"
	"github.com/lolo8304/habits-together/internal/logger"
	"github.com/lolo8304/habits-together/internal/models"
	"github.com/lolo8304/habits-together/internal/relationship"
	"github.com/lolo8304/habits-together/internal/tui/components/habits"
	"github.com/lolo8304/habits-together/internal/tui/components/people"
	"github.com/lolo8304/habits-together/internal/tui/components/profile"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		w, h := m.contentSize()
		m.habitsModel.SetSize(w, h)
		m.peopleModel.SetSize(w, h)
		if m.editor != nil {
			m.editor.SetSize(w, h)
		}

	case relationship.SettledMsg:
		// routed by subject so a settlement lands even after its profile was closed
		if ctrl, ok := m.controllers[msg.SubjectID]; ok {
			if err := ctrl.Settle(msg); err != nil {
				logger.Warn("Relationship change failed", "subject", msg.SubjectID, "action", msg.Action, "error", err)
			} else {
				logger.Info("Relationship changed", "subject", msg.SubjectID, "status", ctrl.Relationship().Status)
			}
		}
		m.reloadPeople()
		return m, nil

	case HabitSavedMsg:
		logger.Info("Habit saved", "id", msg.Completion.Habit.ID, "mode", msg.Completion.Mode)
		m.editor = nil
		m.state = constants.StateHabits
		m.notice = "Saved " + msg.Completion.Habit.Title
		m.reloadHabits()
		return m, nil

	case EditorClosedMsg:
		m.editor = nil
		m.state = constants.StateHabits
		return m, nil

	case habits.NewHabitMsg:
		return m.openEditor(editor.ModeCreate, nil)

	case habits.EditHabitMsg:
		habit := msg.Habit
		return m.openEditor(editor.ModeEdit, &habit)

	case habits.DeleteHabitMsg:
		m.habitToDelete = msg
		m.state = constants.StateConfirmDelete
		return m, nil

	case people.OpenProfileMsg:
		ctrl, err := m.controllerFor(msg.User)
		if err != nil {
			m.notice = "Could not load profile: " + err.Error()
			return m, nil
		}
		pm := profile.New(msg.User, ctrl)
		m.profileModel = &pm
		m.state = constants.StateProfile
		m.notice = ""
		return m, pm.Init()
	}

	switch m.state {
	case constants.StateEditor:
		return m, m.editor.Update(msg)

	case constants.StateConfirmDelete:
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, m.keys.Confirm):
				m.deleteHabit()
				m.state = constants.StateHabits
			case key.Matches(msg, m.keys.Cancel):
				m.state = constants.StateHabits
			}
		}
		return m, nil

	case constants.StateProfile:
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, m.keys.Back):
				m.state = constants.StatePeople
				m.profileModel = nil
				m.reloadPeople()
				return m, nil
			case msg.String() == "ctrl+c":
				m.quitting = true
				return m, tea.Quit
			}
		}
		pm, cmd := m.profileModel.Update(msg)
		m.profileModel = &pm
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
			if m.state == constants.StateHabits {
				m.state = constants.StatePeople
				m.reloadPeople()
			} else {
				m.state = constants.StateHabits
			}
			m.notice = ""
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case constants.StatePeople:
		m.peopleModel, cmd = m.peopleModel.Update(msg)
	}
	return m, cmd
}

func (m Model) openEditor(mode editor.Mode, record *models.Habit) (tea.Model, tea.Cmd) {
	ed, err := editor.Open(mode, record, m.catalogs)
	if err != nil {
		logger.Error("Failed to open editor", "mode", mode, "error", err)
		m.notice = err.Error()
		return m, nil
	}
	w, h := m.contentSize()
	m.editor = newEditorScreen(ed, m.habitService(), m.keys, w, h)
	m.state = constants.StateEditor
	m.notice = ""
	return m, m.editor.Init()
}

func (m *Model) deleteHabit() {
	target := m.habitToDelete
	m.habitToDelete = habits.DeleteHabitMsg{}
	if err := m.store.DeleteHabit(context.Background(), target.ID); err != nil {
		logger.Warn("Failed to delete habit", "id", target.ID, "error", err)
		m.notice = "Could not delete habit: " + err.Error()
		return
	}
	m.notice = "Deleted " + target.Title
	m.reloadHabits()
}
