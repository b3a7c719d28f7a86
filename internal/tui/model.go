package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lolo8304/habits-together/internal/catalog"
	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/logger"
	"github.com/lolo8304/habits-together/internal/models"
	"github.com/lolo8304/habits-together/internal/relationship"
	"github.com/lolo8304/habits-together/internal/storage"
	"github.com/lolo8304/habits-together/internal/tui/components/habits"
	"github.com/lolo8304/habits-together/internal/tui/components/people"
	"github.com/lolo8304/habits-together/internal/tui/components/profile"
)

type Model struct {
	store    storage.Provider
	viewer   models.User
	catalogs catalog.Set
	state    constants.SessionState
	keys     KeyMap
	help     help.Model

	habitsModel  habits.Model
	peopleModel  people.Model
	profileModel *profile.Model
	editor       *editorScreen

	// controllers outlive the profile screen so late settlements still land
	controllers map[string]*relationship.Controller

	habitToDelete habits.DeleteHabitMsg
	notice        string
	quitting      bool
	width         int
	height        int
}

func NewModel(store storage.Provider, viewer models.User, catalogs catalog.Set) Model {
	m := Model{
		store:       store,
		viewer:      viewer,
		catalogs:    catalogs,
		state:       constants.StateHabits,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(nil, catalogs.Colors, 0, 0),
		peopleModel: people.New(0, 0),
		controllers: make(map[string]*relationship.Controller),
	}
	m.reloadHabits()
	m.reloadPeople()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateEditor:
		keys = []key.Binding{m.keys.Back, m.keys.Icons}
	case constants.StateProfile:
		keys = []key.Binding{m.keys.Back, m.profileModel.ActionKey(), m.profileModel.CancelKey()}
	case constants.StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) reloadHabits() {
	list, err := m.store.GetHabitsForUser(context.Background(), m.viewer.ID, false)
	if err != nil {
		logger.Warn("Failed to load habits", "error", err)
		m.notice = "Could not load habits: " + err.Error()
		return
	}
	m.habitsModel.SetHabits(list)
}

// reloadPeople refreshes the people list and the confirmed status of every
// idle controller.
func (m *Model) reloadPeople() {
	ctx := context.Background()
	users, err := m.store.GetAllUsers(ctx)
	if err != nil {
		logger.Warn("Failed to load users", "error", err)
		m.notice = "Could not load people: " + err.Error()
		return
	}

	incoming := make(map[string]bool)
	if asking, err := m.store.GetIncomingRequests(ctx, m.viewer.ID); err == nil {
		for _, u := range asking {
			incoming[u.ID] = true
		}
	}

	var list []models.UserWithRelationship
	for _, u := range users {
		if u.ID == m.viewer.ID {
			continue
		}
		rel, err := m.store.GetRelationship(ctx, m.viewer.ID, u.ID)
		if err != nil {
			logger.Warn("Failed to load relationship", "subject", u.ID, "error", err)
			continue
		}
		if ctrl, ok := m.controllers[u.ID]; ok && ctrl.InFlight() == relationship.ActionNone {
			ctrl.Refresh(rel)
		}
		list = append(list, models.UserWithRelationship{User: u, Relationship: rel})
	}
	m.peopleModel.SetPeople(list, incoming)
}

func (m *Model) controllerFor(subject models.User) (*relationship.Controller, error) {
	if ctrl, ok := m.controllers[subject.ID]; ok {
		return ctrl, nil
	}
	rel, err := m.store.GetRelationship(context.Background(), m.viewer.ID, subject.ID)
	if err != nil {
		return nil, err
	}
	svc := storage.ViewerRelationships{Provider: m.store, ViewerID: m.viewer.ID}
	ctrl := relationship.NewController(subject.ID, rel, svc).WithTimeout(constants.MutationTimeout)
	m.controllers[subject.ID] = ctrl
	return ctrl, nil
}

func (m *Model) habitService() storage.ViewerHabits {
	return storage.ViewerHabits{Provider: m.store, ViewerID: m.viewer.ID}
}

func (m *Model) contentSize() (int, int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20
	}
	return max(m.width-4, 20), max(m.height-6, 5)
}
