package people

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lolo8304/habits-together/internal/models"
)

// OpenProfileMsg asks the root model to show a user's profile
type OpenProfileMsg struct {
	User models.User
}

type Item struct {
	User   models.UserWithRelationship
	Asking bool
}

func (i Item) Title() string {
	return i.User.Name() + "  @" + i.User.Username
}

func (i Item) Description() string {
	switch {
	case i.User.Relationship.Status == models.RelationshipFriends:
		return "friend"
	case i.User.Relationship.Status == models.RelationshipPendingOutgoing:
		return "request sent"
	case i.Asking:
		return "wants to be your friend"
	default:
		return "not friends"
	}
}

func (i Item) FilterValue() string { return i.User.Username + " " + i.User.DisplayName }

type Model struct {
	list list.Model
	open key.Binding
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "People"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	open := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open profile"),
	)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{open}
	}
	return Model{list: l, open: open}
}

// SetPeople replaces the list. incoming holds the IDs of users who sent the
// viewer a request.
func (m *Model) SetPeople(users []models.UserWithRelationship, incoming map[string]bool) {
	items := make([]list.Item, len(users))
	for i, u := range users {
		items[i] = Item{User: u, Asking: incoming[u.ID]}
	}
	m.list.SetItems(items)
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.open) {
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return OpenProfileMsg{User: i.User.User} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "Nobody else here yet. Add people with 'habits user add'."
	}
	return m.list.View()
}
