package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/lolo8304/habits-together/internal/catalog"
	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/editor"
	"github.com/lolo8304/habits-together/internal/models"
)

// HabitSavedMsg tells the root model the editor finished and which habit was saved
type HabitSavedMsg struct {
	Completion editor.Completion
}

// EditorClosedMsg tells the root model the editor was abandoned
type EditorClosedMsg struct{}

// submitResultMsg carries the service outcome back into the editor screen
type submitResultMsg struct {
	saved models.Habit
	err   error
}

type iconItem struct {
	key   string
	glyph string
}

func (i iconItem) Title() string       { return i.glyph + "  " + i.key }
func (i iconItem) Description() string { return "" }
func (i iconItem) FilterValue() string { return i.key }

// editorScreen hosts one editing session: a huh form for the text fields and
// a list-based icon browser.
type editorScreen struct {
	ed     *editor.Editor
	svc    editor.HabitService
	values *HabitFormValues
	form   *huh.Form
	icons  list.Model
	keys   KeyMap
	fields map[editor.Field]string
	notice string
}

func newEditorScreen(ed *editor.Editor, svc editor.HabitService, keys KeyMap, width, height int) *editorScreen {
	values := FormValuesFrom(ed.Draft())

	items := make([]list.Item, 0, ed.Catalogs().Icons.Len())
	for _, k := range ed.Catalogs().Icons.Keys() {
		glyph, _ := ed.Catalogs().Icons.Value(k)
		items = append(items, iconItem{key: k, glyph: glyph})
	}
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	icons := list.New(items, delegate, width, height)
	icons.Title = "Choose an icon"
	icons.SetShowHelp(false)

	return &editorScreen{
		ed:     ed,
		svc:    svc,
		values: values,
		form:   NewHabitForm(values, ed.Catalogs(), false),
		icons:  icons,
		keys:   keys,
	}
}

func (s *editorScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *editorScreen) SetSize(width, height int) {
	s.icons.SetSize(width, height)
}

func (s *editorScreen) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(submitResultMsg); ok {
		return s.finish(msg)
	}

	if s.ed.IconBrowserOpen() {
		return s.updateIconBrowser(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, s.keys.Back):
			if s.ed.Submitting() {
				return nil
			}
			s.ed.Abandon()
			return func() tea.Msg { return EditorClosedMsg{} }
		case key.Matches(msg, s.keys.Icons):
			if err := s.ed.OpenIconBrowser(); err != nil {
				s.notice = err.Error()
			}
			s.selectCurrentIcon()
			return nil
		}
	}

	if s.ed.Submitting() {
		return nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	if err := s.values.Sync(s.ed); err != nil {
		s.notice = err.Error()
	}

	switch s.form.State {
	case huh.StateCompleted:
		return tea.Batch(cmd, s.submit())
	case huh.StateAborted:
		s.ed.Abandon()
		return func() tea.Msg { return EditorClosedMsg{} }
	}
	return cmd
}

func (s *editorScreen) updateIconBrowser(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && s.icons.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, s.keys.Back):
			s.ed.CloseIconBrowser()
			return nil
		case key.Matches(msg, s.keys.Enter):
			if item, ok := s.icons.SelectedItem().(iconItem); ok {
				if err := s.ed.SelectIcon(item.key); err != nil {
					s.notice = err.Error()
				}
				s.values.Icon = s.ed.Draft().Icon
				delete(s.fields, editor.FieldIcon)
			}
			return nil
		}
	}

	var cmd tea.Cmd
	s.icons, cmd = s.icons.Update(msg)
	return cmd
}

func (s *editorScreen) selectCurrentIcon() {
	current := s.ed.Draft().Icon
	for i, item := range s.icons.Items() {
		if it, ok := item.(iconItem); ok && it.key == current {
			s.icons.Select(i)
			return
		}
	}
}

// submit validates the draft and starts the service call. Validation
// failures reopen the form with the field messages shown.
func (s *editorScreen) submit() tea.Cmd {
	intent, err := s.ed.Begin()
	if err != nil {
		s.form.State = huh.StateNormal
		var verr *editor.ValidationError
		if errors.As(err, &verr) {
			s.fields = make(map[editor.Field]string, len(verr.Fields))
			for _, f := range verr.Fields {
				s.fields[f.Field] = f.Message
			}
			s.notice = ""
			return nil
		}
		s.notice = err.Error()
		return nil
	}

	s.fields = nil
	s.notice = "Saving..."
	svc := s.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), constants.MutationTimeout)
		defer cancel()
		saved, err := editor.Dispatch(ctx, intent, svc)
		return submitResultMsg{saved: saved, err: err}
	}
}

func (s *editorScreen) finish(msg submitResultMsg) tea.Cmd {
	done, err := s.ed.Finish(msg.saved, msg.err)
	if err != nil {
		s.form.State = huh.StateNormal
		s.notice = err.Error()
		return nil
	}
	s.notice = ""
	return func() tea.Msg { return HabitSavedMsg{Completion: done} }
}

func (s *editorScreen) View() string {
	if s.ed.IconBrowserOpen() {
		return s.icons.View()
	}

	title := "New habit"
	if s.ed.Mode() == editor.ModeEdit {
		title = "Edit habit"
	}

	d := s.ed.Draft()
	cats := s.ed.Catalogs()
	preview := lipgloss.JoinHorizontal(lipgloss.Center,
		iconPreviewStyle.Render(catalog.Glyph(d.Icon)),
		" ",
		Swatch(cats.Colors, d.ColorName),
		" ",
		d.Title,
	)

	lines := []string{
		titleStyle.Render(title),
		preview,
		mutedStyle.Render("icon: " + d.Icon + "  (ctrl+o to change)"),
	}
	if msg, ok := s.fields[editor.FieldIcon]; ok {
		lines = append(lines, dangerStyle.Render("icon: "+msg))
	}
	lines = append(lines, "", s.form.View())

	for _, f := range []editor.Field{editor.FieldTitle, editor.FieldColorName} {
		if msg, ok := s.fields[f]; ok {
			lines = append(lines, dangerStyle.Render(string(f)+": "+msg))
		}
	}
	if s.notice != "" {
		lines = append(lines, warningStyle.Render(s.notice))
	}
	return docStyle.Render(strings.Join(lines, "\n"))
}
