package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lolo8304/habits-together/internal/catalog"
	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/editor"
	"github.com/lolo8304/habits-together/internal/models"
	"github.com/lolo8304/habits-together/internal/relationship"
	"github.com/lolo8304/habits-together/internal/storage"
	"github.com/lolo8304/habits-together/internal/tui/components/habits"
	"github.com/lolo8304/habits-together/internal/tui/components/people"
)

func setupTestModel(t *testing.T) (Model, *storage.SQLiteStore) {
	t.Helper()
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, u := range []models.User{
		{ID: "a", Username: "ada", DisplayName: "Ada"},
		{ID: "b", Username: "bob", DisplayName: "Bob"},
	} {
		if err := store.AddUser(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	viewer, err := store.GetUser(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(store, viewer, catalog.Default()), store
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

// collect runs cmd and flattens batches into the produced messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEditorScreen_CreateSubmit(t *testing.T) {
	m, store := setupTestModel(t)

	m, _ = update(t, m, habits.NewHabitMsg{})
	if m.state != constants.StateEditor || m.editor == nil {
		t.Fatalf("expected editor state, got %v", m.state)
	}

	m.editor.values.Title = "Read"
	if err := m.editor.values.Sync(m.editor.ed); err != nil {
		t.Fatal(err)
	}

	cmd := m.editor.submit()
	if cmd == nil {
		t.Fatalf("submit returned no command, notice=%q fields=%v", m.editor.notice, m.editor.fields)
	}
	if !m.editor.ed.Submitting() {
		t.Error("editor should be submitting")
	}

	result := cmd()
	m, cmd = update(t, m, result)
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	saved, ok := msgs[0].(HabitSavedMsg)
	if !ok {
		t.Fatalf("expected HabitSavedMsg, got %T", msgs[0])
	}
	if saved.Completion.Mode != editor.ModeCreate || saved.Completion.Habit.Title != "Read" {
		t.Errorf("unexpected completion: %+v", saved.Completion)
	}

	m, _ = update(t, m, saved)
	if m.state != constants.StateHabits || m.editor != nil {
		t.Errorf("expected to return to habits, state=%v", m.state)
	}

	list, err := store.GetHabitsForUser(context.Background(), "a", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Icon != constants.DefaultHabitIcon {
		t.Errorf("stored habits = %+v", list)
	}
}

func TestEditorScreen_ValidationKeepsSessionOpen(t *testing.T) {
	m, store := setupTestModel(t)
	m, _ = update(t, m, habits.NewHabitMsg{})

	if cmd := m.editor.submit(); cmd != nil {
		t.Fatal("submit of an empty title should not start a service call")
	}
	if _, ok := m.editor.fields[editor.FieldTitle]; !ok {
		t.Errorf("expected a title error, got %v", m.editor.fields)
	}
	if m.editor.ed.Closed() || m.editor.ed.Submitting() {
		t.Error("session should stay open and idle after a validation failure")
	}

	list, _ := store.GetHabitsForUser(context.Background(), "a", true)
	if len(list) != 0 {
		t.Errorf("invalid habit persisted: %+v", list)
	}
}

type failingHabits struct{}

func (failingHabits) CreateHabit(context.Context, models.HabitDraft) (models.Habit, error) {
	return models.Habit{}, errors.New("disk full")
}

func (failingHabits) UpdateHabit(context.Context, string, models.HabitDraft) (models.Habit, error) {
	return models.Habit{}, errors.New("disk full")
}

func TestEditorScreen_ServiceFailureAllowsRetry(t *testing.T) {
	ed, err := editor.Open(editor.ModeCreate, nil, catalog.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := ed.Set(editor.FieldTitle, "Read"); err != nil {
		t.Fatal(err)
	}
	s := newEditorScreen(ed, failingHabits{}, DefaultKeyMap(), 80, 20)

	cmd := s.submit()
	if cmd == nil {
		t.Fatal("expected a service call")
	}
	if next := s.Update(cmd()); next != nil {
		t.Error("failed save should not signal completion")
	}
	if ed.Closed() || ed.Submitting() {
		t.Error("session should stay open for a retry")
	}
	if s.notice == "" {
		t.Error("failure should be shown to the user")
	}
	if ed.Draft().Title != "Read" {
		t.Errorf("draft changed after failure: %+v", ed.Draft())
	}
}

func TestEditorScreen_EditMode(t *testing.T) {
	m, store := setupTestModel(t)
	ctx := context.Background()

	h, err := storage.ViewerHabits{Provider: store, ViewerID: "a"}.CreateHabit(ctx, models.HabitDraft{
		Icon: "book", Title: "Read", ColorName: "red",
	})
	if err != nil {
		t.Fatal(err)
	}

	m, _ = update(t, m, habits.EditHabitMsg{Habit: h})
	if m.editor.ed.Mode() != editor.ModeEdit {
		t.Fatalf("expected edit mode")
	}
	if m.editor.values.Title != "Read" || m.editor.values.Icon != "book" {
		t.Errorf("form not seeded from record: %+v", m.editor.values)
	}

	m.editor.values.ColorName = "blue"
	if err := m.editor.values.Sync(m.editor.ed); err != nil {
		t.Fatal(err)
	}
	cmd := m.editor.submit()
	if cmd == nil {
		t.Fatal("expected a service call")
	}
	m, next := update(t, m, cmd())
	for _, msg := range collect(next) {
		m, _ = update(t, m, msg)
	}

	got, err := store.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ColorName != "blue" || got.Title != "Read" {
		t.Errorf("update not applied: %+v", got)
	}
	all, _ := store.GetHabitsForUser(ctx, "a", true)
	if len(all) != 1 {
		t.Errorf("edit created a new habit: %d habits", len(all))
	}
}

func TestEditorScreen_IconBrowser(t *testing.T) {
	m, _ := setupTestModel(t)
	m, _ = update(t, m, habits.NewHabitMsg{})
	ed := m.editor.ed

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if !ed.IconBrowserOpen() {
		t.Fatal("ctrl+o should open the icon browser")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if ed.IconBrowserOpen() {
		t.Error("selecting an icon should close the browser")
	}
	want := catalog.Default().Icons.Keys()[1]
	if ed.Draft().Icon != want || m.editor.values.Icon != want {
		t.Errorf("icon = %q (form %q), want %q", ed.Draft().Icon, m.editor.values.Icon, want)
	}

	// esc closes the browser without changing the icon
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if ed.IconBrowserOpen() || ed.Draft().Icon != want {
		t.Errorf("esc changed state: open=%v icon=%q", ed.IconBrowserOpen(), ed.Draft().Icon)
	}
}

func TestEditorScreen_Abandon(t *testing.T) {
	m, store := setupTestModel(t)
	m, _ = update(t, m, habits.NewHabitMsg{})
	ed := m.editor.ed

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !ed.Closed() {
		t.Error("esc should abandon the session")
	}
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	m, _ = update(t, m, msgs[0])
	if m.state != constants.StateHabits {
		t.Errorf("state = %v, want habits", m.state)
	}

	list, _ := store.GetHabitsForUser(context.Background(), "a", true)
	if len(list) != 0 {
		t.Errorf("abandoned draft persisted: %+v", list)
	}
}

func TestConfirmDelete(t *testing.T) {
	m, store := setupTestModel(t)
	ctx := context.Background()
	h, err := storage.ViewerHabits{Provider: store, ViewerID: "a"}.CreateHabit(ctx, models.HabitDraft{
		Icon: "book", Title: "Read", ColorName: "red",
	})
	if err != nil {
		t.Fatal(err)
	}

	m, _ = update(t, m, habits.DeleteHabitMsg{ID: h.ID, Title: h.Title})
	if m.state != constants.StateConfirmDelete {
		t.Fatalf("state = %v, want confirm delete", m.state)
	}
	m, _ = update(t, m, keyRunes("n"))
	if _, err := store.GetHabit(ctx, h.ID); err != nil {
		t.Fatalf("cancel deleted the habit: %v", err)
	}

	m, _ = update(t, m, habits.DeleteHabitMsg{ID: h.ID, Title: h.Title})
	m, _ = update(t, m, keyRunes("y"))
	if m.state != constants.StateHabits {
		t.Errorf("state = %v, want habits", m.state)
	}
	if _, err := store.GetHabit(ctx, h.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("habit not deleted: %v", err)
	}
}

func settledFrom(t *testing.T, cmd tea.Cmd) relationship.SettledMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if settled, ok := msg.(relationship.SettledMsg); ok {
			return settled
		}
	}
	t.Fatal("no SettledMsg produced")
	return relationship.SettledMsg{}
}

func TestProfile_SendRequestSettlesAfterLeaving(t *testing.T) {
	m, store := setupTestModel(t)
	bob, _ := store.GetUser(context.Background(), "b")

	m, _ = update(t, m, people.OpenProfileMsg{User: bob})
	if m.state != constants.StateProfile {
		t.Fatalf("state = %v, want profile", m.state)
	}
	ctrl := m.controllers["b"]

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if ctrl.InFlight() != relationship.ActionAdd {
		t.Fatalf("in flight = %v, want add", ctrl.InFlight())
	}
	if v := ctrl.View(); !v.IsAddPending || v.Status != models.RelationshipNone {
		t.Errorf("status must not change before confirmation: %+v", v)
	}

	// a second press while pending is rejected without a new call
	m, again := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if again != nil {
		t.Error("second press should not start another call")
	}

	settled := settledFrom(t, cmd)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != constants.StatePeople {
		t.Fatalf("state = %v, want people", m.state)
	}

	m, _ = update(t, m, settled)
	if ctrl.InFlight() != relationship.ActionNone {
		t.Error("slot not cleared")
	}
	if ctrl.Relationship().Status != models.RelationshipPendingOutgoing {
		t.Errorf("status = %s, want pending_outgoing", ctrl.Relationship().Status)
	}

	// reopening shows the settled state; sending again stays available
	m, _ = update(t, m, people.OpenProfileMsg{User: bob})
	if m.controllers["b"] != ctrl {
		t.Error("controller should be reused")
	}
	if ctrl.View().Available != relationship.ActionAdd {
		t.Errorf("available = %v, want add", ctrl.View().Available)
	}

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !ctrl.View().IsAddPending {
		t.Fatal("resend should be in flight")
	}
	m, _ = update(t, m, settledFrom(t, cmd))
	if ctrl.Relationship().Status != models.RelationshipPendingOutgoing {
		t.Errorf("status after resend = %s, want pending_outgoing", ctrl.Relationship().Status)
	}

	// x cancels the pending request
	m, cmd = update(t, m, keyRunes("x"))
	if !ctrl.View().IsRemovePending {
		t.Fatal("cancel should be in flight")
	}
	m, _ = update(t, m, settledFrom(t, cmd))
	if ctrl.Relationship().Status != models.RelationshipNone {
		t.Errorf("status after cancel = %s, want none", ctrl.Relationship().Status)
	}
	if _, again := update(t, m, keyRunes("x")); again != nil {
		t.Error("cancel without a pending request should not start a call")
	}
}

func TestProfile_RemoveFriend(t *testing.T) {
	m, store := setupTestModel(t)
	ctx := context.Background()
	if _, err := store.SendFriendRequest(ctx, "b", "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SendFriendRequest(ctx, "a", "b"); err != nil {
		t.Fatal(err)
	}
	bob, _ := store.GetUser(ctx, "b")

	m, _ = update(t, m, people.OpenProfileMsg{User: bob})
	ctrl := m.controllers["b"]
	if !ctrl.Relationship().Status.IsFriend() || ctrl.Relationship().FriendsSince == nil {
		t.Fatalf("expected friends with a date, got %+v", ctrl.Relationship())
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !ctrl.View().IsRemovePending {
		t.Fatal("remove should be pending")
	}
	m, _ = update(t, m, settledFrom(t, cmd))

	if ctrl.Relationship().Status != models.RelationshipNone || ctrl.Relationship().FriendsSince != nil {
		t.Errorf("after remove: %+v", ctrl.Relationship())
	}
	if m.profileModel == nil || m.profileModel.View() == "" {
		t.Error("profile should still render")
	}
}

func TestTabsAndQuit(t *testing.T) {
	m, _ := setupTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != constants.StatePeople {
		t.Errorf("state = %v, want people", m.state)
	}
	if m.View() == "" {
		t.Error("empty view")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != constants.StateHabits {
		t.Errorf("state = %v, want habits", m.state)
	}

	m, cmd := update(t, m, keyRunes("q"))
	if !m.quitting || cmd == nil {
		t.Error("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
