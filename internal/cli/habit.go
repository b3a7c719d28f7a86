package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/lolo8304/habits-together/internal/catalog"
	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/editor"
	apperrors "github.com/lolo8304/habits-together/internal/errors"
	"github.com/lolo8304/habits-together/internal/models"
	"github.com/lolo8304/habits-together/internal/storage"
	"github.com/lolo8304/habits-together/internal/tui"
)

type HabitCmd struct {
	New    HabitNewCmd    `cmd:"" help:"Create a habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit (soft delete)."`
	Icons  HabitIconsCmd  `cmd:"" help:"List the available icons and colors."`
}

// DraftFlags are the per-field overrides shared by habit new and habit edit.
// Unset flags leave the draft field untouched.
type DraftFlags struct {
	Title       *string `help:"Habit title."`
	Description *string `help:"Habit description."`
	Icon        *string `help:"Icon key (see 'habits habit icons')."`
	Color       *string `help:"Color name."`
	Multiple    *bool   `help:"Allow more than one completion per day."`
	Interactive bool    `help:"Edit the habit in an interactive form." short:"i"`
}

func (f DraftFlags) apply(ed *editor.Editor) error {
	if f.Icon != nil {
		if err := ed.Set(editor.FieldIcon, *f.Icon); err != nil {
			return err
		}
	}
	if f.Title != nil {
		if err := ed.Set(editor.FieldTitle, *f.Title); err != nil {
			return err
		}
	}
	if f.Description != nil {
		if err := ed.Set(editor.FieldDescription, *f.Description); err != nil {
			return err
		}
	}
	if f.Color != nil {
		if err := ed.Set(editor.FieldColorName, *f.Color); err != nil {
			return err
		}
	}
	if f.Multiple != nil {
		if err := ed.Set(editor.FieldAllowMultipleCompletions, *f.Multiple); err != nil {
			return err
		}
	}
	if f.Interactive {
		values := tui.FormValuesFrom(ed.Draft())
		if err := tui.NewHabitForm(values, ed.Catalogs(), true).Run(); err != nil {
			return err
		}
		return values.Sync(ed)
	}
	return nil
}

// submitDraft runs the editor's submit against the viewer's habits and
// reports validation problems field by field.
func submitDraft(ctx *Context, ed *editor.Editor, viewer models.User) (models.Habit, error) {
	bg, cancel := context.WithTimeout(context.Background(), constants.MutationTimeout)
	defer cancel()

	done, err := ed.Submit(bg, storage.ViewerHabits{Provider: ctx.Store, ViewerID: viewer.ID})
	if err != nil {
		var verr *editor.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, apperrors.Format(verr))
			return models.Habit{}, errors.New("habit not saved")
		}
		return models.Habit{}, err
	}
	return done.Habit, nil
}

type HabitNewCmd struct {
	DraftFlags `embed:""`
}

func (c *HabitNewCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	viewer, err := ctx.Viewer(context.Background())
	if err != nil {
		return err
	}

	ed, err := editor.Open(editor.ModeCreate, nil, ctx.Catalogs)
	if err != nil {
		return err
	}
	if err := c.apply(ed); err != nil {
		return err
	}

	habit, err := submitDraft(ctx, ed, viewer)
	if err != nil {
		return err
	}
	fmt.Printf("Created habit: %s %s (%s)\n", catalog.Glyph(habit.Icon), habit.Title, habit.ID)
	return nil
}

type HabitEditCmd struct {
	ID     string `arg:"" optional:"" help:"Habit ID."`
	Record string `help:"Serialized habit record to edit, as printed by 'habit show --json'."`

	DraftFlags `embed:""`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	bg := context.Background()
	viewer, err := ctx.Viewer(bg)
	if err != nil {
		return err
	}

	var ed *editor.Editor
	switch {
	case c.Record != "":
		session, err := editor.ParseSessionInput(string(editor.ModeEdit), c.Record)
		if err != nil {
			return err
		}
		ed = editor.New(session, ctx.Catalogs)
	case c.ID != "":
		habit, err := ctx.Store.GetHabit(bg, c.ID)
		if err != nil {
			return err
		}
		if ed, err = editor.Open(editor.ModeEdit, &habit, ctx.Catalogs); err != nil {
			return err
		}
	default:
		return errors.New("either a habit ID or --record is required")
	}

	if err := c.apply(ed); err != nil {
		return err
	}

	habit, err := submitDraft(ctx, ed, viewer)
	if err != nil {
		return err
	}
	fmt.Printf("Updated habit: %s %s\n", catalog.Glyph(habit.Icon), habit.Title)
	return nil
}

type HabitListCmd struct {
	Deleted bool `help:"Include deleted habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	bg := context.Background()
	viewer, err := ctx.Viewer(bg)
	if err != nil {
		return err
	}

	habits, err := ctx.Store.GetHabitsForUser(bg, viewer.ID, c.Deleted)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		status := ""
		if h.DeletedAt != nil {
			status = " [DELETED]"
		}
		fmt.Printf("%s %-30s %-8s %s%s\n", catalog.Glyph(h.Icon), h.Title, h.ColorName, h.ID, status)
	}
	return nil
}

type HabitShowCmd struct {
	ID   string `arg:"" help:"Habit ID."`
	JSON bool   `help:"Print the habit record as JSON." name:"json"`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	habit, err := ctx.Store.GetHabit(context.Background(), c.ID)
	if err != nil {
		return err
	}

	if c.JSON {
		out, err := json.Marshal(habit)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%s %s\n", catalog.Glyph(habit.Icon), habit.Title)
	if habit.Description != "" {
		fmt.Printf("  %s\n", habit.Description)
	}
	fmt.Printf("  Icon:     %s\n", habit.Icon)
	fmt.Printf("  Color:    %s\n", habit.ColorName)
	fmt.Printf("  Multiple: %t\n", habit.Settings.AllowMultipleCompletions)
	fmt.Printf("  Created:  %s\n", habit.CreatedAt.Local().Format(constants.DisplayDateFormat))
	return nil
}

type HabitDeleteCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	bg := context.Background()
	viewer, err := ctx.Viewer(bg)
	if err != nil {
		return err
	}

	habit, err := ctx.Store.GetHabit(bg, c.ID)
	if err != nil {
		return err
	}
	if habit.UserID != viewer.ID {
		return fmt.Errorf("habit %q belongs to another user", c.ID)
	}
	if err := ctx.Store.DeleteHabit(bg, c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", habit.Title)
	return nil
}

type HabitIconsCmd struct{}

func (c *HabitIconsCmd) Run(ctx *Context) error {
	fmt.Println("Icons:")
	for _, k := range ctx.Catalogs.Icons.Keys() {
		glyph, _ := ctx.Catalogs.Icons.Value(k)
		fmt.Printf("  %s  %s\n", glyph, k)
	}
	fmt.Println()
	fmt.Println("Colors:")
	for _, k := range ctx.Catalogs.Colors.Keys() {
		hex, _ := ctx.Catalogs.Colors.Value(k)
		fmt.Printf("  %s %-8s %s\n", tui.Swatch(ctx.Catalogs.Colors, k), k, hex)
	}
	return nil
}
