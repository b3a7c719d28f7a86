package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/lolo8304/habits-together/internal/catalog"
	"github.com/lolo8304/habits-together/internal/editor"
	"github.com/lolo8304/habits-together/internal/models"
)

// HabitFormValues holds the values a habit form is bound to
type HabitFormValues struct {
	Icon                     string
	Title                    string
	Description              string
	ColorName                string
	AllowMultipleCompletions bool
}

// FormValuesFrom seeds form values from a draft
func FormValuesFrom(d models.HabitDraft) *HabitFormValues {
	return &HabitFormValues{
		Icon:                     d.Icon,
		Title:                    d.Title,
		Description:              d.Description,
		ColorName:                d.ColorName,
		AllowMultipleCompletions: d.AllowMultipleCompletions,
	}
}

// Sync pushes every value that differs from the editor's draft into the editor
func (v *HabitFormValues) Sync(ed *editor.Editor) error {
	d := ed.Draft()
	changes := []struct {
		field   editor.Field
		changed bool
		value   any
	}{
		{editor.FieldIcon, v.Icon != d.Icon, v.Icon},
		{editor.FieldTitle, v.Title != d.Title, v.Title},
		{editor.FieldDescription, v.Description != d.Description, v.Description},
		{editor.FieldColorName, v.ColorName != d.ColorName, v.ColorName},
		{editor.FieldAllowMultipleCompletions, v.AllowMultipleCompletions != d.AllowMultipleCompletions, v.AllowMultipleCompletions},
	}
	for _, c := range changes {
		if !c.changed {
			continue
		}
		if err := ed.Set(c.field, c.value); err != nil {
			return err
		}
	}
	return nil
}

// NewHabitForm creates the habit form. The icon select is only included when
// withIcon is set; the TUI editor picks icons through its own browser.
func NewHabitForm(v *HabitFormValues, catalogs catalog.Set, withIcon bool) *huh.Form {
	var fields []huh.Field
	if withIcon {
		fields = append(fields, huh.NewSelect[string]().
			Title("Icon").
			Options(IconOptions(catalogs.Icons)...).
			Value(&v.Icon))
	}
	fields = append(fields,
		huh.NewInput().
			Title("Title").
			Value(&v.Title),
		huh.NewText().
			Title("Description").
			Value(&v.Description),
		huh.NewSelect[string]().
			Title("Color").
			Options(ColorOptions(catalogs.Colors)...).
			Value(&v.ColorName),
		huh.NewConfirm().
			Title("Allow multiple completions per day").
			Value(&v.AllowMultipleCompletions),
	)
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeDracula())
}

// IconOptions lists the icon catalog as select options
func IconOptions(icons catalog.Catalog) []huh.Option[string] {
	keys := icons.Keys()
	opts := make([]huh.Option[string], 0, len(keys))
	for _, k := range keys {
		glyph, _ := icons.Value(k)
		opts = append(opts, huh.NewOption(glyph+"  "+k, k))
	}
	return opts
}

// ColorOptions lists the color catalog as select options with a swatch
func ColorOptions(colors catalog.Catalog) []huh.Option[string] {
	keys := colors.Keys()
	opts := make([]huh.Option[string], 0, len(keys))
	for _, k := range keys {
		opts = append(opts, huh.NewOption(Swatch(colors, k)+" "+k, k))
	}
	return opts
}

// Swatch renders a colored block for a catalog color
func Swatch(colors catalog.Catalog, name string) string {
	hex, ok := colors.Value(name)
	if !ok {
		return "?"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}
