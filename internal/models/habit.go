package models

import "time"

// HabitSettings holds per-habit behaviour flags
type HabitSettings struct {
	AllowMultipleCompletions bool `json:"allowMultipleCompletions"`
}

// Habit represents a persisted habit record
type Habit struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	ColorName   string        `json:"colorName"`
	Settings    HabitSettings `json:"settings"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	DeletedAt   *time.Time    `json:"deletedAt,omitempty"`
}

// HabitDraft is the editable subset of a habit. It is the payload of every
// create and update call.
type HabitDraft struct {
	Icon                     string `json:"icon"`
	Title                    string `json:"title"`
	Description              string `json:"description"`
	ColorName                string `json:"colorName"`
	AllowMultipleCompletions bool   `json:"allowMultipleCompletions"`
}

// Draft returns the editable fields of the habit
func (h Habit) Draft() HabitDraft {
	return HabitDraft{
		Icon:                     h.Icon,
		Title:                    h.Title,
		Description:              h.Description,
		ColorName:                h.ColorName,
		AllowMultipleCompletions: h.Settings.AllowMultipleCompletions,
	}
}

// Apply copies the draft's fields onto the habit, leaving identity and audit fields untouched
func (h Habit) Apply(d HabitDraft) Habit {
	h.Icon = d.Icon
	h.Title = d.Title
	h.Description = d.Description
	h.ColorName = d.ColorName
	h.Settings.AllowMultipleCompletions = d.AllowMultipleCompletions
	return h
}
