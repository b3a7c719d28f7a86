package constants

import "time"

// SessionState represents the current screen of the TUI application
type SessionState int

const (
	StateHabits SessionState = iota
	StatePeople
	StateEditor
	StateProfile
	StateConfirmDelete
)

const (
	AppName            = "habits"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habits"
	DefaultConfigPath  = "~/.config/habits/habits.db"
	DefaultConfigFile  = "config.yaml"
	Version            = "v0.3.0"

	// EnvDBConnection overrides the configured database location
	EnvDBConnection = "HABITS_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DisplayDateFormat is used for "Joined" and "Friends Since" labels
	DisplayDateFormat = "January 2, 2006"

	// Habit draft defaults for a new habit
	DefaultHabitIcon  = "diamond"
	DefaultHabitColor = "red"

	// Lockfile constants
	TUILockfileName = "habits-tui.lock"

	// Setting keys
	SettingCurrentUser = "current_user"

	// MutationTimeout bounds a single relationship or habit service call
	MutationTimeout = 15 * time.Second
)
