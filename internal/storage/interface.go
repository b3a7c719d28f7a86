package storage

import (
	"context"
	"errors"

	"github.com/lolo8304/habits-together/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")
	// ErrSelfRelationship is returned when a user targets themselves with a friend request
	ErrSelfRelationship = errors.New("cannot befriend yourself")
	// ErrDuplicateUsername is returned when a username is already taken
	ErrDuplicateUsername = errors.New("username already taken")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Migrate(logFn func(string)) (int, error)
	Close() error

	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// Users
	AddUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)

	// Habits
	AddHabit(ctx context.Context, habit models.Habit) error
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	GetHabitsForUser(ctx context.Context, userID string, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, habit models.Habit) error
	DeleteHabit(ctx context.Context, id string) error

	// Relationships, always from the viewer's side
	GetRelationship(ctx context.Context, viewerID, subjectID string) (models.Relationship, error)
	SendFriendRequest(ctx context.Context, viewerID, subjectID string) (models.Relationship, error)
	RemoveFriend(ctx context.Context, viewerID, subjectID string) (models.Relationship, error)
	GetFriends(ctx context.Context, viewerID string) ([]models.UserWithRelationship, error)
	GetIncomingRequests(ctx context.Context, viewerID string) ([]models.User, error)

	// Utils
	GetConfigPath() string
	SchemaVersion() (current, latest int, err error)
}
