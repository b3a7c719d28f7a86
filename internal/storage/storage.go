package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lolo8304/habits-together/internal/config"
	"github.com/lolo8304/habits-together/internal/models"
)

// New returns the provider matching the database location: a PostgreSQL
// connection string or a SQLite file path. Passwords are accepted here since
// keyring-held connection strings may carry one.
func New(database string) (Provider, error) {
	if config.IsPostgres(database) {
		if err := ValidateConnString(database); err != nil && !errors.Is(err, ErrEmbeddedCredentials) {
			return nil, err
		}
		return NewPostgresStore(database), nil
	}
	if strings.TrimSpace(database) == "" {
		return nil, fmt.Errorf("no database configured")
	}
	return NewSQLiteStore(config.ExpandHome(database)), nil
}

// ViewerHabits persists habits owned by one user
type ViewerHabits struct {
	Provider Provider
	ViewerID string
}

func (v ViewerHabits) CreateHabit(ctx context.Context, payload models.HabitDraft) (models.Habit, error) {
	now := stamp()
	habit := models.Habit{
		ID:        uuid.New().String(),
		UserID:    v.ViewerID,
		CreatedAt: now,
		UpdatedAt: now,
	}.Apply(payload)

	if err := v.Provider.AddHabit(ctx, habit); err != nil {
		return models.Habit{}, fmt.Errorf("failed to create habit: %w", err)
	}
	return habit, nil
}

func (v ViewerHabits) UpdateHabit(ctx context.Context, id string, payload models.HabitDraft) (models.Habit, error) {
	existing, err := v.Provider.GetHabit(ctx, id)
	if err != nil {
		return models.Habit{}, err
	}
	if existing.UserID != v.ViewerID {
		return models.Habit{}, fmt.Errorf("habit %q belongs to another user", id)
	}

	updated := existing.Apply(payload)
	updated.UpdatedAt = stamp()
	if err := v.Provider.UpdateHabit(ctx, updated); err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}
	return updated, nil
}

// ViewerRelationships performs relationship mutations on behalf of one user
type ViewerRelationships struct {
	Provider Provider
	ViewerID string
}

func (v ViewerRelationships) SendFriendRequest(ctx context.Context, subjectID string) (models.Relationship, error) {
	return v.Provider.SendFriendRequest(ctx, v.ViewerID, subjectID)
}

func (v ViewerRelationships) RemoveFriend(ctx context.Context, subjectID string) (models.Relationship, error) {
	return v.Provider.RemoveFriend(ctx, v.ViewerID, subjectID)
}

func stamp() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
