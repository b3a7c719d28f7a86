package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lolo8304/habits-together/internal/models"
)

const (
	friendshipPending  = "pending"
	friendshipAccepted = "accepted"
)

// sqlStore holds the queries shared by the SQLite and PostgreSQL stores.
// Queries are written with "?" placeholders and rebound per backend.
type sqlStore struct {
	db       *sql.DB
	postgres bool
}

func (s *sqlStore) q(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) ready() error {
	if s.db == nil {
		return errors.New("storage not loaded")
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

// Settings

func (s *sqlStore) GetSetting(ctx context.Context, key string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	var value string
	err := s.db.QueryRowContext(ctx, s.q("SELECT value FROM settings WHERE key = ?"), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func (s *sqlStore) SetSetting(ctx context.Context, key, value string) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`), key, value)
	return err
}

// Users

func (s *sqlStore) AddUser(ctx context.Context, user models.User) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.GetUserByUsername(ctx, user.Username); err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicateUsername, user.Username)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = stamp()
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, username, display_name, created_at) VALUES (?, ?, ?, ?)`),
		user.ID, user.Username, user.DisplayName, formatTime(user.CreatedAt))
	return err
}

func (s *sqlStore) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *sqlStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.getUser(ctx, "username", username)
}

func (s *sqlStore) getUser(ctx context.Context, column, value string) (models.User, error) {
	if err := s.ready(); err != nil {
		return models.User{}, err
	}
	row := s.db.QueryRowContext(ctx, s.q(
		"SELECT id, username, display_name, created_at FROM users WHERE "+column+" = ?"), value)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %q: %w", value, ErrNotFound)
	}
	return u, err
}

func (s *sqlStore) GetAllUsers(ctx context.Context) ([]models.User, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT id, username, display_name, created_at FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &createdAt); err != nil {
		return models.User{}, err
	}
	t, err := parseTime("created_at", createdAt)
	if err != nil {
		return models.User{}, err
	}
	u.CreatedAt = t
	return u, nil
}

// Habits

const habitColumns = `id, user_id, title, description, icon, color_name,
	allow_multiple_completions, created_at, updated_at, deleted_at`

func (s *sqlStore) AddHabit(ctx context.Context, habit models.Habit) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		habit.ID, habit.UserID, habit.Title, habit.Description, habit.Icon, habit.ColorName,
		habit.Settings.AllowMultipleCompletions, formatTime(habit.CreatedAt), formatTime(habit.UpdatedAt),
		nullTime(habit.DeletedAt))
	return err
}

func (s *sqlStore) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	if err := s.ready(); err != nil {
		return models.Habit{}, err
	}
	row := s.db.QueryRowContext(ctx, s.q(
		"SELECT "+habitColumns+" FROM habits WHERE id = ? AND deleted_at IS NULL"), id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", id, ErrNotFound)
	}
	return h, err
}

func (s *sqlStore) GetHabitsForUser(ctx context.Context, userID string, includeDeleted bool) ([]models.Habit, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query := "SELECT " + habitColumns + " FROM habits WHERE user_id = ?"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY created_at, title"

	rows, err := s.db.QueryContext(ctx, s.q(query), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *sqlStore) UpdateHabit(ctx context.Context, habit models.Habit) error {
	if err := s.ready(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, s.q(`
		UPDATE habits SET title = ?, description = ?, icon = ?, color_name = ?,
			allow_multiple_completions = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`),
		habit.Title, habit.Description, habit.Icon, habit.ColorName,
		habit.Settings.AllowMultipleCompletions, formatTime(habit.UpdatedAt), habit.ID)
	if err != nil {
		return err
	}
	return expectRow(result, "habit", habit.ID)
}

func (s *sqlStore) DeleteHabit(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, s.q(`
		UPDATE habits SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`),
		formatTime(stamp()), id)
	if err != nil {
		return err
	}
	return expectRow(result, "habit", id)
}

func expectRow(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var createdAt, updatedAt string
	var deletedAt sql.NullString

	err := row.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &h.Icon, &h.ColorName,
		&h.Settings.AllowMultipleCompletions, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return models.Habit{}, err
	}

	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Habit{}, err
	}
	if deletedAt.Valid {
		t, err := parseTime("deleted_at", deletedAt.String)
		if err != nil {
			return models.Habit{}, err
		}
		h.DeletedAt = &t
	}
	return h, nil
}

// Relationships

func (s *sqlStore) GetRelationship(ctx context.Context, viewerID, subjectID string) (models.Relationship, error) {
	if err := s.ready(); err != nil {
		return models.Relationship{}, err
	}
	return s.relationship(ctx, s.db, viewerID, subjectID)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *sqlStore) relationship(ctx context.Context, db querier, viewerID, subjectID string) (models.Relationship, error) {
	var status, updatedAt string
	err := db.QueryRowContext(ctx, s.q(
		"SELECT status, updated_at FROM friendships WHERE user_id = ? AND friend_id = ?"),
		viewerID, subjectID).Scan(&status, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Relationship{Status: models.RelationshipNone}, nil
	}
	if err != nil {
		return models.Relationship{}, err
	}

	switch status {
	case friendshipAccepted:
		since, err := parseTime("updated_at", updatedAt)
		if err != nil {
			return models.Relationship{}, err
		}
		return models.Relationship{Status: models.RelationshipFriends, FriendsSince: &since}, nil
	case friendshipPending:
		return models.Relationship{Status: models.RelationshipPendingOutgoing}, nil
	default:
		return models.Relationship{}, fmt.Errorf("unknown friendship status %q", status)
	}
}

// SendFriendRequest records a request from viewer to subject. If the subject
// already asked the viewer, both sides are accepted at once.
func (s *sqlStore) SendFriendRequest(ctx context.Context, viewerID, subjectID string) (models.Relationship, error) {
	if err := s.ready(); err != nil {
		return models.Relationship{}, err
	}
	if viewerID == subjectID {
		return models.Relationship{}, ErrSelfRelationship
	}
	for _, id := range []string{viewerID, subjectID} {
		if _, err := s.GetUser(ctx, id); err != nil {
			return models.Relationship{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Relationship{}, err
	}
	defer func() { _ = tx.Rollback() }()

	current, err := s.relationship(ctx, tx, viewerID, subjectID)
	if err != nil {
		return models.Relationship{}, err
	}
	if current.Status != models.RelationshipNone {
		return current, tx.Commit()
	}

	now := formatTime(stamp())
	result, err := tx.ExecContext(ctx, s.q(`
		UPDATE friendships SET status = ?, updated_at = ?
		WHERE user_id = ? AND friend_id = ? AND status = ?`),
		friendshipAccepted, now, subjectID, viewerID, friendshipPending)
	if err != nil {
		return models.Relationship{}, fmt.Errorf("failed to accept request: %w", err)
	}
	accepted, err := result.RowsAffected()
	if err != nil {
		return models.Relationship{}, err
	}

	status := friendshipPending
	if accepted > 0 {
		status = friendshipAccepted
	}
	if _, err := tx.ExecContext(ctx, s.q(`
		INSERT INTO friendships (user_id, friend_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`),
		viewerID, subjectID, status, now, now); err != nil {
		return models.Relationship{}, fmt.Errorf("failed to send friend request: %w", err)
	}

	rel, err := s.relationship(ctx, tx, viewerID, subjectID)
	if err != nil {
		return models.Relationship{}, err
	}
	return rel, tx.Commit()
}

// RemoveFriend deletes the friendship or pending request in both directions
func (s *sqlStore) RemoveFriend(ctx context.Context, viewerID, subjectID string) (models.Relationship, error) {
	if err := s.ready(); err != nil {
		return models.Relationship{}, err
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM friendships
		WHERE (user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)`),
		viewerID, subjectID, subjectID, viewerID)
	if err != nil {
		return models.Relationship{}, fmt.Errorf("failed to remove friend: %w", err)
	}
	return s.relationship(ctx, s.db, viewerID, subjectID)
}

func (s *sqlStore) GetFriends(ctx context.Context, viewerID string) ([]models.UserWithRelationship, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT u.id, u.username, u.display_name, u.created_at, f.updated_at
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = ? AND f.status = ?
		ORDER BY u.username`), viewerID, friendshipAccepted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []models.UserWithRelationship
	for rows.Next() {
		var f models.UserWithRelationship
		var createdAt, since string
		if err := rows.Scan(&f.ID, &f.Username, &f.DisplayName, &createdAt, &since); err != nil {
			return nil, err
		}
		if f.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		t, err := parseTime("updated_at", since)
		if err != nil {
			return nil, err
		}
		f.Relationship = models.Relationship{Status: models.RelationshipFriends, FriendsSince: &t}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

// GetIncomingRequests lists users waiting for the viewer to answer their request
func (s *sqlStore) GetIncomingRequests(ctx context.Context, viewerID string) ([]models.User, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT u.id, u.username, u.display_name, u.created_at
		FROM friendships f
		JOIN users u ON u.id = f.user_id
		WHERE f.friend_id = ? AND f.status = ?
		ORDER BY f.created_at DESC`), viewerID, friendshipPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
