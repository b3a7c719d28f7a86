package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lolo8304/habits-together/internal/catalog"
	"github.com/lolo8304/habits-together/internal/config"
	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/models"
	"github.com/lolo8304/habits-together/internal/storage"
)

// ErrNoViewer is returned when a command needs a user and none is selected
var ErrNoViewer = errors.New("no user selected; run 'habits user add <name>' or 'habits user use <name>'")

type Context struct {
	Store    storage.Provider
	Catalogs catalog.Set
	Config   config.Config
	// As is the username given with --as
	As string
}

// Viewer resolves the acting user: --as first, then the user chosen with
// 'habits user use', then the config file's viewer.
func (c *Context) Viewer(ctx context.Context) (models.User, error) {
	if c.As != "" {
		return c.Store.GetUserByUsername(ctx, c.As)
	}

	id, err := c.Store.GetSetting(ctx, constants.SettingCurrentUser)
	switch {
	case err == nil && id != "":
		return c.Store.GetUser(ctx, id)
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return models.User{}, err
	}

	if c.Config.Viewer != "" {
		return c.Store.GetUserByUsername(ctx, c.Config.Viewer)
	}
	return models.User{}, ErrNoViewer
}

// Subject looks up another user by username
func (c *Context) Subject(ctx context.Context, username string) (models.User, error) {
	u, err := c.Store.GetUserByUsername(ctx, strings.TrimPrefix(username, "@"))
	if err != nil {
		return models.User{}, fmt.Errorf("unknown user %q: %w", username, err)
	}
	return u, nil
}

// FormatUser renders "Display Name (@username)"
func FormatUser(u models.User) string {
	if u.DisplayName == "" || u.DisplayName == u.Username {
		return "@" + u.Username
	}
	return fmt.Sprintf("%s (@%s)", u.DisplayName, u.Username)
}

// FormatStatus renders a relationship status for humans
func FormatStatus(rel models.Relationship) string {
	switch rel.Status {
	case models.RelationshipFriends:
		if rel.FriendsSince != nil {
			return "friends since " + rel.FriendsSince.Local().Format(constants.DisplayDateFormat)
		}
		return "friends"
	case models.RelationshipPendingOutgoing:
		return "friend request sent"
	default:
		return "not friends"
	}
}
