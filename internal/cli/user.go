package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/models"
)

type UserCmd struct {
	Add  UserAddCmd  `cmd:"" help:"Add a user."`
	List UserListCmd `cmd:"" help:"List users."`
	Use  UserUseCmd  `cmd:"" help:"Act as the given user from now on."`
}

type UserAddCmd struct {
	Username    string `arg:"" help:"Unique username."`
	DisplayName string `help:"Name shown on profiles." name:"display-name"`
}

func (c *UserAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	username := strings.TrimPrefix(strings.TrimSpace(c.Username), "@")
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	bg := context.Background()
	user := models.User{
		ID:          uuid.New().String(),
		Username:    username,
		DisplayName: strings.TrimSpace(c.DisplayName),
	}
	if err := ctx.Store.AddUser(bg, user); err != nil {
		return err
	}

	// the first user becomes the viewer
	if _, err := ctx.Viewer(bg); errors.Is(err, ErrNoViewer) {
		if err := ctx.Store.SetSetting(bg, constants.SettingCurrentUser, user.ID); err != nil {
			return err
		}
	}

	fmt.Printf("Added user: %s\n", FormatUser(user))
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	bg := context.Background()
	users, err := ctx.Store.GetAllUsers(bg)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	current, _ := ctx.Viewer(bg)
	for _, u := range users {
		marker := " "
		if u.ID == current.ID {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, FormatUser(u))
	}
	return nil
}

type UserUseCmd struct {
	Username string `arg:"" help:"Username to act as."`
}

func (c *UserUseCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	bg := context.Background()
	user, err := ctx.Subject(bg, c.Username)
	if err != nil {
		return err
	}
	if err := ctx.Store.SetSetting(bg, constants.SettingCurrentUser, user.ID); err != nil {
		return err
	}
	fmt.Printf("Now acting as %s\n", FormatUser(user))
	return nil
}
