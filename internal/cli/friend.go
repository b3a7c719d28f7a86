package cli

import (
	"context"
	"fmt"

	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/models"
	"github.com/lolo8304/habits-together/internal/relationship"
	"github.com/lolo8304/habits-together/internal/storage"
)

type FriendCmd struct {
	Show     FriendShowCmd     `cmd:"" help:"Show a user's profile and your relationship."`
	Add      FriendAddCmd      `cmd:"" help:"Send a friend request (accepts theirs if they asked first)."`
	Remove   FriendRemoveCmd   `cmd:"" help:"Remove a friend or cancel a sent request."`
	Requests FriendRequestsCmd `cmd:"" help:"List friend requests waiting for you."`
	List     FriendListCmd     `cmd:"" help:"List your friends."`
}

// relationshipFor loads viewer, subject and a controller over their relationship
func relationshipFor(ctx *Context, username string) (models.User, *relationship.Controller, error) {
	if err := ctx.Store.Load(); err != nil {
		return models.User{}, nil, err
	}
	bg := context.Background()
	viewer, err := ctx.Viewer(bg)
	if err != nil {
		return models.User{}, nil, err
	}
	subject, err := ctx.Subject(bg, username)
	if err != nil {
		return models.User{}, nil, err
	}
	rel, err := ctx.Store.GetRelationship(bg, viewer.ID, subject.ID)
	if err != nil {
		return models.User{}, nil, err
	}
	svc := storage.ViewerRelationships{Provider: ctx.Store, ViewerID: viewer.ID}
	ctrl := relationship.NewController(subject.ID, rel, svc).WithTimeout(constants.MutationTimeout)
	return subject, ctrl, nil
}

func printProfile(subject models.User, view relationship.View) {
	fmt.Println(subject.Name())
	fmt.Printf("  @%s\n", subject.Username)
	fmt.Printf("  Joined %s\n", subject.CreatedAt.Local().Format(constants.DisplayDateFormat))
	fmt.Printf("  %s\n", FormatStatus(models.Relationship{Status: view.Status, FriendsSince: view.FriendsSince}))
}

type FriendShowCmd struct {
	Username string `arg:"" help:"Username to show."`
}

func (c *FriendShowCmd) Run(ctx *Context) error {
	subject, ctrl, err := relationshipFor(ctx, c.Username)
	if err != nil {
		return err
	}
	view := ctrl.View()
	printProfile(subject, view)
	switch view.Available {
	case relationship.ActionAdd:
		fmt.Printf("\nRun 'habits friend add %s' to send a friend request.\n", subject.Username)
		if relationship.Permitted(view.Status, relationship.ActionRemove) {
			fmt.Printf("Run 'habits friend remove %s' to cancel the pending request.\n", subject.Username)
		}
	case relationship.ActionRemove:
		fmt.Printf("\nRun 'habits friend remove %s' to remove.\n", subject.Username)
	}
	return nil
}

type FriendAddCmd struct {
	Username string `arg:"" help:"Username to befriend."`
}

func (c *FriendAddCmd) Run(ctx *Context) error {
	subject, ctrl, err := relationshipFor(ctx, c.Username)
	if err != nil {
		return err
	}
	if err := ctrl.Do(context.Background(), relationship.ActionAdd); err != nil {
		return err
	}

	switch ctrl.Relationship().Status {
	case models.RelationshipFriends:
		fmt.Printf("You and %s are now friends.\n", FormatUser(subject))
	default:
		fmt.Printf("Friend request sent to %s.\n", FormatUser(subject))
	}
	return nil
}

type FriendRemoveCmd struct {
	Username string `arg:"" help:"Username to remove."`
}

func (c *FriendRemoveCmd) Run(ctx *Context) error {
	subject, ctrl, err := relationshipFor(ctx, c.Username)
	if err != nil {
		return err
	}
	was := ctrl.Relationship().Status
	if err := ctrl.Do(context.Background(), relationship.ActionRemove); err != nil {
		return err
	}

	if was == models.RelationshipPendingOutgoing {
		fmt.Printf("Cancelled friend request to %s.\n", FormatUser(subject))
	} else {
		fmt.Printf("Removed %s from your friends.\n", FormatUser(subject))
	}
	return nil
}

type FriendRequestsCmd struct{}

func (c *FriendRequestsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	bg := context.Background()
	viewer, err := ctx.Viewer(bg)
	if err != nil {
		return err
	}

	users, err := ctx.Store.GetIncomingRequests(bg, viewer.ID)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No pending friend requests.")
		return nil
	}
	for _, u := range users {
		fmt.Printf("%s  (accept with 'habits friend add %s')\n", FormatUser(u), u.Username)
	}
	return nil
}

type FriendListCmd struct{}

func (c *FriendListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	bg := context.Background()
	viewer, err := ctx.Viewer(bg)
	if err != nil {
		return err
	}

	friends, err := ctx.Store.GetFriends(bg, viewer.ID)
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		fmt.Println("No friends yet.")
		return nil
	}
	for _, f := range friends {
		fmt.Printf("%s  %s\n", FormatUser(f.User), FormatStatus(f.Relationship))
	}
	return nil
}
