package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/lolo8304/habits-together/internal/backup"
	"github.com/lolo8304/habits-together/internal/config"
)

type InitCmd struct {
	Force bool `help:"Delete an existing SQLite database before initialization."`
}

func (c *InitCmd) Run(ctx *Context) error {
	path := ctx.Store.GetConfigPath()
	if c.Force && !config.IsPostgres(path) {
		removed, err := resetSQLite(ctx, path)
		if err != nil {
			return err
		}
		if removed {
			fmt.Printf("Removed %s\n", path)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Habits database ready at %s\n", path)
	return nil
}

// resetSQLite closes the store and deletes its file, reporting whether one existed
func resetSQLite(ctx *Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cannot inspect %s: %w", path, err)
	}
	if err := ctx.Store.Close(); err != nil {
		return false, fmt.Errorf("cannot close %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("cannot remove %s: %w", path, err)
	}
	return true, nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	if path := ctx.Store.GetConfigPath(); !config.IsPostgres(path) {
		if _, statErr := os.Stat(path); statErr == nil {
			snap, err := backup.NewManager(path).Create()
			if err != nil {
				return fmt.Errorf("not migrating, snapshot failed: %w", err)
			}
			fmt.Printf("Snapshot saved as %s\n", snap.Name())
		}
	}

	count, err := ctx.Store.Migrate(func(msg string) { fmt.Println(msg) })
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if count > 0 {
		fmt.Printf("\n%d migration(s) applied.\n", count)
	}
	return nil
}
