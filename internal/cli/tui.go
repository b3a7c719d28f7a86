package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lolo8304/habits-together/internal/config"
	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/lockfile"
	"github.com/lolo8304/habits-together/internal/logger"
	"github.com/lolo8304/habits-together/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	viewer, err := ctx.Viewer(context.Background())
	if err != nil {
		return err
	}

	lock, err := lockfile.Acquire(filepath.Join(config.Dir(), constants.TUILockfileName), maskPassword(ctx.Store.GetConfigPath()))
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release TUI lock", "error", err)
		}
	}()

	logger.Info("Starting TUI", "viewer", viewer.Username)
	p := tea.NewProgram(tui.NewModel(ctx.Store, viewer, ctx.Catalogs), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI exited with error: %w", err)
	}
	return nil
}
