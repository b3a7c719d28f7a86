package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lolo8304/habits-together/internal/backup"
	"github.com/lolo8304/habits-together/internal/config"
	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/lockfile"
)

var ErrBackupUnsupported = errors.New("backups are only available for SQLite databases")

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" default:"1" help:"Snapshot the database."`
	List    BackupListCmd    `cmd:"" help:"List snapshots, newest first."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the database with a snapshot."`
}

func backupManager(ctx *Context) (*backup.Manager, error) {
	path := ctx.Store.GetConfigPath()
	if config.IsPostgres(path) {
		return nil, ErrBackupUnsupported
	}
	return backup.NewManager(path), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	snap, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Printf("✓ Snapshot created: %s\n", snap.Name())
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	snaps, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(snaps) == 0 {
		fmt.Printf("No snapshots in %s\n", mgr.Dir())
		return nil
	}
	for _, s := range snaps {
		fmt.Printf("  %s  %s  (%.1f KB)\n", s.TakenAt.Format("2006-01-02 15:04:05"), s.Name(), float64(s.Size)/1024)
	}
	fmt.Printf("\n%d snapshot(s), keeping the newest %d, in %s\n", len(snaps), backup.MaxSnapshots, mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	Snapshot string `arg:"" help:"File name in the backup directory, or a path to a snapshot."`
	Yes      bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path := c.Snapshot
	if snap, err := mgr.Find(c.Snapshot); err == nil {
		path = snap.Path
	} else if _, statErr := os.Stat(c.Snapshot); statErr != nil {
		return err
	}

	holder, err := lockfile.Inspect(filepath.Join(config.Dir(), constants.TUILockfileName))
	if err == nil && holder.Alive {
		return fmt.Errorf("the TUI is running (pid %d); quit it before restoring", holder.PID)
	}

	if !c.Yes {
		fmt.Printf("Replace %s with %s? [y/N]: ", ctx.Store.GetConfigPath(), filepath.Base(path))
		answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	previous, err := mgr.Restore(path)
	if previous != nil {
		fmt.Printf("Previous database saved as %s\n", previous.Name())
	}
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	fmt.Printf("✓ Restored %s\n", filepath.Base(path))
	return nil
}
