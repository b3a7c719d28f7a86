package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lolo8304/habits-together/internal/config"
	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/editor"
	"github.com/lolo8304/habits-together/internal/keyring"
	"github.com/lolo8304/habits-together/internal/lockfile"
	"github.com/lolo8304/habits-together/internal/logger"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	if dbReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fmt.Printf("❌ Schema version: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version: OK\n")
		}

		if err := checkHabits(ctx); err != nil {
			fmt.Printf("❌ Habit integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Habit integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
		fmt.Printf("⊘ Habit integrity: SKIPPED (database not reachable)\n")
	}

	if keyring.Available() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   Keyring not available; PostgreSQL credentials must come from %s or .pgpass\n", constants.EnvDBConnection)
	}

	if err := checkLock(filepath.Join(config.Dir(), constants.TUILockfileName)); err != nil {
		fmt.Printf("⚠ TUI lock: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ TUI lock: OK\n")
	}

	fmt.Printf("ℹ Log file: %s\n", logger.Path(config.Dir()))

	fmt.Println()
	if hasError {
		return errors.New("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("database at version %d, application expects %d", current, latest)
	}
	return nil
}

// checkHabits runs every stored habit through the editor's validation so that
// records the editor would refuse to save are reported.
func checkHabits(ctx *Context) error {
	users, err := ctx.Store.GetAllUsers(context.Background())
	if err != nil {
		return err
	}

	invalid := 0
	for _, u := range users {
		habits, err := ctx.Store.GetHabitsForUser(context.Background(), u.ID, false)
		if err != nil {
			return err
		}
		for _, h := range habits {
			if verr := editor.Validate(h.Draft(), ctx.Catalogs); verr != nil {
				fmt.Printf("   habit %s (@%s): %v\n", h.ID, u.Username, verr)
				invalid++
			}
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d habit(s) fail validation", invalid)
	}
	return nil
}

func checkLock(path string) error {
	holder, err := lockfile.Inspect(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if !holder.Alive {
		return fmt.Errorf("stale lockfile from pid %d at %s", holder.PID, path)
	}
	fmt.Printf("   TUI running (pid %d) on %s\n", holder.PID, holder.Database)
	return nil
}
