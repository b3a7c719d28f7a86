package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lolo8304/habits-together/internal/config"
	"github.com/lolo8304/habits-together/internal/keyring"
	"github.com/lolo8304/habits-together/internal/storage"
)

type ConfigCmd struct {
	Keyring KeyringCmd `cmd:"" help:"Manage the database connection string stored in the OS keyring."`
}

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
}

// KeyringSetCmd saves a PostgreSQL connection string under the habits keyring entry
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring."`
}

func (cmd *KeyringSetCmd) Run(ctx *Context) error {
	if !config.IsPostgres(cmd.ConnectionString) && !strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("expected a postgres:// or postgresql:// connection string")
	}

	if err := storage.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, storage.ErrEmbeddedCredentials) {
			return fmt.Errorf("connection string rejected: %w", err)
		}
		fmt.Println("⚠ The connection string includes a password.")
		fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.Connection.Set(cmd.ConnectionString); err != nil {
		return err
	}

	fmt.Println("✓ Saved to the OS keyring")
	fmt.Println("  Set 'database: keyring' in the config file or pass --database keyring to use it")
	return nil
}

// KeyringDeleteCmd forgets the stored connection string
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.Connection.Delete(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("nothing stored in the keyring")
		}
		return err
	}
	fmt.Println("✓ Removed from the OS keyring")
	return nil
}

// KeyringStatusCmd reports whether the keyring works and what it holds
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.Available() {
		fmt.Println("❌ No usable OS keyring")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println("✓ OS keyring reachable")

	connStr, err := keyring.Connection.Get()
	switch {
	case err == nil:
		fmt.Printf("✓ Connection string is stored in keyring: %s\n", maskPassword(connStr))
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("ℹ Nothing stored yet; use 'habits config keyring set'")
	default:
		return err
	}
	return nil
}

// maskPassword hides the password of a URL or DSN connection string
func maskPassword(connStr string) string {
	if config.IsPostgres(connStr) {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			rest := connStr[idx+3:]
			if at := strings.LastIndex(rest, "@"); at != -1 {
				userInfo := rest[:at]
				if colon := strings.Index(userInfo, ":"); colon != -1 {
					return connStr[:idx+3] + userInfo[:colon] + ":****" + rest[at:]
				}
			}
		}
		return connStr
	}

	parts := strings.Fields(connStr)
	for i, part := range parts {
		if strings.HasPrefix(part, "password=") {
			parts[i] = "password=****"
		}
	}
	return strings.Join(parts, " ")
}
