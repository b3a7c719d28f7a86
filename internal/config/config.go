// Package config resolves where the database lives and who the viewing user is.
// Sources, lowest precedence first: YAML file, environment, command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/keyring"
)

// Config is the on-disk configuration file
type Config struct {
	// Database is a SQLite path or a PostgreSQL connection string
	Database string `yaml:"database"`
	// Viewer is the username the app acts as
	Viewer string `yaml:"viewer"`
	Debug  bool   `yaml:"debug"`
}

// Load reads the YAML config file at path. A missing file yields an empty config.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed
func Save(path string, cfg Config) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Merge overlays non-empty values of other onto c
func (c Config) Merge(other Config) Config {
	if other.Database != "" {
		c.Database = other.Database
	}
	if other.Viewer != "" {
		c.Viewer = other.Viewer
	}
	c.Debug = c.Debug || other.Debug
	return c
}

// FromEnv returns the values set through environment variables
func FromEnv() Config {
	return Config{Database: os.Getenv(constants.EnvDBConnection)}
}

// IsPostgres reports whether the database setting is a PostgreSQL connection string
func IsPostgres(database string) bool {
	return strings.HasPrefix(database, "postgres://") || strings.HasPrefix(database, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL URL carries a password
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return false
	}
	_, ok := u.User.Password()
	return ok
}

// ResolveDatabase picks the database location. A value of "keyring" reads the
// connection string from the OS keyring. Connection strings given on the
// command line must not embed a password.
func ResolveDatabase(flagValue string, cfg Config) (string, error) {
	db := cfg.Database
	fromFlag := false
	if flagValue != "" {
		db = flagValue
		fromFlag = true
	}
	if db == "" {
		db = constants.DefaultConfigPath
	}

	if db == "keyring" {
		connStr, err := keyring.Connection.Get()
		if err != nil {
			return "", fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
		return connStr, nil
	}

	if IsPostgres(db) {
		if fromFlag && HasEmbeddedCredentials(db) {
			return "", errors.New("connection strings with embedded credentials are not allowed on the command line; use the OS keyring, the " + constants.EnvDBConnection + " variable or .pgpass")
		}
		return db, nil
	}
	return ExpandHome(db), nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// Dir returns the directory holding the config file, logs and lockfiles
func Dir() string {
	return ExpandHome(constants.DefaultConfigDir)
}
