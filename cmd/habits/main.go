package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/lolo8304/habits-together/internal/catalog"
	"github.com/lolo8304/habits-together/internal/cli"
	"github.com/lolo8304/habits-together/internal/config"
	"github.com/lolo8304/habits-together/internal/constants"
	"github.com/lolo8304/habits-together/internal/errors"
	"github.com/lolo8304/habits-together/internal/logger"
	"github.com/lolo8304/habits-together/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"string" default:"~/.config/habits/config.yaml"`
	Database string `help:"SQLite path, PostgreSQL connection string, or 'keyring'. PostgreSQL passwords must NOT be passed here; use the OS keyring, ${env} or .pgpass." type:"string"`
	As       string `help:"Act as this username."`
	Debug    bool   `help:"Write debug logs to stderr and the log file."`

	Init     cli.InitCmd    `cmd:"" help:"Initialize habits storage."`
	Migrate  cli.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor   cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Backup   cli.BackupCmd  `cmd:"" help:"Snapshot and restore the SQLite database."`
	Tui      cli.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	User     cli.UserCmd    `cmd:"" help:"Manage users."`
	Habit    cli.HabitCmd   `cmd:"" help:"Create and edit habits."`
	Friend   cli.FriendCmd  `cmd:"" help:"Manage friends."`
	Settings cli.ConfigCmd  `cmd:"" name:"config" help:"Manage configuration."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with friends"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version, "env": constants.EnvDBConnection},
	)

	fileCfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	cfg := fileCfg.Merge(config.FromEnv()).Merge(config.Config{Debug: CLI.Debug})

	if err := logger.Init(logger.Config{
		Debug: cfg.Debug,
		Dir:   config.Dir(),
		Quiet: ctx.Command() == "tui",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	database, err := config.ResolveDatabase(CLI.Database, cfg)
	if err != nil {
		// keyring management must stay usable while the keyring entry is missing
		if !strings.HasPrefix(ctx.Command(), "config") {
			errors.Fatal(err)
		}
		database = config.ExpandHome(constants.DefaultConfigPath)
	}

	store, err := storage.New(database)
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:    store,
		Catalogs: catalog.Default(),
		Config:   cfg,
		As:       CLI.As,
	}

	err = ctx.Run(appCtx)
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close database", "error", cerr)
	}
	errors.Fatal(err)
}
