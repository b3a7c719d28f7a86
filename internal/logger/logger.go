package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lolo8304/habits-together/internal/constants"
)

// Logger stays nil until Init; messages logged before that are dropped.
var Logger *log.Logger

type Config struct {
	Debug bool
	// Dir is the config directory; logs go to Dir/logs
	Dir string
	// Quiet keeps debug output off stderr while the TUI owns the terminal
	Quiet bool
}

// Path returns the log file location for a config directory
func Path(dir string) string {
	return filepath.Join(dir, "logs", constants.AppName+".log")
}

func Init(cfg Config) error {
	path := Path(cfg.Dir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // MB
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}

	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          constants.AppName,
		Level:           log.InfoLevel,
	}
	var out io.Writer = rotating
	if cfg.Debug {
		opts.Level = log.DebugLevel
		if !cfg.Quiet {
			out = io.MultiWriter(os.Stderr, rotating)
		}
	}

	Logger = log.NewWithOptions(out, opts)
	return nil
}

func emit(level log.Level, msg string, keyvals []interface{}) {
	if Logger == nil {
		return
	}
	Logger.Log(level, msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) { emit(log.DebugLevel, msg, keyvals) }
func Info(msg string, keyvals ...interface{})  { emit(log.InfoLevel, msg, keyvals) }
func Warn(msg string, keyvals ...interface{})  { emit(log.WarnLevel, msg, keyvals) }
func Error(msg string, keyvals ...interface{}) { emit(log.ErrorLevel, msg, keyvals) }
