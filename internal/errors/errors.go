package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lolo8304/habits-together/internal/editor"
	"github.com/lolo8304/habits-together/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix.
// Validation errors are listed one field per line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	var verr *editor.ValidationError
	if errors.As(err, &verr) {
		var b strings.Builder
		b.WriteString("Error: habit is invalid")
		for _, f := range verr.Fields {
			fmt.Fprintf(&b, "\n  - %s: %s", f.Field, f.Message)
		}
		return b.String()
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
