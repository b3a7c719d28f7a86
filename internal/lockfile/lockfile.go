// Package lockfile keeps a single interactive session per database.
// The lockfile holds "<pid>|<database>"; a lock whose process is gone is stale.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"
)

// ErrLocked is returned when another live process holds the lock
var ErrLocked = errors.New("another habits session is already running")

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// Lock is a held lockfile
type Lock struct {
	path string
}

// Holder describes the process recorded in a lockfile
type Holder struct {
	PID      int
	Database string
	Alive    bool
}

// Acquire creates the lockfile at path. An existing lock is taken over when
// its process no longer runs.
func Acquire(path, database string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	holder, err := Inspect(path)
	if err == nil && holder.Alive && holder.PID != getpidFunc() {
		return nil, fmt.Errorf("%w (pid %d)", ErrLocked, holder.PID)
	}

	content := fmt.Sprintf("%d|%s", getpidFunc(), database)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lockfile
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	err := os.Remove(l.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Inspect reads the lockfile and checks whether its process is still running
func Inspect(path string) (Holder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, err
	}

	parts := strings.SplitN(strings.TrimSpace(string(content)), "|", 2)
	if len(parts) != 2 {
		return Holder{}, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Holder{}, errors.New("invalid process ID in lockfile")
	}

	holder := Holder{PID: pid, Database: parts[1]}
	process, err := findProcessFunc(pid)
	holder.Alive = err == nil && process != nil
	return holder, nil
}
