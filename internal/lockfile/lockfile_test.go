package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-ps"
)

type fakeProcess struct{ pid int }

func (p fakeProcess) Pid() int { return p.pid }
func (p fakeProcess) PPid() int { return 1 }
func (p fakeProcess) Executable() string { return "habits" }

func withProcesses(t *testing.T, self int, alive map[int]bool) {
	t.Helper()
	origFind, origPid := findProcessFunc, getpidFunc
	findProcessFunc = func(pid int) (ps.Process, error) {
		if alive[pid] {
			return fakeProcess{pid: pid}, nil
		}
		return nil, nil
	}
	getpidFunc = func() int { return self }
	t.Cleanup(func() {
		findProcessFunc, getpidFunc = origFind, origPid
	})
}

func TestAcquireAndRelease(t *testing.T) {
	withProcesses(t, 100, map[int]bool{100: true})
	path := filepath.Join(t.TempDir(), "locks", "habits-tui.lock")

	lock, err := Acquire(path, "/tmp/habits.db")
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}

	holder, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error: %v", err)
	}
	if holder.PID != 100 || holder.Database != "/tmp/habits.db" || !holder.Alive {
		t.Errorf("Inspect() = %+v", holder)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("lockfile should be removed")
	}
	if err := lock.Release(); err != nil {
		t.Errorf("second Release() error: %v", err)
	}
}

func TestAcquireHeldByLiveProcess(t *testing.T) {
	withProcesses(t, 100, map[int]bool{100: true, 200: true})
	path := filepath.Join(t.TempDir(), "habits-tui.lock")
	if err := os.WriteFile(path, []byte("200|/tmp/habits.db"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Acquire(path, "/tmp/habits.db"); !errors.Is(err, ErrLocked) {
		t.Errorf("Acquire() error = %v, want ErrLocked", err)
	}
}

func TestAcquireTakesOverStaleLock(t *testing.T) {
	withProcesses(t, 100, map[int]bool{100: true})
	path := filepath.Join(t.TempDir(), "habits-tui.lock")
	if err := os.WriteFile(path, []byte("300|/tmp/habits.db"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Acquire(path, "/tmp/habits.db"); err != nil {
		t.Fatalf("Acquire() over stale lock error: %v", err)
	}
	holder, _ := Inspect(path)
	if holder.PID != 100 {
		t.Errorf("lock holder = %d, want 100", holder.PID)
	}
}

func TestInspectMalformed(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"no separator": "1234",
		"bad pid":      "abc|db",
		"zero pid":     "0|db",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := Inspect(path); err == nil {
			t.Errorf("Inspect(%s) expected error", name)
		}
	}
}
