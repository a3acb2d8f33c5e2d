package scheduler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/christopherklint97/daylog/internal/config"
)

var (
	ErrNotRunning     = errors.New("no running watcher found")
	ErrAlreadyRunning = errors.New("a watcher is already running")
)

func pidPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "daylog.pid"), nil
}

// acquirePID writes our PID to path unless a live process already owns it.
// A stale file from a crashed watcher is overwritten.
func acquirePID(path string) error {
	if pid, err := readPIDFile(path); err == nil && pid != os.Getpid() && processAlive(pid) {
		return fmt.Errorf("%w (PID %d)", ErrAlreadyRunning, pid)
	}
	return writePID(path)
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

func writePID(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644)
}

// ReadPID returns the process id of the running watcher.
func ReadPID() (int, error) {
	path, err := pidPath()
	if err != nil {
		return 0, err
	}
	return readPIDFile(path)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, ErrNotRunning
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file %s", path)
	}

	return pid, nil
}
