// Package lock keeps a single rotation daemon per compositor session.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

const maxKeyLen = 80

var (
	// ErrNoRuntimeDir is returned when XDG_RUNTIME_DIR is not set
	ErrNoRuntimeDir = errors.New("XDG_RUNTIME_DIR not set")
	// ErrHeld is returned when another process owns the lock
	ErrHeld = errors.New("lock held by another process")
)

// Getenv looks up an environment variable
type Getenv func(key string) (string, bool)

// SessionKey identifies the compositor session from the environment
func SessionKey(getenv Getenv) string {
	if sig, ok := getenv("HYPRLAND_INSTANCE_SIGNATURE"); ok {
		return truncate("hypr-" + sanitize(sig))
	}
	if sock, ok := getenv("SWAYSOCK"); ok {
		base := filepath.Base(sock)
		if base == "." || base == string(filepath.Separator) {
			base = "sway"
		}
		return truncate("sway-" + sanitize(base))
	}
	if disp, ok := getenv("WAYLAND_DISPLAY"); ok {
		return truncate("wayland-" + sanitize(disp))
	}
	return "unknown"
}

// Path returns the lock file location for the current session
func Path(getenv Getenv) (string, error) {
	runtime, ok := getenv("XDG_RUNTIME_DIR")
	if !ok || runtime == "" {
		return "", ErrNoRuntimeDir
	}
	return filepath.Join(runtime, "randpaper", "randpaper-"+SessionKey(getenv)+".lock"), nil
}

// sanitize keeps ASCII letters, digits, dot, dash and underscore
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// truncate is byte based; input is ASCII after sanitize
func truncate(s string) string {
	if len(s) > maxKeyLen {
		return s[:maxKeyLen]
	}
	return s
}

// Lock is an acquired advisory lock
type Lock struct {
	path string
	file *os.File
}

// Acquire takes an exclusive, non-blocking flock on path and records our pid in it.
// ErrHeld means another instance owns the session.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrHeld
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	if err := f.Truncate(0); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to truncate lock file: %w", err)
	}
	if _, err := f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write pid: %w", err)
	}

	return &Lock{path: path, file: f}, nil
}

// Path returns the lock file location
func (l *Lock) Path() string {
	return l.path
}

// Release clears the recorded pid and drops the lock.
// The file stays so a concurrent opener never locks an unlinked inode.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = l.file.Truncate(0)
	err := l.file.Close()
	l.file = nil
	return err
}

// ReadPID returns the pid recorded in the lock file at path
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("no pid recorded in %s", path)
	}
	return pid, nil
}
