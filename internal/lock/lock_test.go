package lock

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func envOf(vars map[string]string) Getenv {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestSessionKey(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{
			name:     "Hyprland wins over everything",
			env:      map[string]string{"HYPRLAND_INSTANCE_SIGNATURE": "abc_123", "SWAYSOCK": "/run/user/1000/sway-ipc.sock", "WAYLAND_DISPLAY": "wayland-1"},
			expected: "hypr-abc_123",
		},
		{
			name:     "Sway uses socket basename",
			env:      map[string]string{"SWAYSOCK": "/run/user/1000/sway-ipc.1000.42.sock"},
			expected: "sway-sway-ipc.1000.42.sock",
		},
		{
			name:     "Wayland display",
			env:      map[string]string{"WAYLAND_DISPLAY": "wayland-0"},
			expected: "wayland-wayland-0",
		},
		{
			name:     "Unsafe characters replaced",
			env:      map[string]string{"WAYLAND_DISPLAY": "a b/c:é"},
			expected: "wayland-a_b_c__",
		},
		{
			name:     "Nothing set",
			env:      map[string]string{},
			expected: "unknown",
		},
		{
			name:     "Truncated",
			env:      map[string]string{"HYPRLAND_INSTANCE_SIGNATURE": strings.Repeat("x", 200)},
			expected: "hypr-" + strings.Repeat("x", 75),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionKey(envOf(tt.env)); got != tt.expected {
				t.Errorf("want %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestPath(t *testing.T) {
	got, err := Path(envOf(map[string]string{"XDG_RUNTIME_DIR": "/run/user/1000", "WAYLAND_DISPLAY": "wayland-1"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "/run/user/1000/randpaper/randpaper-wayland-wayland-1.lock"; got != want {
		t.Errorf("want %s, got %s", want, got)
	}

	if _, err := Path(envOf(map[string]string{})); !errors.Is(err, ErrNoRuntimeDir) {
		t.Errorf("expected ErrNoRuntimeDir, got %v", err)
	}
}

func TestAcquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "randpaper", "randpaper-test.lock")

	first, err := Acquire(path)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	pid, err := ReadPID(path)
	if err != nil {
		t.Fatalf("read pid: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("want pid %d, got %d", os.Getpid(), pid)
	}

	// flock is per open file description, so a second open conflicts
	if _, err := Acquire(path); !errors.Is(err, ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	again, err := Acquire(path)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	defer again.Release()
}

func TestReadPID_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.lock")
	if err := os.WriteFile(path, []byte("nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPID(path); err == nil {
		t.Fatal("expected error, got nil")
	}
}
