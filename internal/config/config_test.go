package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/randpaper/internal/domain"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input       string
		expected    time.Duration
		expectError bool
	}{
		{input: "", expected: 0},
		{input: "300", expected: 5 * time.Minute},
		{input: "30m", expected: 30 * time.Minute},
		{input: "1h30m", expected: 90 * time.Minute},
		{input: "2d", expected: 48 * time.Hour},
		{input: " 45s ", expected: 45 * time.Second},
		{input: "0", expectError: true},
		{input: "-5m", expectError: true},
		{input: "1.5d", expectError: true},
		{input: "soon", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("want %v, got %v", tt.expected, got)
			}
		})
	}
}

// isolate keeps the user's real config and environment out of the test
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, EnvPrefix+"_") {
			key, _, _ := strings.Cut(kv, "=")
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func load(t *testing.T, cfgFile string, args ...string) (domain.Settings, error) {
	t.Helper()
	v := viper.New()
	fs := pflag.NewFlagSet("randpaper", pflag.ContinueOnError)
	if err := RegisterFlags(v, fs); err != nil {
		t.Fatal(err)
	}
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return Load(v, cfgFile)
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	s, err := load(t, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.WallpaperDir != "." || s.Backend != domain.BackendSway || s.Renderer != domain.RendererSwaybg {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.Transition != (domain.Transition{Type: "simple", Step: 90, FPS: 30}) {
		t.Errorf("unexpected transition defaults: %+v", s.Transition)
	}
	if s.Continuous() || s.Period != 0 {
		t.Error("expected one-shot mode by default")
	}
	if s.OnRenderError != domain.RenderErrorFatal {
		t.Errorf("expected fatal render errors by default, got %s", s.OnRenderError)
	}
	if !strings.HasSuffix(s.ThemePath, filepath.Join("randpaper", "theme.css")) {
		t.Errorf("unexpected theme path %s", s.ThemePath)
	}
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)

	cfg := filepath.Join(t.TempDir(), "config.toml")
	content := `
wallpaper_dir = "/from/file"
time = "10m"
backend = "hyprland"
renderer = "swww"
transition_step = 10
outputs = ["FILE-1"]
`
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RANDPAPER_RENDERER", "awww")
	t.Setenv("RANDPAPER_TRANSITION_FPS", "60")
	t.Setenv("RANDPAPER_TIME", "20m")

	s, err := load(t, cfg, "--time", "1h", "-d", "-s", "200")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.WallpaperDir != "/from/file" {
		t.Errorf("file value lost: %s", s.WallpaperDir)
	}
	if s.Backend != domain.BackendHyprland {
		t.Errorf("file value lost: %s", s.Backend)
	}
	if s.Renderer != domain.RendererAwww {
		t.Errorf("env must override file, got %s", s.Renderer)
	}
	if s.Transition.FPS != 60 {
		t.Errorf("env must override default, got %d", s.Transition.FPS)
	}
	if s.Period != time.Hour {
		t.Errorf("flag must override env, got %v", s.Period)
	}
	if s.Transition.Step != 200 {
		t.Errorf("flag must override file, got %d", s.Transition.Step)
	}
	if !s.Continuous() {
		t.Error("expected daemon mode")
	}
	if !reflect.DeepEqual(s.Outputs, []string{"FILE-1"}) {
		t.Errorf("unexpected outputs %v", s.Outputs)
	}
}

func TestLoad_OutputsFromEnvAndFlags(t *testing.T) {
	isolate(t)

	t.Setenv("RANDPAPER_OUTPUTS", "DP-1, HDMI-A-1")
	s, err := load(t, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(s.Outputs, []string{"DP-1", "HDMI-A-1"}) {
		t.Errorf("env outputs: got %v", s.Outputs)
	}

	s, err = load(t, "", "-o", "eDP-1", "-o", "DP-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(s.Outputs, []string{"eDP-1", "DP-2"}) {
		t.Errorf("flag outputs: got %v", s.Outputs)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		env         map[string]string
		expectIs    error
		expectMatch string
	}{
		{
			name:     "Daemon without period",
			args:     []string{"--daemon"},
			expectIs: ErrPeriodRequired,
		},
		{
			name:        "Unknown backend",
			args:        []string{"--backend", "kwin"},
			expectMatch: "unknown backend",
		},
		{
			name:        "Unknown renderer",
			args:        []string{"-r", "feh"},
			expectMatch: "unknown renderer",
		},
		{
			name:        "Bad time",
			args:        []string{"-t", "whenever"},
			expectMatch: "invalid time",
		},
		{
			name:        "Step out of range",
			env:         map[string]string{"RANDPAPER_TRANSITION_STEP": "300"},
			expectMatch: "between 0 and 255",
		},
		{
			name:        "Bad log level",
			args:        []string{"--log-level", "loud"},
			expectMatch: "invalid configuration",
		},
		{
			name:        "Bad policy",
			args:        []string{"--on-render-error", "retry"},
			expectMatch: "unknown render error policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := load(t, "", tt.args...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.expectIs != nil && !errors.Is(err, tt.expectIs) {
				t.Errorf("expected %v, got %v", tt.expectIs, err)
			}
			if tt.expectMatch != "" && !strings.Contains(err.Error(), tt.expectMatch) {
				t.Errorf("expected error containing %q, got %v", tt.expectMatch, err)
			}
		})
	}
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	isolate(t)

	if _, err := load(t, filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error, got nil")
	}
}
