package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/genricoloni/randpaper/internal/domain"
	"github.com/genricoloni/randpaper/internal/theme"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// ErrPeriodRequired is returned when --daemon is given without a rotation period
var ErrPeriodRequired = errors.New("--daemon requires time to be set (config file or --time)")

// EnvPrefix prefixes every environment override, e.g. RANDPAPER_WALLPAPER_DIR
const EnvPrefix = "RANDPAPER"

// Configuration keys
const (
	KeyWallpaperDir   = "wallpaper_dir"
	KeyTime           = "time"
	KeyDaemon         = "daemon"
	KeyBackend        = "backend"
	KeyRenderer       = "renderer"
	KeyOutputs        = "outputs"
	KeyTransitionType = "transition_type"
	KeyTransitionStep = "transition_step"
	KeyTransitionFPS  = "transition_fps"
	KeyOnRenderError  = "on_render_error"
	KeyThemePath      = "theme_path"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
)

// SetDefaults sets default configuration values
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyWallpaperDir, ".")
	v.SetDefault(KeyTime, "")
	v.SetDefault(KeyDaemon, false)
	v.SetDefault(KeyBackend, string(domain.BackendSway))
	v.SetDefault(KeyRenderer, string(domain.RendererSwaybg))
	v.SetDefault(KeyOutputs, []string{})
	v.SetDefault(KeyTransitionType, "simple")
	v.SetDefault(KeyTransitionStep, 90)
	v.SetDefault(KeyTransitionFPS, 30)
	v.SetDefault(KeyOnRenderError, string(domain.RenderErrorFatal))
	v.SetDefault(KeyThemePath, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")
}

// RegisterFlags adds the configuration flags to fs and binds them to v.
// Flags only override other sources when set explicitly.
func RegisterFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String("wallpaper-dir", "", "directory containing wallpapers")
	fs.StringP("time", "t", "", `rotation interval, e.g. "30m", "1h", "2d" or seconds`)
	fs.BoolP("daemon", "d", false, "keep rotating every --time instead of running once")
	fs.StringP("backend", "b", "", "monitor detection backend (sway, hyprland)")
	fs.StringP("renderer", "r", "", "wallpaper tool (swaybg, swww, awww, hyprpaper)")
	fs.StringSliceP("outputs", "o", nil, "force specific outputs (sway only)")
	fs.String("transition-type", "", "swww/awww transition type")
	fs.Uint8P("transition-step", "s", 0, "swww/awww transition step")
	fs.Uint8P("transition-fps", "f", 0, "swww/awww transition frame rate")
	fs.String("on-render-error", "", "what to do when the renderer fails (fatal, continue)")
	fs.String("theme-path", "", "where to write the generated theme stylesheet")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-format", "", "log encoding (console, json)")

	bindings := map[string]string{
		KeyWallpaperDir:   "wallpaper-dir",
		KeyTime:           "time",
		KeyDaemon:         "daemon",
		KeyBackend:        "backend",
		KeyRenderer:       "renderer",
		KeyOutputs:        "outputs",
		KeyTransitionType: "transition-type",
		KeyTransitionStep: "transition-step",
		KeyTransitionFPS:  "transition-fps",
		KeyOnRenderError:  "on-render-error",
		KeyThemePath:      "theme-path",
		KeyLogLevel:       "log-level",
		KeyLogFormat:      "log-format",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}
	return nil
}

// DefaultConfigFile returns $XDG_CONFIG_HOME/randpaper/config.toml
func DefaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "randpaper", "config.toml")
}

// Load resolves the settings from defaults, the TOML file, the environment
// and flags already bound to v, in increasing priority.
// An explicit cfgFile must exist; the default one is optional.
func Load(v *viper.Viper, cfgFile string) (domain.Settings, error) {
	SetDefaults(v)

	v.SetConfigType("toml")
	switch {
	case cfgFile != "":
		v.SetConfigFile(expandPath(cfgFile))
		if err := v.ReadInConfig(); err != nil {
			return domain.Settings{}, fmt.Errorf("failed to read config file: %w", err)
		}
	default:
		if path := DefaultConfigFile(); path != "" {
			if _, err := os.Stat(path); err == nil {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return domain.Settings{}, fmt.Errorf("failed to read config file: %w", err)
				}
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	period, err := ParsePeriod(v.GetString(KeyTime))
	if err != nil {
		return domain.Settings{}, fmt.Errorf("invalid time: %w", err)
	}

	step, err := byteValue(v, KeyTransitionStep)
	if err != nil {
		return domain.Settings{}, err
	}
	fps, err := byteValue(v, KeyTransitionFPS)
	if err != nil {
		return domain.Settings{}, err
	}

	themePath := v.GetString(KeyThemePath)
	if themePath == "" {
		if themePath, err = theme.DefaultPath(); err != nil {
			return domain.Settings{}, fmt.Errorf("failed to resolve theme path: %w", err)
		}
	}

	settings := domain.Settings{
		WallpaperDir: expandPath(v.GetString(KeyWallpaperDir)),
		Daemon:       v.GetBool(KeyDaemon),
		Period:       period,
		Backend:      domain.Backend(strings.ToLower(v.GetString(KeyBackend))),
		Renderer:     domain.RendererKind(strings.ToLower(v.GetString(KeyRenderer))),
		Outputs:      outputs(v),
		Transition: domain.Transition{
			Type: v.GetString(KeyTransitionType),
			Step: step,
			FPS:  fps,
		},
		OnRenderError: domain.RenderErrorPolicy(strings.ToLower(v.GetString(KeyOnRenderError))),
		ThemePath:     expandPath(themePath),
		LogLevel:      strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:     strings.ToLower(v.GetString(KeyLogFormat)),
	}

	if settings.Daemon && settings.Period == 0 {
		return domain.Settings{}, ErrPeriodRequired
	}
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := zapcore.ParseLevel(settings.LogLevel); err != nil {
		return domain.Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	switch settings.LogFormat {
	case "console", "json":
	default:
		return domain.Settings{}, fmt.Errorf("invalid configuration: unknown log format %q", settings.LogFormat)
	}

	return settings, nil
}

// ParsePeriod parses a rotation interval.
// Accepts Go durations ("90s", "1h30m"), whole days ("2d") and bare seconds ("300").
// An empty string means no period.
func ParsePeriod(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	var d time.Duration
	days, isDays := strings.CutSuffix(s, "d")
	switch secs, err := strconv.ParseUint(s, 10, 32); {
	case err == nil:
		d = time.Duration(secs) * time.Second
	case isDays:
		n, err := strconv.ParseUint(days, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("%q is not a whole number of days", s)
		}
		d = time.Duration(n) * 24 * time.Hour
	default:
		if d, err = time.ParseDuration(s); err != nil {
			return 0, err
		}
	}

	if d <= 0 {
		return 0, fmt.Errorf("%q must be positive", s)
	}
	return d, nil
}

// outputs reads the output list. Environment values arrive as one
// comma separated string.
func outputs(v *viper.Viper) []string {
	var out []string
	for _, item := range v.GetStringSlice(KeyOutputs) {
		out = append(out, splitAndTrim(item)...)
	}
	return out
}

// splitAndTrim splits a comma-separated string and trims whitespace
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func byteValue(v *viper.Viper, key string) (uint8, error) {
	n := v.GetInt(key)
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("invalid %s: %d (must be between 0 and 255)", key, n)
	}
	return uint8(n), nil
}

// expandPath expands environment variables and a leading ~
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}
