package domain

import (
	"fmt"
	"time"
)

// Backend identifies the compositor used for output discovery
type Backend string

const (
	// BackendSway discovers outputs over the Sway IPC socket, falling back to swaymsg
	BackendSway Backend = "sway"
	// BackendHyprland discovers outputs with hyprctl
	BackendHyprland Backend = "hyprland"
)

// RendererKind identifies the tool that puts images on screen
type RendererKind string

const (
	// RendererSwaybg respawns one swaybg process per rotation
	RendererSwaybg RendererKind = "swaybg"
	// RendererSwww drives a swww daemon, probing swww before awww
	RendererSwww RendererKind = "swww"
	// RendererAwww drives an awww daemon, probing awww before swww
	RendererAwww RendererKind = "awww"
	// RendererHyprpaper drives hyprpaper through hyprctl
	RendererHyprpaper RendererKind = "hyprpaper"
)

// RenderErrorPolicy decides what the scheduler does when a renderer fails
type RenderErrorPolicy string

const (
	// RenderErrorFatal stops the rotation loop and exits non-zero
	RenderErrorFatal RenderErrorPolicy = "fatal"
	// RenderErrorContinue logs the failure and waits for the next rotation
	RenderErrorContinue RenderErrorPolicy = "continue"
)

// Transition holds the animation parameters forwarded to daemon renderers.
// Values are passed through verbatim.
type Transition struct {
	Type string
	Step uint8
	FPS  uint8
}

// Settings is the resolved, read-only configuration record
type Settings struct {
	WallpaperDir string
	// Daemon selects the continuous rotation loop
	Daemon bool
	// Period is zero when no interval was configured
	Period        time.Duration
	Backend       Backend
	Renderer      RendererKind
	Outputs       []string
	Transition    Transition
	OnRenderError RenderErrorPolicy
	ThemePath     string
	LogLevel      string
	LogFormat     string
}

// Continuous reports whether the rotation loop should run until terminated
func (s Settings) Continuous() bool {
	return s.Daemon
}

// Validate checks the enumerated fields
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendSway, BackendHyprland:
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}

	switch s.Renderer {
	case RendererSwaybg, RendererSwww, RendererAwww, RendererHyprpaper:
	default:
		return fmt.Errorf("unknown renderer %q", s.Renderer)
	}

	switch s.OnRenderError {
	case RenderErrorFatal, RenderErrorContinue:
	default:
		return fmt.Errorf("unknown render error policy %q", s.OnRenderError)
	}

	if s.WallpaperDir == "" {
		return fmt.Errorf("wallpaper directory is not set")
	}
	if s.Period < 0 {
		return fmt.Errorf("rotation period must not be negative")
	}
	return nil
}

// Assignment pairs one active output with the wallpaper chosen for it
type Assignment struct {
	Output string
	Path   string
}

// Cycle is the local state of one rotation
type Cycle struct {
	StartedAt   time.Time
	Assignments []Assignment
}

// Outputs returns the output names in enumeration order
func (c Cycle) Outputs() []string {
	out := make([]string, 0, len(c.Assignments))
	for _, a := range c.Assignments {
		out = append(out, a.Output)
	}
	return out
}
