// Package renderer puts the chosen wallpapers on screen through an external tool.
//
// Two strategies exist. swaybg has no daemon, so one process covering every
// output is killed and respawned each rotation. swww, awww and hyprpaper run
// a daemon that is commanded once per output with short-lived client calls.
package renderer

import (
	"path/filepath"

	"github.com/genricoloni/randpaper/internal/domain"
	"github.com/genricoloni/randpaper/internal/supervise"
	"go.uber.org/zap"
)

// New creates the renderer selected in settings.
// Outside continuous mode the swaybg child is detached so it outlives us.
func New(logger *zap.Logger, settings domain.Settings, runner supervise.Runner, finder supervise.ProcessFinder) domain.Renderer {
	logger = logger.With(zap.String("renderer", string(settings.Renderer)))

	switch settings.Renderer {
	case domain.RendererSwww:
		return NewSwww(logger, runner, finder, settings.Transition, "swww", "awww")
	case domain.RendererAwww:
		return NewSwww(logger, runner, finder, settings.Transition, "awww", "swww")
	case domain.RendererHyprpaper:
		return NewHyprpaper(logger, runner)
	default:
		return NewSwaybg(logger, runner, finder, !settings.Continuous())
	}
}

// canonicalize resolves path to an absolute path without symlinks
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
