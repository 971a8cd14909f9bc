package renderer

import (
	"context"
	"fmt"
	"strings"

	"github.com/genricoloni/randpaper/internal/domain"
	"github.com/genricoloni/randpaper/internal/supervise"
	"go.uber.org/zap"
)

// Hyprpaper sets wallpapers through `hyprctl hyprpaper reload`
type Hyprpaper struct {
	logger       *zap.Logger
	runner       supervise.Runner
	canonicalize func(string) (string, error)
}

// NewHyprpaper creates the hyprpaper renderer
func NewHyprpaper(logger *zap.Logger, runner supervise.Runner) *Hyprpaper {
	return &Hyprpaper{logger: logger, runner: runner, canonicalize: canonicalize}
}

// Init checks that hyprctl can be executed
func (h *Hyprpaper) Init(ctx context.Context) error {
	if !supervise.BinaryPresent(ctx, h.runner, "hyprctl") {
		return fmt.Errorf("hyprctl not found, is Hyprland installed?")
	}
	return nil
}

// Apply reloads one wallpaper per output; reload loads and swaps in one step
func (h *Hyprpaper) Apply(ctx context.Context, assignments []domain.Assignment) error {
	for _, a := range assignments {
		path, err := h.canonicalize(a.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve wallpaper for %s: %w", a.Output, err)
		}

		res, err := h.runner.Run(ctx, "hyprctl", "hyprpaper", "reload", a.Output+","+path)
		if err != nil {
			return fmt.Errorf("failed to run hyprctl for %s: %w", a.Output, err)
		}
		if !res.Success() {
			return fmt.Errorf("hyprctl hyprpaper reload %s failed (exit %d): %s",
				a.Output, res.ExitCode, strings.TrimSpace(string(res.Stderr)))
		}
	}

	h.logger.Info("Wallpapers applied", zap.Int("outputs", len(assignments)))
	return nil
}

// Close is a no-op
func (h *Hyprpaper) Close(context.Context) error {
	return nil
}
