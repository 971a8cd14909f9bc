package monitor

import (
	"context"
	"errors"
	"slices"

	"github.com/genricoloni/randpaper/internal/domain"
	"github.com/genricoloni/randpaper/internal/supervise"
	"go.uber.org/zap"
)

// ErrNoOutputs is reported when discovery succeeded but found nothing to draw on
var ErrNoOutputs = errors.New("no active outputs")

// Override returns a fixed output list without talking to the compositor
type Override struct {
	outputs []string
}

// NewOverride creates a source that always reports outputs
func NewOverride(outputs []string) *Override {
	return &Override{outputs: slices.Clone(outputs)}
}

// Discover returns a copy of the configured outputs
func (o *Override) Discover(context.Context) ([]string, error) {
	return slices.Clone(o.outputs), nil
}

// Fallback asks primary first and consults secondary when primary fails
// or reports no outputs. An empty answer from secondary is trusted.
type Fallback struct {
	logger    *zap.Logger
	primary   domain.MonitorSource
	secondary domain.MonitorSource
}

// NewFallback chains two sources
func NewFallback(logger *zap.Logger, primary, secondary domain.MonitorSource) *Fallback {
	return &Fallback{logger: logger, primary: primary, secondary: secondary}
}

// Discover implements domain.MonitorSource
func (f *Fallback) Discover(ctx context.Context) ([]string, error) {
	names, err := f.primary.Discover(ctx)
	switch {
	case err != nil:
		f.logger.Warn("Primary output discovery failed, falling back", zap.Error(err))
	case len(names) == 0:
		// IPC clients have been seen racing to an empty list on a live compositor
		f.logger.Warn("Primary output discovery returned no active outputs, falling back")
	default:
		return names, nil
	}

	return f.secondary.Discover(ctx)
}

// NewSource builds the discovery strategy for the configured backend
func NewSource(logger *zap.Logger, settings domain.Settings, runner supervise.Runner, dial SwayDialer) domain.MonitorSource {
	switch settings.Backend {
	case domain.BackendHyprland:
		if len(settings.Outputs) > 0 {
			logger.Warn("Output override is only honoured by the sway backend, ignoring it",
				zap.Strings("outputs", settings.Outputs))
		}
		return NewHyprctl(logger, runner)
	default:
		if len(settings.Outputs) > 0 {
			logger.Info("Using configured outputs", zap.Strings("outputs", settings.Outputs))
			return NewOverride(settings.Outputs)
		}
		return NewFallback(logger, NewSwayIPC(logger, dial), NewSwaymsg(logger, runner))
	}
}
