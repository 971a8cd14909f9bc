package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/genricoloni/randpaper/internal/domain"
	"github.com/genricoloni/randpaper/internal/monitor"
	"go.uber.org/zap"
)

// DefaultRetryDelay is how long the loop waits after a failed discovery
const DefaultRetryDelay = 5 * time.Second

// Engine runs the rotation loop.
// It discovers outputs, picks one wallpaper per output, hands them to the
// renderer and then waits for the period to elapse or a skip request.
type Engine struct {
	logger     *zap.Logger
	settings   domain.Settings
	source     domain.MonitorSource
	picker     domain.WallpaperPicker
	renderer   domain.Renderer
	theme      domain.ThemeWriter
	skip       <-chan struct{}
	retryDelay time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewEngine creates a new rotation engine
func NewEngine(
	logger *zap.Logger,
	settings domain.Settings,
	source domain.MonitorSource,
	picker domain.WallpaperPicker,
	renderer domain.Renderer,
	theme domain.ThemeWriter,
	skip <-chan struct{},
) *Engine {
	return &Engine{
		logger:     logger,
		settings:   settings,
		source:     source,
		picker:     picker,
		renderer:   renderer,
		theme:      theme,
		skip:       skip,
		retryDelay: DefaultRetryDelay,
	}
}

// Start prepares the renderer and launches rotation in a goroutine.
// It returns immediately. onDone receives the loop's result once it ends
// on its own; it is not called when Stop ended the loop.
func (e *Engine) Start(ctx context.Context, onDone func(error)) error {
	e.logger.Info("Engine starting...",
		zap.Bool("continuous", e.settings.Continuous()),
		zap.Duration("period", e.settings.Period))

	if err := e.theme.EnsureExists(); err != nil {
		e.logger.Warn("Failed to write fallback theme", zap.Error(err))
	}

	if err := e.renderer.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialise renderer: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})

	go func() {
		defer close(e.done)

		var err error
		if e.settings.Continuous() {
			err = e.Run(runCtx)
		} else {
			err = e.RunOnce(runCtx)
		}

		if runCtx.Err() == nil && onDone != nil {
			onDone(err)
		}
	}()
	return nil
}

// Stop ends the loop, waits for the in-flight phase to finish and
// releases the renderer
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopping...")

	if e.cancel != nil {
		e.cancel()
		select {
		case <-e.done:
		case <-ctx.Done():
			e.logger.Warn("Rotation loop did not stop in time")
		}
	}

	return e.renderer.Close(ctx)
}

// RunOnce performs a single rotation. Discovery failures are returned, not retried.
func (e *Engine) RunOnce(ctx context.Context) error {
	outputs, err := e.discover(ctx)
	if err != nil {
		return fmt.Errorf("failed to discover outputs: %w", err)
	}

	cycle, err := e.plan(outputs)
	if err != nil {
		return err
	}

	if err := e.apply(ctx, cycle); err != nil {
		return err
	}

	e.logger.Info("Wallpaper and theme updated")
	return nil
}

// Run rotates until ctx is cancelled.
// It returns nil on cancellation and an error only when a rotation fails
// under the fatal render error policy.
func (e *Engine) Run(ctx context.Context) error {
	for {
		outputs, err := e.discoverWithRetry(ctx)
		if err != nil {
			return nil
		}

		cycle, err := e.plan(outputs)
		if err != nil {
			return err
		}

		if err := e.apply(ctx, cycle); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if e.settings.OnRenderError != domain.RenderErrorContinue {
				return err
			}
			e.logger.Error("Rotation failed, waiting for the next one", zap.Error(err))
		}

		if !e.wait(ctx) {
			return nil
		}
	}
}

func (e *Engine) discover(ctx context.Context) ([]string, error) {
	outputs, err := e.source.Discover(ctx)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		return nil, monitor.ErrNoOutputs
	}
	return outputs, nil
}

// discoverWithRetry retries every retryDelay until discovery succeeds.
// It only fails when ctx is cancelled.
func (e *Engine) discoverWithRetry(ctx context.Context) ([]string, error) {
	for {
		outputs, err := e.discover(ctx)
		if err == nil {
			return outputs, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if errors.Is(err, monitor.ErrNoOutputs) {
			e.logger.Warn("No active outputs found, retrying", zap.Duration("delay", e.retryDelay))
		} else {
			e.logger.Error("Failed to discover outputs, retrying",
				zap.Duration("delay", e.retryDelay),
				zap.Error(err))
		}

		timer := time.NewTimer(e.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// plan picks one wallpaper per output in discovery order
func (e *Engine) plan(outputs []string) (domain.Cycle, error) {
	cycle := domain.Cycle{
		StartedAt:   time.Now(),
		Assignments: make([]domain.Assignment, 0, len(outputs)),
	}

	for _, out := range outputs {
		path, err := e.picker.Pick()
		if err != nil {
			return domain.Cycle{}, fmt.Errorf("failed to pick wallpaper for %s: %w", out, err)
		}
		cycle.Assignments = append(cycle.Assignments, domain.Assignment{Output: out, Path: path})
	}
	return cycle, nil
}

// apply derives the theme from the first output's wallpaper, then renders
func (e *Engine) apply(ctx context.Context, cycle domain.Cycle) error {
	e.logger.Info("Rotating wallpapers", zap.Strings("outputs", cycle.Outputs()))

	if len(cycle.Assignments) > 0 {
		if err := e.theme.Update(ctx, cycle.Assignments[0].Path); err != nil {
			e.logger.Warn("Failed to update theme", zap.Error(err))
		}
	}

	if err := e.renderer.Apply(ctx, cycle.Assignments); err != nil {
		return fmt.Errorf("failed to apply wallpapers: %w", err)
	}
	return nil
}

// wait blocks for one period or until a skip request arrives.
// It returns false when ctx is cancelled.
func (e *Engine) wait(ctx context.Context) bool {
	timer := time.NewTimer(e.settings.Period)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	case <-e.skip:
		e.logger.Info("Skip requested, rotating now")
		e.drainSkip()
		return true
	}
}

// drainSkip drops requests that piled up while we were waking,
// so a burst yields a single rotation
func (e *Engine) drainSkip() {
	for {
		select {
		case <-e.skip:
		default:
			return
		}
	}
}
