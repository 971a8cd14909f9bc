package main

import (
	"context"
	"sync"

	"github.com/genricoloni/randpaper/internal/control"
	"github.com/genricoloni/randpaper/internal/domain"
	"github.com/genricoloni/randpaper/internal/engine"
	"github.com/genricoloni/randpaper/internal/monitor"
	"github.com/genricoloni/randpaper/internal/renderer"
	"github.com/genricoloni/randpaper/internal/supervise"
	"github.com/genricoloni/randpaper/internal/theme"
	"github.com/genricoloni/randpaper/internal/wallpaper"
	"github.com/spf13/afero"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// outcome carries the rotation result out of the fx graph
type outcome struct {
	mu  sync.Mutex
	err error
}

func (o *outcome) set(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

func (o *outcome) get() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// appOptions builds the application graph for resolved settings
func appOptions(settings domain.Settings, logger *zap.Logger, result *outcome) fx.Option {
	return fx.Options(
		fx.Supply(settings, logger, result),

		fx.Provide(
			fx.Annotate(supervise.NewExecRunner, fx.As(new(supervise.Runner))),
			fx.Annotate(supervise.NewProcessTable, fx.As(new(supervise.ProcessFinder))),
			func() monitor.SwayDialer { return monitor.DialSway },
			func() afero.Fs { return afero.NewOsFs() },
			monitor.NewSource,
			renderer.New,
			newWallpaperPicker,
			newThemeWriter,
			control.NewSkipper,
			control.NewSignalListener,
			newEngine,
		),

		fx.Invoke(registerHooks),
	)
}

func newWallpaperPicker(logger *zap.Logger, fs afero.Fs, settings domain.Settings) (domain.WallpaperPicker, error) {
	return wallpaper.NewCache(logger, fs, settings.WallpaperDir)
}

func newThemeWriter(logger *zap.Logger, fs afero.Fs, settings domain.Settings) domain.ThemeWriter {
	return theme.NewWriter(logger, fs, settings.ThemePath)
}

func newEngine(
	logger *zap.Logger,
	settings domain.Settings,
	source domain.MonitorSource,
	picker domain.WallpaperPicker,
	rend domain.Renderer,
	tw domain.ThemeWriter,
	skipper *control.Skipper,
) *engine.Engine {
	return engine.NewEngine(logger, settings, source, picker, rend, tw, skipper.C())
}

// registerHooks sets up application lifecycle hooks.
// Skip sources only run in daemon mode; the engine asks fx to shut down
// once it has finished on its own.
func registerHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	logger *zap.Logger,
	settings domain.Settings,
	eng *engine.Engine,
	signals *control.SignalListener,
	skipper *control.Skipper,
	result *outcome,
) {
	var bus *control.Service

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("randpaper started",
				zap.String("backend", string(settings.Backend)),
				zap.String("renderer", string(settings.Renderer)),
				zap.Bool("daemon", settings.Daemon))

			if settings.Continuous() {
				signals.Start()
				bus = startBus(logger, skipper)
			}

			return eng.Start(ctx, func(err error) {
				code := 0
				if err != nil {
					logger.Error("Rotation stopped", zap.Error(err))
					result.set(err)
					code = 1
				}
				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Warn("Failed to request shutdown", zap.Error(err))
				}
			})
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")

			err := eng.Stop(ctx)
			signals.Stop()
			if bus != nil {
				err = multierr.Append(err, bus.Stop())
			}
			return err
		},
	})
}

// startBus exports the D-Bus control service. The session bus is optional,
// SIGUSR1 keeps working without it.
func startBus(logger *zap.Logger, skipper *control.Skipper) *control.Service {
	conn, err := control.ConnectSessionBus()
	if err != nil {
		logger.Warn("Session bus unavailable, skip only via SIGUSR1", zap.Error(err))
		return nil
	}

	svc := control.NewService(logger, conn, skipper)
	if err := svc.Start(); err != nil {
		logger.Warn("D-Bus control service disabled", zap.Error(err))
		_ = conn.Close()
		return nil
	}
	return svc
}
