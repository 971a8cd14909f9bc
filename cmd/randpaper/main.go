package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	child_process_manager "github.com/AgustinSRG/go-child-process-manager"
	"github.com/genricoloni/randpaper/internal/config"
	"github.com/genricoloni/randpaper/internal/control"
	"github.com/genricoloni/randpaper/internal/domain"
	"github.com/genricoloni/randpaper/internal/lock"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const skipTimeout = 2 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "randpaper",
		Short: "Rotate random wallpapers across Sway and Hyprland outputs",
		Long: `randpaper picks a random image for every active output and hands it to
swaybg, swww, awww or hyprpaper. Without --daemon it rotates once and exits.
With --daemon it keeps rotating every --time; "randpaper skip" or SIGUSR1
rotates immediately.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			return run(settings)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/randpaper/config.toml)")
	if err := config.RegisterFlags(v, cmd.Flags()); err != nil {
		panic(err)
	}

	cmd.AddCommand(newSkipCmd())
	return cmd
}

func newSkipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip",
		Short: "Ask the running daemon to rotate now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(domain.Settings{LogLevel: "warn", LogFormat: "console"})
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			lockPath, err := lock.Path(os.LookupEnv)
			if err != nil {
				logger.Debug("No lock path, SIGUSR1 fallback disabled", zap.Error(err))
			}

			conn, err := control.ConnectSessionBus()
			if err != nil {
				logger.Debug("Session bus unavailable", zap.Error(err))
			} else {
				defer conn.Close()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), skipTimeout)
			defer cancel()
			return control.NewClient(logger, conn, lockPath).Skip(ctx)
		},
	}
}

// run executes one rotation or the daemon loop
func run(settings domain.Settings) error {
	logger, err := newLogger(settings)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if settings.Continuous() {
		held, err := acquireLock(logger)
		if err != nil {
			return err
		}
		if held == nil {
			return nil
		}
		defer held.Release()
	}

	if err := child_process_manager.InitializeChildProcessManager(); err != nil {
		logger.Warn("Child processes will not be killed if we crash", zap.Error(err))
	}
	defer child_process_manager.DisposeChildProcessManager() //nolint:errcheck

	result := &outcome{}
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))}
		}),
		appOptions(settings, logger, result),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	sig := <-app.Wait()
	logger.Debug("Stop requested", zap.Any("signal", sig.Signal), zap.Int("exit_code", sig.ExitCode))

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	stopErr := app.Stop(stopCtx)

	if err := result.get(); err != nil {
		return err
	}
	return stopErr
}

// acquireLock takes the per-session lock. A nil lock with a nil error means
// another daemon already serves this session.
func acquireLock(logger *zap.Logger) (*lock.Lock, error) {
	path, err := lock.Path(os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("cannot place the instance lock: %w", err)
	}

	held, err := lock.Acquire(path)
	if errors.Is(err, lock.ErrHeld) {
		logger.Info("Another randpaper daemon is running for this session, exiting", zap.String("lock", path))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Instance lock acquired", zap.String("lock", path))
	return held, nil
}

// newLogger creates a zap logger from the logging settings
func newLogger(settings domain.Settings) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	if settings.LogFormat == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	return cfg.Build()
}
