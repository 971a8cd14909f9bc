package renderer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/genricoloni/randpaper/internal/domain"
	"github.com/genricoloni/randpaper/internal/supervise"
	"go.uber.org/zap"
)

const (
	readyPollInterval = 100 * time.Millisecond
	readyPollBudget   = time.Second
)

// Swww commands a swww or awww daemon, one client call per output
type Swww struct {
	logger       *zap.Logger
	runner       supervise.Runner
	finder       supervise.ProcessFinder
	transition   domain.Transition
	candidates   []string
	bin          string
	pollInterval time.Duration
	pollBudget   time.Duration
	canonicalize func(string) (string, error)
}

// NewSwww creates the daemon-client renderer. candidates are probed in order.
func NewSwww(logger *zap.Logger, runner supervise.Runner, finder supervise.ProcessFinder, transition domain.Transition, candidates ...string) *Swww {
	return &Swww{
		logger:       logger,
		runner:       runner,
		finder:       finder,
		transition:   transition,
		candidates:   candidates,
		pollInterval: readyPollInterval,
		pollBudget:   readyPollBudget,
		canonicalize: canonicalize,
	}
}

// Binary returns the detected client binary, empty before Init
func (s *Swww) Binary() string {
	return s.bin
}

// Init picks the client binary and makes sure its daemon answers
func (s *Swww) Init(ctx context.Context) error {
	s.bin = supervise.DetectBinary(ctx, s.logger, s.runner, s.candidates...)
	s.logger.Info("Wallpaper daemon client detected", zap.String("binary", s.bin))
	return s.ensureDaemon(ctx)
}

func (s *Swww) ensureDaemon(ctx context.Context) error {
	if supervise.DaemonReady(ctx, s.runner, s.bin) {
		return nil
	}

	daemon := s.bin + "-daemon"
	running, err := s.finder.Running(ctx, daemon)
	if err != nil {
		s.logger.Warn("Unable to check for a running daemon", zap.String("daemon", daemon), zap.Error(err))
	}

	if running {
		s.logger.Info("Daemon already running, waiting for it to answer", zap.String("daemon", daemon))
	} else {
		s.logger.Info("Starting daemon", zap.String("daemon", daemon))
		proc, err := s.runner.Start(daemon, nil, supervise.StartOptions{Detached: true})
		if err != nil {
			return fmt.Errorf("failed to spawn %s: %w", daemon, err)
		}
		if err := proc.Release(); err != nil {
			s.logger.Debug("Failed to release daemon", zap.Error(err))
		}
	}

	ready := supervise.PollUntil(ctx, s.pollInterval, s.pollBudget, func(ctx context.Context) bool {
		return supervise.DaemonReady(ctx, s.runner, s.bin)
	})
	if !ready {
		s.logger.Warn("Daemon did not answer in time, continuing",
			zap.String("daemon", daemon),
			zap.Duration("waited", s.pollBudget))
	}
	return nil
}

// Apply sends one img command per output and stops at the first failure
func (s *Swww) Apply(ctx context.Context, assignments []domain.Assignment) error {
	step := strconv.Itoa(int(s.transition.Step))
	fps := strconv.Itoa(int(s.transition.FPS))

	for _, a := range assignments {
		path, err := s.canonicalize(a.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve wallpaper for %s: %w", a.Output, err)
		}

		res, err := s.runner.Run(ctx, s.bin,
			"img", path,
			"-o", a.Output,
			"--transition-type", s.transition.Type,
			"--transition-step", step,
			"--transition-fps", fps,
		)
		if err != nil {
			return fmt.Errorf("failed to run %s for %s: %w", s.bin, a.Output, err)
		}
		if !res.Success() {
			return fmt.Errorf("%s img -o %s failed (exit %d): %s",
				s.bin, a.Output, res.ExitCode, strings.TrimSpace(string(res.Stderr)))
		}

		s.logger.Debug("Wallpaper applied", zap.String("output", a.Output), zap.String("path", path))
	}

	s.logger.Info("Wallpapers applied", zap.Int("outputs", len(assignments)))
	return nil
}

// Close is a no-op; the daemon is not owned by us
func (s *Swww) Close(context.Context) error {
	return nil
}
