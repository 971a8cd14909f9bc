package renderer

import (
	"context"

	"github.com/genricoloni/randpaper/internal/domain"
	"github.com/genricoloni/randpaper/internal/supervise"
	"go.uber.org/zap"
)

const (
	swaybgBinary = "swaybg"
	scaleMode    = "fill"
)

// Swaybg drives a single swaybg process covering all outputs
type Swaybg struct {
	logger       *zap.Logger
	slot         *supervise.Slot
	finder       supervise.ProcessFinder
	detached     bool
	canonicalize func(string) (string, error)
}

// NewSwaybg creates the persistent-process renderer
func NewSwaybg(logger *zap.Logger, runner supervise.Runner, finder supervise.ProcessFinder, detached bool) *Swaybg {
	return &Swaybg{
		logger:       logger,
		slot:         supervise.NewSlot(logger, runner),
		finder:       finder,
		detached:     detached,
		canonicalize: canonicalize,
	}
}

// Init kills swaybg instances we do not own so they cannot overlap ours
func (s *Swaybg) Init(ctx context.Context) error {
	killed, err := s.finder.KillAll(ctx, swaybgBinary)
	if err != nil {
		s.logger.Warn("Unable to look for stray swaybg processes", zap.Error(err))
		return nil
	}
	if killed > 0 {
		s.logger.Info("Killed stray swaybg processes", zap.Int("count", killed))
	}
	return nil
}

// Apply replaces the running swaybg with one showing assignments
func (s *Swaybg) Apply(ctx context.Context, assignments []domain.Assignment) error {
	args := s.buildArgs(assignments)

	s.logger.Debug("Replacing swaybg", zap.Strings("args", args))
	if err := s.slot.Replace(swaybgBinary, args, supervise.StartOptions{Detached: s.detached}); err != nil {
		return err
	}

	s.logger.Info("Wallpapers applied", zap.Int("outputs", len(args)/6))
	return nil
}

// Close kills the owned swaybg, if any
func (s *Swaybg) Close(context.Context) error {
	return s.slot.Stop()
}

// buildArgs emits one -o/-m/-i group per output. Outputs whose image
// cannot be resolved are left out.
func (s *Swaybg) buildArgs(assignments []domain.Assignment) []string {
	args := make([]string, 0, len(assignments)*6)
	for _, a := range assignments {
		abs, err := s.canonicalize(a.Path)
		if err != nil {
			s.logger.Debug("Skipping output with unresolvable image",
				zap.String("output", a.Output),
				zap.String("path", a.Path),
				zap.Error(err))
			continue
		}
		args = append(args, "-o", a.Output, "-m", scaleMode, "-i", abs)
	}
	return args
}
