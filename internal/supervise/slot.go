package supervise

import (
	"fmt"

	"go.uber.org/zap"
)

// Slot owns at most one live long-lived child.
// The previous child is always killed and reaped before a new one is started.
// A Slot is not safe for concurrent use.
type Slot struct {
	logger  *zap.Logger
	runner  Runner
	current Process
}

// NewSlot creates an empty slot
func NewSlot(logger *zap.Logger, runner Runner) *Slot {
	return &Slot{logger: logger, runner: runner}
}

// Live reports whether the slot currently holds a child
func (s *Slot) Live() bool {
	return s.current != nil
}

// Replace stops the current child and starts name with args in its place.
// With no args nothing is started and the slot stays empty.
func (s *Slot) Replace(name string, args []string, opts StartOptions) error {
	if err := s.Stop(); err != nil {
		s.logger.Warn("Failed to stop previous child", zap.String("child", name), zap.Error(err))
	}

	if len(args) == 0 {
		s.logger.Warn("Nothing to start, slot left empty", zap.String("child", name))
		return nil
	}

	proc, err := s.runner.Start(name, args, opts)
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}

	if opts.Detached {
		pid := proc.Pid()
		if err := proc.Release(); err != nil {
			s.logger.Debug("Failed to release detached child", zap.Error(err))
		}
		s.logger.Info("Detached child started", zap.String("child", name), zap.Int("pid", pid))
		return nil
	}

	s.current = proc
	return nil
}

// Stop kills the current child, if any, and waits for it to be reaped
func (s *Slot) Stop() error {
	if s.current == nil {
		return nil
	}

	proc := s.current
	s.current = nil

	killErr := proc.Kill()
	// reap even when the kill failed; the child may already have exited
	if err := proc.Wait(); err != nil {
		s.logger.Debug("Child exited", zap.Int("pid", proc.Pid()), zap.Error(err))
	}

	if killErr != nil {
		return fmt.Errorf("failed to kill pid %d: %w", proc.Pid(), killErr)
	}
	return nil
}
