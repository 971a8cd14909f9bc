package supervise

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	child_process_manager "github.com/AgustinSRG/go-child-process-manager"
	"go.uber.org/zap"
	"go.uber.org/zap/zapio"
)

// Result holds the collected output of a command that ran to completion
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports a zero exit status
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// StartOptions control how a long-lived child is started
type StartOptions struct {
	// Detached children run in their own session and survive our exit.
	// Their output is discarded.
	Detached bool
	// Quiet discards the child's output instead of logging it
	Quiet bool
}

// Process is a started child process
type Process interface {
	Pid() int
	// Kill requests termination
	Kill() error
	// Wait blocks until the process has exited and been reaped
	Wait() error
	// Release stops tracking a detached process
	Release() error
}

// Runner spawns external commands.
//
//go:generate mockgen -destination=mocks/runner_mock.go -package=mocks github.com/genricoloni/randpaper/internal/supervise Runner
type Runner interface {
	// Run executes a command to completion. The error is non-nil only when
	// the command could not be run at all; a non-zero exit is reported in Result.
	Run(ctx context.Context, name string, args ...string) (Result, error)

	// Start spawns a long-lived child and returns without waiting for it
	Start(name string, args []string, opts StartOptions) (Process, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	logger *zap.Logger
}

// NewExecRunner creates a runner backed by real processes
func NewExecRunner(logger *zap.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

// Run executes name with args and collects its output
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("Running command",
		zap.String("command", name),
		zap.Strings("args", args))

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("%s: %w", name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	return res, fmt.Errorf("failed to run %s: %w", name, err)
}

// Start spawns a long-lived child.
// Supervised children are registered so they die together with this process.
func (r *ExecRunner) Start(name string, args []string, opts StartOptions) (Process, error) {
	cmd := exec.Command(name, args...)
	log := r.logger.With(zap.String("child", name))

	var out *zapio.Writer
	switch {
	case opts.Detached:
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	default:
		if err := child_process_manager.ConfigureCommand(cmd); err != nil {
			log.Warn("Unable to configure child to be killed with its parent", zap.Error(err))
		}
		if !opts.Quiet {
			out = &zapio.Writer{Log: log, Level: zap.DebugLevel}
			cmd.Stdout = out
			cmd.Stderr = out
		}
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}

	if !opts.Detached {
		if err := child_process_manager.AddChildProcess(cmd.Process); err != nil {
			log.Warn("Unable to register child for auto-kill", zap.Error(err))
		}
	}

	log.Debug("Child started",
		zap.Int("pid", cmd.Process.Pid),
		zap.Strings("args", args),
		zap.Bool("detached", opts.Detached))

	return &execProcess{cmd: cmd, out: out}, nil
}

type execProcess struct {
	cmd *exec.Cmd
	out *zapio.Writer
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Kill() error {
	err := p.cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func (p *execProcess) Wait() error {
	err := p.cmd.Wait()
	if p.out != nil {
		_ = p.out.Close()
	}
	return err
}

func (p *execProcess) Release() error {
	return p.cmd.Process.Release()
}
