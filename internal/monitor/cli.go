package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/genricoloni/randpaper/internal/supervise"
	"go.uber.org/zap"
)

const cliTimeout = time.Second

// ActiveRule tells the parser which flag marks an output as usable
type ActiveRule int

const (
	// RequireActive keeps entries carrying "active": true (swaymsg)
	RequireActive ActiveRule = iota
	// RejectDisabled keeps entries not carrying "disabled": true (hyprctl)
	RejectDisabled
)

type outputEntry struct {
	Name     string `json:"name"`
	Active   *bool  `json:"active"`
	Disabled *bool  `json:"disabled"`
}

// ParseOutputs extracts usable output names from a JSON array.
// Anything before the first '[' is diagnostic noise and is skipped.
// A well-formed list without usable entries yields an empty, non-nil slice.
func ParseOutputs(raw []byte, rule ActiveRule) ([]string, error) {
	if !utf8.Valid(raw) {
		return nil, errors.New("output is not valid UTF-8")
	}

	if start := bytes.IndexByte(raw, '['); start > 0 {
		raw = raw[start:]
	}

	var entries []outputEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("malformed output list: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		switch rule {
		case RequireActive:
			if e.Active == nil || !*e.Active {
				continue
			}
		case RejectDisabled:
			if e.Disabled != nil && *e.Disabled {
				continue
			}
		}
		names = append(names, e.Name)
	}
	return names, nil
}

// CLI lists outputs by running a compositor status command
type CLI struct {
	logger  *zap.Logger
	runner  supervise.Runner
	command string
	args    []string
	rule    ActiveRule
	timeout time.Duration
}

// NewSwaymsg creates the swaymsg fallback source
func NewSwaymsg(logger *zap.Logger, runner supervise.Runner) *CLI {
	return &CLI{
		logger:  logger,
		runner:  runner,
		command: "swaymsg",
		args:    []string{"-t", "get_outputs", "-r"},
		rule:    RequireActive,
		timeout: cliTimeout,
	}
}

// NewHyprctl creates the hyprctl source
func NewHyprctl(logger *zap.Logger, runner supervise.Runner) *CLI {
	return &CLI{
		logger:  logger,
		runner:  runner,
		command: "hyprctl",
		args:    []string{"-j", "monitors"},
		rule:    RejectDisabled,
		timeout: cliTimeout,
	}
}

// Discover runs the status command and parses its JSON output
func (c *CLI) Discover(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.runner.Run(ctx, c.command, c.args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.command, err)
	}
	if !res.Success() {
		return nil, fmt.Errorf("%s %s exited with %d: %s",
			c.command, strings.Join(c.args, " "), res.ExitCode, strings.TrimSpace(string(res.Stderr)))
	}

	names, err := ParseOutputs(res.Stdout, c.rule)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.command, err)
	}

	c.logger.Debug("CLI outputs", zap.String("command", c.command), zap.Strings("active", names))
	return names, nil
}
