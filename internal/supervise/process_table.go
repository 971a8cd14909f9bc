package supervise

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/process"
)

// ProcessFinder looks up running processes by exact name
type ProcessFinder interface {
	Running(ctx context.Context, name string) (bool, error)
	KillAll(ctx context.Context, name string) (int, error)
}

// ProcessTable searches the system process table
type ProcessTable struct{}

// NewProcessTable creates a finder over the host's processes
func NewProcessTable() *ProcessTable {
	return &ProcessTable{}
}

// Running reports whether any process is named exactly name
func (t *ProcessTable) Running(ctx context.Context, name string) (bool, error) {
	procs, err := t.named(ctx, name)
	if err != nil {
		return false, err
	}
	return len(procs) > 0, nil
}

// KillAll kills every process named exactly name and returns how many were signalled
func (t *ProcessTable) KillAll(ctx context.Context, name string) (int, error) {
	procs, err := t.named(ctx, name)
	if err != nil {
		return 0, err
	}

	killed := 0
	for _, p := range procs {
		if err := p.Kill(); err != nil {
			continue
		}
		killed++
	}
	return killed, nil
}

func (t *ProcessTable) named(ctx context.Context, name string) ([]*process.Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	var matched []*process.Process
	for _, p := range procs {
		// processes can vanish between listing and inspection
		n, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if n == name {
			matched = append(matched, p)
		}
	}
	return matched, nil
}
