package supervise

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeRunner records every call in order so tests can check sequencing
type fakeRunner struct {
	events   []string
	results  map[string]Result
	runErr   map[string]error
	startErr error
	started  int
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	key := name
	if len(args) > 0 {
		key = name + " " + args[0]
	}
	f.events = append(f.events, "run "+key)
	if err := f.runErr[key]; err != nil {
		return Result{}, err
	}
	return f.results[key], nil
}

func (f *fakeRunner) Start(name string, args []string, opts StartOptions) (Process, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.started++
	f.events = append(f.events, fmt.Sprintf("start %d", f.started))
	return &fakeProcess{id: f.started, runner: f}, nil
}

type fakeProcess struct {
	id       int
	runner   *fakeRunner
	released bool
}

func (p *fakeProcess) Pid() int { return 1000 + p.id }

func (p *fakeProcess) Kill() error {
	p.runner.events = append(p.runner.events, fmt.Sprintf("kill %d", p.id))
	return nil
}

func (p *fakeProcess) Wait() error {
	p.runner.events = append(p.runner.events, fmt.Sprintf("wait %d", p.id))
	return errors.New("signal: killed")
}

func (p *fakeProcess) Release() error {
	p.released = true
	p.runner.events = append(p.runner.events, fmt.Sprintf("release %d", p.id))
	return nil
}

func TestSlot_ReplaceReapsBeforeSpawn(t *testing.T) {
	runner := &fakeRunner{}
	slot := NewSlot(zap.NewNop(), runner)

	if err := slot.Replace("swaybg", []string{"-o", "A"}, StartOptions{}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := slot.Replace("swaybg", []string{"-o", "B"}, StartOptions{}); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	want := []string{"start 1", "kill 1", "wait 1", "start 2"}
	if !reflect.DeepEqual(runner.events, want) {
		t.Errorf("event order mismatch:\nwant %v\ngot  %v", want, runner.events)
	}
	if !slot.Live() {
		t.Error("expected a live child after replace")
	}
}

func TestSlot_EmptyArgsLeavesSlotEmpty(t *testing.T) {
	runner := &fakeRunner{}
	slot := NewSlot(zap.NewNop(), runner)

	if err := slot.Replace("swaybg", []string{"-o", "A"}, StartOptions{}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := slot.Replace("swaybg", nil, StartOptions{}); err != nil {
		t.Fatalf("empty replace: %v", err)
	}

	want := []string{"start 1", "kill 1", "wait 1"}
	if !reflect.DeepEqual(runner.events, want) {
		t.Errorf("event order mismatch:\nwant %v\ngot  %v", want, runner.events)
	}
	if slot.Live() {
		t.Error("slot should be empty")
	}
}

func TestSlot_DetachedIsReleased(t *testing.T) {
	runner := &fakeRunner{}
	slot := NewSlot(zap.NewNop(), runner)

	if err := slot.Replace("swaybg", []string{"-o", "A"}, StartOptions{Detached: true}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if slot.Live() {
		t.Error("detached child must not be tracked")
	}
	want := []string{"start 1", "release 1"}
	if !reflect.DeepEqual(runner.events, want) {
		t.Errorf("want %v, got %v", want, runner.events)
	}
}

func TestSlot_StartFailure(t *testing.T) {
	runner := &fakeRunner{startErr: errors.New("exec: not found")}
	slot := NewSlot(zap.NewNop(), runner)

	err := slot.Replace("swaybg", []string{"-o", "A"}, StartOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if slot.Live() {
		t.Error("slot should be empty after a failed start")
	}
}

func TestProbes(t *testing.T) {
	ctx := context.Background()
	runner := &fakeRunner{
		results: map[string]Result{
			"swww --help": {ExitCode: 2},
			"swww query":  {ExitCode: 1},
			"awww query":  {ExitCode: 0},
		},
		runErr: map[string]error{
			"missing --help": errors.New("executable file not found"),
			"missing query":  errors.New("executable file not found"),
		},
	}

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"present despite non-zero exit", BinaryPresent(ctx, runner, "swww"), true},
		{"absent on spawn failure", BinaryPresent(ctx, runner, "missing"), false},
		{"not ready on non-zero exit", DaemonReady(ctx, runner, "swww"), false},
		{"ready on zero exit", DaemonReady(ctx, runner, "awww"), true},
		{"not ready on spawn failure", DaemonReady(ctx, runner, "missing"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("want %v, got %v", tt.want, tt.got)
			}
		})
	}
}

func TestDetectBinary(t *testing.T) {
	ctx := context.Background()
	notFound := errors.New("executable file not found")

	tests := []struct {
		name       string
		runErr     map[string]error
		candidates []string
		want       string
	}{
		{
			name:       "first candidate present",
			candidates: []string{"swww", "awww"},
			want:       "swww",
		},
		{
			name:       "second candidate present",
			runErr:     map[string]error{"swww --help": notFound},
			candidates: []string{"swww", "awww"},
			want:       "awww",
		},
		{
			name:       "none present falls back to preferred",
			runErr:     map[string]error{"awww --help": notFound, "swww --help": notFound},
			candidates: []string{"awww", "swww"},
			want:       "awww",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{runErr: tt.runErr}
			if got := DetectBinary(ctx, zap.NewNop(), runner, tt.candidates...); got != tt.want {
				t.Errorf("want %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPollUntil(t *testing.T) {
	ctx := context.Background()

	calls := 0
	ok := PollUntil(ctx, time.Millisecond, time.Second, func(context.Context) bool {
		calls++
		return calls == 3
	})
	if !ok || calls != 3 {
		t.Errorf("expected ready on third probe, ok=%v calls=%d", ok, calls)
	}

	start := time.Now()
	ok = PollUntil(ctx, 5*time.Millisecond, 30*time.Millisecond, func(context.Context) bool { return false })
	if ok {
		t.Error("expected poll to give up")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("poll exceeded its budget: %v", elapsed)
	}
}

func TestExecRunner(t *testing.T) {
	runner := NewExecRunner(zap.NewNop())
	ctx := context.Background()

	res, err := runner.Run(ctx, "sh", "-c", "echo out; echo err >&2; exit 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 3 || res.Success() {
		t.Errorf("expected exit code 3, got %d", res.ExitCode)
	}
	if string(res.Stdout) != "out\n" || string(res.Stderr) != "err\n" {
		t.Errorf("unexpected output: %q / %q", res.Stdout, res.Stderr)
	}

	if _, err := runner.Run(ctx, "randpaper-no-such-binary"); err == nil {
		t.Error("expected spawn error for a missing binary")
	}

	proc, err := runner.Start("sleep", []string{"30"}, StartOptions{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := proc.Kill(); err != nil {
		t.Fatalf("kill: %v", err)
	}
	if err := proc.Wait(); err == nil {
		t.Error("expected killed process to report an exit error")
	}
}
