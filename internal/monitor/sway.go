package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joshuarubin/go-sway"
	"go.uber.org/zap"
)

const (
	// Short enough that one-shot runs never hang on a wedged socket
	swayConnectTimeout = 300 * time.Millisecond
	swayQueryTimeout   = 300 * time.Millisecond
)

// ErrTimeout is returned when a compositor step does not answer in time
var ErrTimeout = errors.New("timed out")

// SwayClient is the part of the Sway IPC client used for discovery.
// sway.Client satisfies it.
type SwayClient interface {
	GetOutputs(ctx context.Context) ([]sway.Output, error)
}

// SwayDialer opens an IPC session. The session lives as long as ctx.
type SwayDialer func(ctx context.Context) (SwayClient, error)

// DialSway connects to the socket named by $SWAYSOCK
func DialSway(ctx context.Context) (SwayClient, error) {
	return sway.New(ctx)
}

// SwayIPC lists outputs over the native Sway IPC socket
type SwayIPC struct {
	logger         *zap.Logger
	dial           SwayDialer
	connectTimeout time.Duration
	queryTimeout   time.Duration
}

// NewSwayIPC creates the native-protocol source
func NewSwayIPC(logger *zap.Logger, dial SwayDialer) *SwayIPC {
	return &SwayIPC{
		logger:         logger,
		dial:           dial,
		connectTimeout: swayConnectTimeout,
		queryTimeout:   swayQueryTimeout,
	}
}

// Discover returns the names of outputs Sway reports as active
func (s *SwayIPC) Discover(ctx context.Context) ([]string, error) {
	// The session outlives the per-step timeouts and is torn down on return
	session, cancel := context.WithCancel(ctx)
	defer cancel()

	client, err := within(session, s.connectTimeout, func() (SwayClient, error) {
		return s.dial(session)
	})
	if err != nil {
		return nil, fmt.Errorf("sway ipc: connect: %w", err)
	}

	outputs, err := within(session, s.queryTimeout, func() ([]sway.Output, error) {
		return client.GetOutputs(session)
	})
	if err != nil {
		return nil, fmt.Errorf("sway ipc: get_outputs: %w", err)
	}

	names := make([]string, 0, len(outputs))
	for _, o := range outputs {
		if o.Active {
			names = append(names, o.Name)
		}
	}

	s.logger.Debug("Sway IPC outputs",
		zap.Int("reported", len(outputs)),
		zap.Strings("active", names))

	return names, nil
}

// within runs fn and gives up after d. fn keeps running in the background
// until its own context is cancelled.
func within[T any](ctx context.Context, d time.Duration, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}

	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	var zero T
	select {
	case r := <-done:
		return r.v, r.err
	case <-timer.C:
		return zero, fmt.Errorf("%w after %s", ErrTimeout, d)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
