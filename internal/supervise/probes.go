package supervise

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const probeTimeout = 2 * time.Second

// BinaryPresent reports whether bin can be executed.
// Only spawning matters; the exit status of --help is ignored.
func BinaryPresent(ctx context.Context, r Runner, bin string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := r.Run(ctx, bin, "--help")
	return err == nil
}

// DaemonReady reports whether bin's daemon answers a query
func DaemonReady(ctx context.Context, r Runner, bin string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	res, err := r.Run(ctx, bin, "query")
	return err == nil && res.Success()
}

// DetectBinary returns the first present candidate.
// When none responds it falls back to the first candidate.
func DetectBinary(ctx context.Context, logger *zap.Logger, r Runner, candidates ...string) string {
	for _, bin := range candidates {
		if BinaryPresent(ctx, r, bin) {
			return bin
		}
	}

	logger.Warn("None of the renderer binaries responded, using the preferred one",
		zap.Strings("candidates", candidates),
		zap.String("binary", candidates[0]))
	return candidates[0]
}

// PollUntil calls ready every interval until it returns true or budget is spent
func PollUntil(ctx context.Context, interval, budget time.Duration, ready func(context.Context) bool) bool {
	deadline := time.NewTimer(budget)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		if ready(ctx) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return ready(ctx)
		case <-tick.C:
		}
	}
}
