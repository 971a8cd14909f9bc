// Package control delivers "rotate now" requests to the running engine.
//
// Requests arrive as SIGUSR1 or as a call to the org.randpaper.Daemon.Skip
// D-Bus method and are funnelled into a Skipper. At most one request is
// held while the engine is busy; extra requests are dropped.
package control

// Skipper is a single-slot skip request queue
type Skipper struct {
	ch chan struct{}
}

// NewSkipper creates an empty skipper
func NewSkipper() *Skipper {
	return &Skipper{ch: make(chan struct{}, 1)}
}

// Trigger queues a request without blocking.
// It returns false when one is already pending.
func (s *Skipper) Trigger() bool {
	select {
	case s.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// C is the receiving end consumed by the engine
func (s *Skipper) C() <-chan struct{} {
	return s.ch
}
