package control

import (
	"os"
	"os/signal"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// SignalListener turns SIGUSR1 into skip requests
type SignalListener struct {
	logger  *zap.Logger
	skipper *Skipper
	sigs    chan os.Signal
	done    chan struct{}
}

// NewSignalListener creates a listener feeding skipper
func NewSignalListener(logger *zap.Logger, skipper *Skipper) *SignalListener {
	return &SignalListener{logger: logger, skipper: skipper}
}

// Start registers for SIGUSR1 and returns immediately
func (l *SignalListener) Start() {
	l.sigs = make(chan os.Signal, 1)
	l.done = make(chan struct{})
	signal.Notify(l.sigs, unix.SIGUSR1)

	go func() {
		for {
			select {
			case <-l.done:
				return
			case <-l.sigs:
				if l.skipper.Trigger() {
					l.logger.Info("Skip requested via SIGUSR1")
				} else {
					l.logger.Debug("Skip already pending, SIGUSR1 ignored")
				}
			}
		}
	}()

	l.logger.Debug("Listening for SIGUSR1")
}

// Stop unregisters the signal handler
func (l *SignalListener) Stop() {
	if l.sigs == nil {
		return
	}
	signal.Stop(l.sigs)
	close(l.done)
	l.sigs = nil
}
