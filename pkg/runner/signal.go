package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownSignals stop a running simulator.
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// SignalManager ties a context to the process shutdown signals.
type SignalManager struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager starts listening for shutdown signals on top of parent.
func NewSignalManager(parent context.Context) *SignalManager {
	ctx, cancel := signal.NotifyContext(parent, ShutdownSignals...)
	return &SignalManager{ctx: ctx, cancel: cancel}
}

// Context is cancelled on the first shutdown signal or when Stop is called.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Stop releases the signal listener. A second signal then kills the process as usual.
func (sm *SignalManager) Stop() {
	sm.cancel()
}
