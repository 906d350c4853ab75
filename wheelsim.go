package wheelsim

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/wheelsim/internal/runtime"
	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/aretw0/wheelsim/pkg/ports"
)

// Engine is the high-level entry point for the simulator library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime      *runtime.Engine
	device       ports.DeviceStatus
	logger       *slog.Logger
	announceStop bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithDevice injects the device queried while Moving.
func WithDevice(device ports.DeviceStatus) Option {
	return func(e *Engine) {
		e.device = device
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStopAnnouncement appends a STOPPED message after FINISHED when a node is reached.
func WithStopAnnouncement(enabled bool) Option {
	return func(e *Engine) {
		e.announceStop = enabled
	}
}

// New initializes a new Engine.
// Without WithDevice the chair never reaches its destination on its own.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.runtime = runtime.NewEngine(
		eng.device,
		runtime.WithLogger(eng.logger),
		runtime.WithStopAnnouncement(eng.announceStop),
	)
	return eng
}

// Start returns the initial state.
func (e *Engine) Start() domain.State {
	return domain.NewState()
}

// Step feeds one input (a Tick or a received message) to the machine and returns the
// next resting state with the messages to send, in order.
func (e *Engine) Step(ctx context.Context, state domain.State, in domain.Input) (domain.State, []domain.Outbound, error) {
	return e.runtime.Step(ctx, state, in)
}
