package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/aretw0/wheelsim/pkg/ports"
)

// ErrUnknownState is returned when stepping from a StateID the engine does not know.
var ErrUnknownState = errors.New("unknown state")

// Engine is the core state machine.
// It holds no mutable state of its own: the current State is passed in and the next one
// returned, together with the messages to send to the BCI peer.
type Engine struct {
	device       ports.DeviceStatus
	logger       *slog.Logger
	announceStop bool
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStopAnnouncement makes the arrival cascade end with an explicit STOPPED message
// after FINISHED.
func WithStopAnnouncement(enabled bool) EngineOption {
	return func(e *Engine) {
		e.announceStop = enabled
	}
}

// NewEngine creates a new engine querying device while Moving.
// A nil device never reports arrival.
func NewEngine(device ports.DeviceStatus, opts ...EngineOption) *Engine {
	if device == nil {
		device = ports.DeviceStatusFunc(func(context.Context, domain.Leg) bool { return false })
	}
	e := &Engine{
		device: device,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Step feeds one input to the machine.
// It returns the resting state to install before the next cycle and the messages to send,
// in order. A non-nil error wraps domain.ErrProtocolMismatch, domain.ErrDecode (a message
// missing the field its state needs) or ErrUnknownState; the returned state is then
// current and no messages are produced.
func (e *Engine) Step(ctx context.Context, current domain.State, in domain.Input) (domain.State, []domain.Outbound, error) {
	switch current.ID {
	case domain.StateIdle:
		return e.idle(current, in)
	case domain.StateStopped:
		return e.stopped(current, in)
	case domain.StateMoving:
		return e.moving(ctx, current, in)
	case domain.StateFinished:
		next, effects := e.finish()
		return next, effects, nil
	}
	return current, nil, fmt.Errorf("%w: %q", ErrUnknownState, current.ID)
}

func mismatch(current domain.State, expected string, msg *domain.Inbound) error {
	return fmt.Errorf("%w: %s expects %s, got %s", domain.ErrProtocolMismatch, current.ID, expected, describe(msg))
}

func malformed(current domain.State, field string, msg *domain.Inbound) error {
	return fmt.Errorf("%w: %s needs %s, got %s", domain.ErrDecode, current.ID, field, describe(msg))
}

func describe(msg *domain.Inbound) string {
	switch msg.Kind() {
	case domain.KindMoveTo:
		return fmt.Sprintf("MoveTo %d", *msg.MoveTo)
	case domain.KindUnknown:
		if msg.State != "" {
			return fmt.Sprintf("State %q", msg.State)
		}
		return "an unrecognised message"
	}
	return msg.State
}
