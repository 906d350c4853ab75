package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/wheelsim/pkg/codec"
	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/aretw0/wheelsim/pkg/ports"
	"github.com/google/uuid"
)

// Stepper is the state machine driven by the Runner.
type Stepper interface {
	Start() domain.State
	Step(ctx context.Context, state domain.State, in domain.Input) (domain.State, []domain.Outbound, error)
}

// Snapshot is a point-in-time view of a Runner.
type Snapshot struct {
	RunID     string       `json:"run_id"`
	State     domain.State `json:"current"`
	Cycles    uint64       `json:"cycles"`
	Received  uint64       `json:"received"`
	Rejected  uint64       `json:"rejected"`
	Sent      uint64       `json:"sent"`
	StartedAt time.Time    `json:"started_at"`
	LastInput *time.Time   `json:"last_input,omitempty"`
}

// Runner polls a Transport and feeds the engine, one cycle per interval.
// Only the goroutine calling Run or Cycle mutates the state.
type Runner struct {
	engine    Stepper
	transport ports.Transport
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	interval  time.Duration
	drain     bool
	runID     string
	now       func() time.Time

	hasInitial bool

	mu    sync.RWMutex
	state domain.State
	snap  Snapshot
}

// New creates a Runner around engine and transport.
func New(engine Stepper, transport ports.Transport, opts ...Option) *Runner {
	r := &Runner{
		engine:    engine,
		transport: transport,
		interval:  DefaultInterval,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r.logger = r.logger.With("run_id", r.runID)
	if !r.hasInitial {
		r.state = engine.Start()
	}

	r.snap = Snapshot{
		RunID:     r.runID,
		State:     r.state,
		StartedAt: r.now(),
	}
	return r
}

// RunID returns the identifier attached to this runner's logs.
func (r *Runner) RunID() string {
	return r.runID
}

// Snapshot returns a copy of the runner's current view. Safe for concurrent use.
func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Run executes cycles until ctx is cancelled or the transport fails.
// Cancellation is a clean exit and returns nil.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("simulator started",
		"state", r.state.ID,
		"interval", r.interval,
		"drain", r.drain,
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if err := r.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			r.logger.Error("simulator stopped", "err", err)
			return err
		}

		select {
		case <-ctx.Done():
			r.logger.Info("simulator stopped", "state", r.state.ID, "reason", context.Cause(ctx))
			return nil
		case <-ticker.C:
		}
	}

	r.logger.Info("simulator stopped", "state", r.state.ID, "reason", context.Cause(ctx))
	return nil
}

// Cycle performs one poll: it consumes one message (or all of them when draining),
// or feeds a Tick when none is queued, and sends the resulting messages in order.
func (r *Runner) Cycle(ctx context.Context) error {
	received := false
	for {
		payload, err := r.transport.TryReceive(ctx)
		if errors.Is(err, domain.ErrTransportEmpty) {
			break
		}
		if err != nil {
			return fmt.Errorf("receive: %w", err)
		}

		received = true
		if err := r.handle(ctx, payload); err != nil {
			return err
		}
		if !r.drain {
			break
		}
	}

	if !received {
		if err := r.advance(ctx, domain.Tick()); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.snap.Cycles++
	r.mu.Unlock()
	return nil
}

func (r *Runner) handle(ctx context.Context, payload []byte) error {
	at := r.now()
	r.mu.Lock()
	r.snap.LastInput = &at
	r.mu.Unlock()

	msg, err := codec.Decode(payload)
	if err != nil {
		r.logger.WarnContext(ctx, "discarding undecodable message",
			"state", r.state.ID,
			"payload", string(payload),
			"err", err,
		)
		r.reject(ctx, err)
		return nil
	}

	r.mu.Lock()
	r.snap.Received++
	r.mu.Unlock()
	if r.hooks.OnReceive != nil {
		r.hooks.OnReceive(ctx, &domain.MessageEvent{
			EventBase: r.base(domain.EventReceive, r.state.ID),
			Kind:      msg.Kind(),
			Payload:   payload,
		})
	}

	return r.advance(ctx, domain.Received(msg))
}

func (r *Runner) advance(ctx context.Context, in domain.Input) error {
	from := r.state
	next, effects, err := r.engine.Step(ctx, from, in)
	if errors.Is(err, domain.ErrProtocolMismatch) || errors.Is(err, domain.ErrDecode) {
		r.logger.WarnContext(ctx, "ignoring message", "state", from.ID, "err", err)
		r.reject(ctx, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("step: %w", err)
	}

	r.mu.Lock()
	r.state = next
	r.snap.State = next
	r.mu.Unlock()

	prev := from.ID
	for _, out := range effects {
		payload := codec.Encode(out)
		if err := r.transport.Send(ctx, payload); err != nil {
			return fmt.Errorf("send %s: %w", out.State, err)
		}
		r.logger.InfoContext(ctx, "sent", "state", out.State, "reason", out.Reason)

		r.mu.Lock()
		r.snap.Sent++
		r.mu.Unlock()
		if r.hooks.OnSend != nil {
			r.hooks.OnSend(ctx, &domain.MessageEvent{
				EventBase: r.base(domain.EventSend, domain.StateID(out.State)),
				Payload:   payload,
			})
		}

		prev = r.transition(ctx, prev, domain.StateID(out.State), in.IsTick())
	}
	if prev != next.ID {
		r.transition(ctx, prev, next.ID, in.IsTick())
	}
	return nil
}

// transition reports a move between two states and returns the destination.
func (r *Runner) transition(ctx context.Context, from, to domain.StateID, tick bool) domain.StateID {
	r.logger.DebugContext(ctx, "transition", "from", from, "to", to)
	if r.hooks.OnTransition != nil {
		r.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: r.base(domain.EventTransition, to),
			From:      from,
			To:        to,
			Tick:      tick,
		})
	}
	return to
}

func (r *Runner) reject(ctx context.Context, err error) {
	r.mu.Lock()
	r.snap.Rejected++
	r.mu.Unlock()
	if r.hooks.OnReject != nil {
		r.hooks.OnReject(ctx, &domain.RejectEvent{
			EventBase: r.base(domain.EventReject, r.state.ID),
			Err:       err,
		})
	}
}

func (r *Runner) base(kind domain.EventType, state domain.StateID) domain.EventBase {
	return domain.EventBase{Timestamp: r.now(), Type: kind, State: state}
}
