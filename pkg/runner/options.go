package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/wheelsim/pkg/domain"
)

// DefaultInterval is the poll cadence of the onboard controller.
const DefaultInterval = time.Second

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithHooks registers lifecycle callbacks. Multiple calls are merged in order.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = r.hooks.Merge(hooks)
	}
}

// WithInterval sets the sleep between cycles. Non-positive values keep the default.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithDrain makes each cycle consume every queued message instead of only one.
// A Tick is then issued only when the queue was empty.
func WithDrain(enabled bool) Option {
	return func(r *Runner) {
		r.drain = enabled
	}
}

// WithRunID overrides the generated run identifier attached to logs.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// WithInitialState starts the loop from state instead of the engine's initial state.
func WithInitialState(state domain.State) Option {
	return func(r *Runner) {
		r.state = state
		r.hasInitial = true
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}
