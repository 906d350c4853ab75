package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/wheelsim/pkg/domain"
)

// DebugHooks logs every lifecycle event at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReceive: func(ctx context.Context, e *domain.MessageEvent) {
			logger.DebugContext(ctx, "received", "state", e.State, "kind", e.Kind, "payload", string(e.Payload))
		},
		OnReject: func(ctx context.Context, e *domain.RejectEvent) {
			logger.DebugContext(ctx, "rejected", "state", e.State, "reason", RejectReason(e.Err))
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.DebugContext(ctx, "transition", "from", e.From, "to", e.To, "tick", e.Tick)
		},
		OnSend: func(ctx context.Context, e *domain.MessageEvent) {
			logger.DebugContext(ctx, "sent", "state", e.State, "payload", string(e.Payload))
		},
	}
}
