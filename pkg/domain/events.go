package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventReceive    EventType = "receive"
	EventReject     EventType = "reject"
	EventTransition EventType = "transition"
	EventSend       EventType = "send"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	State     StateID   `json:"state"`
}

// MessageEvent describes a message crossing the transport.
type MessageEvent struct {
	EventBase
	Kind    MessageKind `json:"kind,omitempty"`
	Payload []byte      `json:"payload,omitempty"`
}

// RejectEvent describes an input that was discarded.
type RejectEvent struct {
	EventBase
	Err error `json:"-"`
}

// TransitionEvent describes a change of state.
type TransitionEvent struct {
	EventBase
	From StateID `json:"from"`
	To   StateID `json:"to"`
	Tick bool    `json:"tick"`
}

// LifecycleHooks defines callbacks for observability.
// Any of them may be nil.
type LifecycleHooks struct {
	OnReceive    func(context.Context, *MessageEvent)
	OnReject     func(context.Context, *RejectEvent)
	OnTransition func(context.Context, *TransitionEvent)
	OnSend       func(context.Context, *MessageEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnReceive:    chain(h.OnReceive, other.OnReceive),
		OnReject:     chain(h.OnReject, other.OnReject),
		OnTransition: chain(h.OnTransition, other.OnTransition),
		OnSend:       chain(h.OnSend, other.OnSend),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
