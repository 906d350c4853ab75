package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/wheelsim/pkg/domain"
)

// StreamBuffer is the per-subscriber backlog before events are dropped.
const StreamBuffer = 16

type subscriber struct {
	ch    chan string
	watch map[domain.EventType]bool
}

// StreamManager fans lifecycle events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[*subscriber]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a listener for the given event types (all when empty).
// The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(types []domain.EventType) (<-chan string, func()) {
	sub := &subscriber{ch: make(chan string, StreamBuffer)}
	if len(types) > 0 {
		sub.watch = make(map[domain.EventType]bool, len(types))
		for _, t := range types {
			sub.watch[t] = true
		}
	}

	sm.mu.Lock()
	sm.subscribers[sub] = struct{}{}
	sm.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, sub)
			close(sub.ch)
		})
	}
}

// Subscribers returns the number of active listeners.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends msg to every subscriber watching kind. Slow subscribers lose it.
func (sm *StreamManager) Broadcast(kind domain.EventType, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for sub := range sm.subscribers {
		if sub.watch != nil && !sub.watch[kind] {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping event", "type", kind)
		}
	}
}

// Hooks publishes every lifecycle event as JSON.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReceive: func(_ context.Context, e *domain.MessageEvent) {
			sm.publish(e.Type, messageView(e))
		},
		OnReject: func(_ context.Context, e *domain.RejectEvent) {
			sm.publish(e.Type, struct {
				domain.EventBase
				Error string `json:"error"`
			}{e.EventBase, e.Err.Error()})
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			sm.publish(e.Type, e)
		},
		OnSend: func(_ context.Context, e *domain.MessageEvent) {
			sm.publish(e.Type, messageView(e))
		},
	}
}

// messageView renders the payload as embedded JSON rather than base64.
func messageView(e *domain.MessageEvent) any {
	view := struct {
		domain.EventBase
		Kind    domain.MessageKind `json:"kind,omitempty"`
		Payload json.RawMessage    `json:"payload,omitempty"`
	}{EventBase: e.EventBase, Kind: e.Kind}
	if json.Valid(e.Payload) {
		view.Payload = e.Payload
	}
	return view
}

func (sm *StreamManager) publish(kind domain.EventType, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sm.logger.Error("SSE: encode event", "err", err)
		return
	}
	sm.Broadcast(kind, string(data))
}

func parseWatch(raw string) []domain.EventType {
	var types []domain.EventType
	for _, field := range strings.Split(raw, ",") {
		if field = strings.TrimSpace(field); field != "" {
			types = append(types, domain.EventType(field))
		}
	}
	return types
}
