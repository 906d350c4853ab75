package memory

import (
	"context"
	"sync"

	"github.com/aretw0/wheelsim/pkg/domain"
)

// queue is an unbounded FIFO of messages.
type queue struct {
	mu    sync.Mutex
	items [][]byte
}

func (q *queue) push(payload []byte) {
	msg := make([]byte, len(payload))
	copy(msg, payload)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, msg)
}

func (q *queue) pop() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	msg := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return msg, true
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Endpoint is one side of an in-memory pipe. It implements ports.Transport.
// Safe for concurrent use.
type Endpoint struct {
	inbox  *queue
	outbox *queue

	mu     sync.RWMutex
	closed bool
}

// NewPipe returns two connected endpoints: what one sends, the other receives.
func NewPipe() (local, peer *Endpoint) {
	a, b := &queue{}, &queue{}
	return &Endpoint{inbox: a, outbox: b}, &Endpoint{inbox: b, outbox: a}
}

// TryReceive pops the oldest message sent by the other side.
func (e *Endpoint) TryReceive(ctx context.Context) ([]byte, error) {
	if err := e.check(ctx); err != nil {
		return nil, err
	}
	msg, ok := e.inbox.pop()
	if !ok {
		return nil, domain.ErrTransportEmpty
	}
	return msg, nil
}

// Send queues a copy of payload for the other side.
func (e *Endpoint) Send(ctx context.Context, payload []byte) error {
	if err := e.check(ctx); err != nil {
		return err
	}
	e.outbox.push(payload)
	return nil
}

// Pending returns the number of messages waiting to be received on this side.
func (e *Endpoint) Pending() int {
	return e.inbox.len()
}

// Close marks the endpoint unusable.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *Endpoint) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return domain.ErrTransportClosed
	}
	return nil
}
