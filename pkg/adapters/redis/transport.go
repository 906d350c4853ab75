package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/aretw0/wheelsim/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces the two lists used by the transport.
const DefaultPrefix = "wheelsim:"

// Transport implements ports.Transport over a pair of Redis lists.
// The BCI peer RPUSHes commands onto the inbox list and the controller LPOPs them;
// replies travel the same way on the outbox list.
type Transport struct {
	client     *backend.Client
	inbox      string
	outbox     string
	ownsClient bool
	closed     atomic.Bool
	logger     *slog.Logger
}

// Option configures the Transport.
type Option func(*Transport)

// WithPrefix sets the key prefix: lists are <prefix>bci (inbox) and <prefix>chair (outbox).
func WithPrefix(prefix string) Option {
	return func(t *Transport) {
		t.inbox = prefix + "bci"
		t.outbox = prefix + "chair"
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithKeys sets the inbox and outbox list keys explicitly.
func WithKeys(inbox, outbox string) Option {
	return func(t *Transport) {
		t.inbox = inbox
		t.outbox = outbox
	}
}

// NewFromClient creates a controller-side transport from an existing client.
// Close does not close the client.
func NewFromClient(client *backend.Client, opts ...Option) *Transport {
	t := &Transport{
		client: client,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	WithPrefix(DefaultPrefix)(t)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Connect parses a redis:// URL, checks the server is reachable and returns a
// controller-side transport owning the client.
func Connect(ctx context.Context, url string, opts ...Option) (*Transport, error) {
	connOpts, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := backend.NewClient(connOpts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis not reachable: %w", err)
	}
	t := NewFromClient(client, opts...)
	t.ownsClient = true
	return t, nil
}

// Peer returns the BCI side of the same channel: it reads the outbox and writes the inbox.
// It shares the client and never closes it.
func (t *Transport) Peer() *Transport {
	return &Transport{
		client: t.client,
		inbox:  t.outbox,
		outbox: t.inbox,
		logger: t.logger,
	}
}

// Keys returns the inbox and outbox list keys.
func (t *Transport) Keys() (inbox, outbox string) {
	return t.inbox, t.outbox
}

// TryReceive pops the oldest command without blocking.
func (t *Transport) TryReceive(ctx context.Context) ([]byte, error) {
	if t.closed.Load() {
		return nil, domain.ErrTransportClosed
	}
	payload, err := t.client.LPop(ctx, t.inbox).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrTransportEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("redis receive: %w", err)
	}
	return payload, nil
}

// Send appends a message to the outbox list.
func (t *Transport) Send(ctx context.Context, payload []byte) error {
	if t.closed.Load() {
		return domain.ErrTransportClosed
	}
	if err := t.client.RPush(ctx, t.outbox, payload).Err(); err != nil {
		return fmt.Errorf("redis send: %w", err)
	}
	return nil
}

// Close releases the transport, and the client when it was created by Connect.
func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	if t.ownsClient {
		return t.client.Close()
	}
	return nil
}
