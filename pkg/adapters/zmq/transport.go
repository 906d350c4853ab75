// Package zmq implements ports.Transport over a ZeroMQ PAIR socket, the channel the
// original controller firmware exposes to the BCI.
package zmq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/go-zeromq/zmq4"
)

// DefaultEndpoint is where the controller binds unless configured otherwise.
const DefaultEndpoint = "tcp://*:5556"

// DefaultBufferSize is the number of received messages held until polled.
const DefaultBufferSize = 64

// Transport is one side of a PAIR connection.
// A background goroutine receives from the socket into a buffer so TryReceive never blocks.
type Transport struct {
	sock   zmq4.Socket
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
	buffer int

	inbox chan []byte
	done  chan struct{}

	mu      sync.Mutex
	recvErr error
	closed  atomic.Bool
}

// Option configures the Transport.
type Option func(*Transport)

// WithBufferSize sets how many received messages may wait to be polled.
func WithBufferSize(n int) Option {
	return func(t *Transport) {
		if n > 0 {
			t.buffer = n
		}
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

// Bind listens on endpoint (e.g. "tcp://*:5556") as the controller side.
func Bind(ctx context.Context, endpoint string, opts ...Option) (*Transport, error) {
	t := newTransport(ctx, opts)
	if err := t.sock.Listen(endpoint); err != nil {
		t.cancel()
		_ = t.sock.Close()
		return nil, fmt.Errorf("zmq bind %s: %w", endpoint, err)
	}
	t.logger.Info("bound socket", "endpoint", endpoint)
	go t.pump()
	return t, nil
}

// Dial connects to endpoint (e.g. "tcp://localhost:5556") as the BCI side.
func Dial(ctx context.Context, endpoint string, opts ...Option) (*Transport, error) {
	t := newTransport(ctx, opts)
	if err := t.sock.Dial(endpoint); err != nil {
		t.cancel()
		_ = t.sock.Close()
		return nil, fmt.Errorf("zmq dial %s: %w", endpoint, err)
	}
	t.logger.Info("connected socket", "endpoint", endpoint)
	go t.pump()
	return t, nil
}

func newTransport(ctx context.Context, opts []Option) *Transport {
	sockCtx, cancel := context.WithCancel(ctx)
	t := &Transport{
		ctx:    sockCtx,
		cancel: cancel,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		buffer: DefaultBufferSize,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.inbox = make(chan []byte, t.buffer)
	t.sock = zmq4.NewPair(sockCtx)
	return t
}

// Endpoint returns the address the socket listens on, resolving port 0.
// It is empty for dialing transports.
func (t *Transport) Endpoint() string {
	addr := t.sock.Addr()
	if addr == nil {
		return ""
	}
	return addr.Network() + "://" + addr.String()
}

func (t *Transport) pump() {
	defer close(t.done)
	for {
		msg, err := t.sock.Recv()
		if t.closed.Load() {
			return
		}
		if errors.Is(err, io.EOF) {
			// The peer went away; PAIR waits for the next one.
			t.logger.Debug("peer disconnected")
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if err != nil {
			t.mu.Lock()
			t.recvErr = err
			t.mu.Unlock()
			return
		}
		select {
		case t.inbox <- msg.Bytes():
		case <-t.ctx.Done():
			return
		}
	}
}

// TryReceive returns the oldest buffered message without blocking.
func (t *Transport) TryReceive(ctx context.Context) ([]byte, error) {
	if t.closed.Load() {
		return nil, domain.ErrTransportClosed
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg := <-t.inbox:
		return msg, nil
	default:
	}

	t.mu.Lock()
	err := t.recvErr
	t.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("zmq receive: %w", err)
	}
	return nil, domain.ErrTransportEmpty
}

// Send writes one single-frame message to the peer.
func (t *Transport) Send(ctx context.Context, payload []byte) error {
	if t.closed.Load() {
		return domain.ErrTransportClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.sock.Send(zmq4.NewMsg(payload)); err != nil {
		return fmt.Errorf("zmq send: %w", err)
	}
	return nil
}

// Close shuts the socket down and waits for the receiver goroutine.
func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	err := t.sock.Close()
	t.cancel()
	<-t.done
	if errors.Is(err, net.ErrClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
