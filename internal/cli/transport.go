package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/wheelsim/internal/config"
	"github.com/aretw0/wheelsim/pkg/adapters/redis"
	"github.com/aretw0/wheelsim/pkg/adapters/zmq"
	"github.com/aretw0/wheelsim/pkg/ports"
)

// OpenChair opens the controller side of the configured channel.
func OpenChair(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.Transport, error) {
	switch cfg.Transport {
	case config.TransportZMQ:
		t, err := zmq.Bind(ctx, cfg.Endpoint, zmq.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		logger.Info("listening for BCI", "transport", cfg.Transport, "endpoint", t.Endpoint())
		return t, nil
	case config.TransportRedis:
		t, err := redis.Connect(ctx, cfg.RedisURL, redis.WithPrefix(cfg.RedisPrefix), redis.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		lease, err := t.Claim(ctx, cfg.ClaimTTL)
		if err != nil {
			_ = t.Close()
			return nil, err
		}
		inbox, outbox := t.Keys()
		logger.Info("listening for BCI", "transport", cfg.Transport, "inbox", inbox, "outbox", outbox)
		return &claimedTransport{Transport: t, lease: lease}, nil
	}
	return nil, fmt.Errorf("%w: transport %q has no external peer, try `wheelsim demo`", config.ErrInvalidConfig, cfg.Transport)
}

// OpenBCI opens the peer side of the configured channel.
func OpenBCI(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.Transport, error) {
	switch cfg.Transport {
	case config.TransportZMQ:
		return zmq.Dial(ctx, DialEndpoint(cfg.Endpoint), zmq.WithLogger(logger))
	case config.TransportRedis:
		t, err := redis.Connect(ctx, cfg.RedisURL, redis.WithPrefix(cfg.RedisPrefix))
		if err != nil {
			return nil, err
		}
		return &peerTransport{Transport: t.Peer(), owner: t}, nil
	}
	return nil, fmt.Errorf("%w: transport %q has no external peer, try `wheelsim demo`", config.ErrInvalidConfig, cfg.Transport)
}

// DialEndpoint turns a bind address into one a client can connect to.
func DialEndpoint(bind string) string {
	return strings.Replace(bind, "://*:", "://localhost:", 1)
}

// claimedTransport fails every call once the controller claim is lost and gives the
// claim up on Close.
type claimedTransport struct {
	*redis.Transport
	lease *redis.Lease
}

func (c *claimedTransport) TryReceive(ctx context.Context) ([]byte, error) {
	if err := c.lease.Err(); err != nil {
		return nil, err
	}
	return c.Transport.TryReceive(ctx)
}

func (c *claimedTransport) Send(ctx context.Context, payload []byte) error {
	if err := c.lease.Err(); err != nil {
		return err
	}
	return c.Transport.Send(ctx, payload)
}

func (c *claimedTransport) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return errors.Join(c.lease.Release(ctx), c.Transport.Close())
}

// peerTransport closes the connection it was derived from.
type peerTransport struct {
	*redis.Transport
	owner *redis.Transport
}

func (p *peerTransport) Close() error {
	return p.owner.Close()
}
