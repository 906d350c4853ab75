package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// DefaultClaimTTL is how long a claim survives without renewal.
const DefaultClaimTTL = 10 * time.Second

var (
	// ErrClaimed is returned when another controller already serves the channel.
	ErrClaimed = errors.New("channel is already claimed by another controller")
	// ErrClaimLost is reported once a held claim can no longer be guaranteed.
	ErrClaimLost = errors.New("controller claim lost")
)

var (
	renewScript = backend.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("pexpire", KEYS[1], ARGV[2])
		else
			return 0
		end
	`)
	releaseScript = backend.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)
)

// ClaimKey returns the key holding the controller claim.
func (t *Transport) ClaimKey() string {
	return t.inbox + ":owner"
}

// Claim marks the inbox as served by this controller using SET NX PX, so a second
// simulator on the same keys fails fast instead of stealing commands.
// The claim is renewed every ttl/3 until released or lost.
func (t *Transport) Claim(ctx context.Context, ttl time.Duration) (*Lease, error) {
	if ttl <= 0 {
		ttl = DefaultClaimTTL
	}
	key := t.ClaimKey()
	token := uuid.NewString()

	ok, err := t.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis claim: %w", err)
	}
	if !ok {
		owner, _ := t.client.Get(ctx, key).Result()
		return nil, fmt.Errorf("%w: %s held by %s", ErrClaimed, key, owner)
	}

	renewCtx, stop := context.WithCancel(context.Background())
	l := &Lease{
		client: t.client,
		key:    key,
		token:  token,
		ttl:    ttl,
		logger: t.logger.With("key", key),
		stop:   stop,
		done:   make(chan struct{}),
		lost:   make(chan struct{}),
	}
	go l.renew(renewCtx)
	return l, nil
}

// Lease is a held controller claim.
type Lease struct {
	client *backend.Client
	key    string
	token  string
	ttl    time.Duration
	logger *slog.Logger

	stop context.CancelFunc
	done chan struct{}
	lost chan struct{}

	mu  sync.Mutex
	err error

	releaseOnce sync.Once
	releaseErr  error
}

// Lost is closed when the claim was taken over or could not be renewed in time.
func (l *Lease) Lost() <-chan struct{} {
	return l.lost
}

// Err returns an error wrapping ErrClaimLost once the claim is lost, nil before.
func (l *Lease) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Release stops renewing and deletes the claim if it is still ours.
// Safe to call more than once.
func (l *Lease) Release(ctx context.Context) error {
	l.releaseOnce.Do(func() {
		l.stop()
		<-l.done
		l.releaseErr = releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
	})
	return l.releaseErr
}

func (l *Lease) renew(ctx context.Context) {
	defer close(l.done)
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	renewed := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		n, err := renewScript.Run(ctx, l.client, []string{l.key}, l.token, l.ttl.Milliseconds()).Int64()
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			l.logger.Warn("claim renewal failed", "err", err)
			if since := time.Since(renewed); since >= l.ttl {
				l.lose(fmt.Errorf("%w: %s not renewed for %s: %w", ErrClaimLost, l.key, since.Round(time.Millisecond), err))
				return
			}
		case n == 0:
			l.lose(fmt.Errorf("%w: %s was taken over", ErrClaimLost, l.key))
			return
		default:
			renewed = time.Now()
		}
	}
}

func (l *Lease) lose(err error) {
	l.logger.Error("controller claim lost", "err", err)
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
	close(l.lost)
}
