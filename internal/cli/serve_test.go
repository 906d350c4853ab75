package cli_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/wheelsim/internal/cli"
	"github.com/aretw0/wheelsim/internal/config"
	"github.com/aretw0/wheelsim/internal/logging"
	"github.com/aretw0/wheelsim/pkg/adapters/memory"
	"github.com/aretw0/wheelsim/pkg/adapters/redis"
	"github.com/aretw0/wheelsim/pkg/codec"
	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/aretw0/wheelsim/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() config.Config {
	cfg := config.Default()
	cfg.PollInterval = 5 * time.Millisecond
	cfg.ArrivalTicks = 1
	return cfg
}

// exchange sends msg from bci and waits for the chair's first reply.
func exchange(t *testing.T, bci ports.Transport, msg domain.Inbound) domain.Outbound {
	t.Helper()
	require.NoError(t, bci.Send(context.Background(), codec.EncodeCommand(msg)))

	var reply domain.Outbound
	require.Eventually(t, func() bool {
		payload, err := bci.TryReceive(context.Background())
		if err != nil {
			return false
		}
		reply, err = codec.DecodeReply(payload)
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)
	return reply
}

func TestServeTransport(t *testing.T) {
	chair, bci := memory.NewPipe()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- cli.ServeTransport(ctx, fastConfig(), chair, logging.NewNop())
	}()

	reply := exchange(t, bci, domain.Inbound{State: domain.BCIConnected})
	assert.Equal(t, domain.Announce(domain.StateStopped, domain.ReasonWaiting), reply)

	reply = exchange(t, bci, domain.Inbound{MoveTo: domain.IntPtr(0)})
	assert.Equal(t, string(domain.StateMoving), reply.State)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServeTransport_StatusServerFailure(t *testing.T) {
	chair, _ := memory.NewPipe()
	cfg := fastConfig()
	cfg.StatusAddr = "256.0.0.1:bad"

	err := cli.ServeTransport(context.Background(), cfg, chair, logging.NewNop())
	assert.ErrorContains(t, err, "status server")
}

func TestServe_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := fastConfig()
	cfg.Transport = config.TransportRedis
	cfg.RedisURL = "redis://" + mr.Addr()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- cli.Serve(ctx, cfg, logging.NewNop())
	}()

	bci, err := cli.OpenBCI(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer bci.Close()

	reply := exchange(t, bci, domain.Inbound{State: domain.BCIConnected, Reason: "hi"})
	assert.Equal(t, string(domain.StateStopped), reply.State)

	_, err = cli.OpenChair(context.Background(), cfg, logging.NewNop())
	assert.ErrorIs(t, err, redis.ErrClaimed)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop")
	}
	assert.False(t, mr.Exists("wheelsim:bci:owner"))
}

func TestServe_RedisClaimLost(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := fastConfig()
	cfg.Transport = config.TransportRedis
	cfg.RedisURL = "redis://" + mr.Addr()
	cfg.ClaimTTL = 30 * time.Millisecond

	done := make(chan error, 1)
	go func() {
		done <- cli.Serve(context.Background(), cfg, logging.NewNop())
	}()

	require.Eventually(t, func() bool {
		return mr.Exists("wheelsim:bci:owner")
	}, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, mr.Set("wheelsim:bci:owner", "another-simulator"))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, redis.ErrClaimLost)
	case <-time.After(2 * time.Second):
		t.Fatal("serve kept running without its claim")
	}
	got, err := mr.Get("wheelsim:bci:owner")
	require.NoError(t, err)
	assert.Equal(t, "another-simulator", got)
}

func TestOpen_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.Transport = config.TransportMemory

	_, err := cli.OpenChair(context.Background(), cfg, logging.NewNop())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	_, err = cli.OpenBCI(context.Background(), cfg, logging.NewNop())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestDialEndpoint(t *testing.T) {
	assert.Equal(t, "tcp://localhost:5556", cli.DialEndpoint("tcp://*:5556"))
	assert.Equal(t, "tcp://10.0.0.2:5556", cli.DialEndpoint("tcp://10.0.0.2:5556"))
}
