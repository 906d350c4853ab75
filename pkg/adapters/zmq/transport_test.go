package zmq_test

import (
	"context"
	"testing"

	"github.com/aretw0/wheelsim/pkg/adapters/zmq"
	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/aretw0/wheelsim/pkg/ports"
	"github.com/aretw0/wheelsim/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Transport = (*zmq.Transport)(nil)

// connectedPair binds on a random loopback port, dials it and waits until both sides
// see the connection.
func connectedPair(t *testing.T) (*zmq.Transport, *zmq.Transport) {
	t.Helper()
	ctx := context.Background()

	local, err := zmq.Bind(ctx, "tcp://127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })

	peer, err := zmq.Dial(ctx, local.Endpoint())
	require.NoError(t, err)
	t.Cleanup(func() { _ = peer.Close() })

	require.NoError(t, peer.Send(ctx, []byte("hello")))
	require.Equal(t, "hello", string(tests.ReceiveEventually(t, local)))
	return local, peer
}

func TestZMQTransport_Contract(t *testing.T) {
	tests.TransportContractTest(t, func(t *testing.T) (ports.Transport, ports.Transport) {
		return connectedPair(t)
	})
}

func TestZMQTransport_Endpoint(t *testing.T) {
	local, peer := connectedPair(t)
	assert.Contains(t, local.Endpoint(), "tcp://127.0.0.1:")
	assert.Empty(t, peer.Endpoint())
}

func TestZMQTransport_BindTwice(t *testing.T) {
	local, _ := connectedPair(t)
	_, err := zmq.Bind(context.Background(), local.Endpoint())
	assert.Error(t, err)
}

func TestZMQTransport_Closed(t *testing.T) {
	local, _ := connectedPair(t)
	require.NoError(t, local.Close())
	require.NoError(t, local.Close())

	_, err := local.TryReceive(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransportClosed)
}
