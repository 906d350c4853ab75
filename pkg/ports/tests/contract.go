package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/aretw0/wheelsim/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TransportFactory creates a connected pair: messages sent on peer arrive on local and
// messages sent on local arrive on peer.
type TransportFactory func(t *testing.T) (local, peer ports.Transport)

// DeliveryTimeout bounds how long the suite waits for a message to cross a transport.
var DeliveryTimeout = 5 * time.Second

// TransportContractTest is a reusable test suite that verifies if an adapter complies with ports.Transport.
func TransportContractTest(t *testing.T, factory TransportFactory) {
	t.Helper()
	ctx := context.Background()

	t.Run("Empty_Receive", func(t *testing.T) {
		local, _ := factory(t)
		_, err := local.TryReceive(ctx)
		assert.ErrorIs(t, err, domain.ErrTransportEmpty)
	})

	t.Run("Peer_To_Local", func(t *testing.T) {
		local, peer := factory(t)
		require.NoError(t, peer.Send(ctx, []byte(`{"State":"CONNECTED"}`)))
		assert.Equal(t, `{"State":"CONNECTED"}`, string(ReceiveEventually(t, local)))

		_, err := local.TryReceive(ctx)
		assert.ErrorIs(t, err, domain.ErrTransportEmpty, "message must be consumed once")
	})

	t.Run("Local_To_Peer", func(t *testing.T) {
		local, peer := factory(t)
		require.NoError(t, local.Send(ctx, []byte(`{"State":"STOPPED"}`)))
		assert.Equal(t, `{"State":"STOPPED"}`, string(ReceiveEventually(t, peer)))
	})

	t.Run("Ordered_Discrete_Messages", func(t *testing.T) {
		local, peer := factory(t)
		for i := range 5 {
			require.NoError(t, peer.Send(ctx, fmt.Appendf(nil, `{"MoveTo":%d}`, i)))
		}
		for i := range 5 {
			assert.Equal(t, fmt.Sprintf(`{"MoveTo":%d}`, i), string(ReceiveEventually(t, local)))
		}
	})

	t.Run("Send_After_Close", func(t *testing.T) {
		local, _ := factory(t)
		require.NoError(t, local.Close())
		assert.Error(t, local.Send(ctx, []byte(`{}`)))
	})
}

// ReceiveEventually polls tr until a message arrives or DeliveryTimeout elapses.
func ReceiveEventually(t *testing.T, tr ports.Transport) []byte {
	t.Helper()
	var payload []byte
	require.Eventually(t, func() bool {
		msg, err := tr.TryReceive(context.Background())
		if err != nil {
			if !errors.Is(err, domain.ErrTransportEmpty) {
				t.Errorf("receive failed: %v", err)
			}
			return false
		}
		payload = msg
		return true
	}, DeliveryTimeout, 5*time.Millisecond)
	return payload
}
