package ports

import "context"

// Transport is a bidirectional, message-oriented channel to the BCI peer.
// Each call to Send delivers one complete message; each successful TryReceive
// returns one complete message.
type Transport interface {
	// TryReceive returns the next queued message without blocking.
	// It returns domain.ErrTransportEmpty when nothing is queued; any other
	// error is a failure of the channel itself.
	TryReceive(ctx context.Context) ([]byte, error)

	// Send delivers one message to the peer.
	Send(ctx context.Context, payload []byte) error

	// Close releases the channel. Subsequent calls fail.
	Close() error
}
