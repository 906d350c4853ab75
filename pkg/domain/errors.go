package domain

import "errors"

// ErrTransportEmpty is returned by a non-blocking receive when nothing is queued.
// It is the normal "tick" outcome, not a failure.
var ErrTransportEmpty = errors.New("no message available")

// ErrDecode is wrapped by every wire decoding failure.
var ErrDecode = errors.New("malformed message")

// ErrProtocolMismatch is returned when a well-formed message is not valid in the current state.
var ErrProtocolMismatch = errors.New("message not accepted in current state")

// ErrTransportClosed is returned when using a transport after Close.
var ErrTransportClosed = errors.New("transport closed")
