package domain

// Wire values of the State field.
const (
	BCIConnected = "CONNECTED"
	BCIStop      = "STOP"
)

// Standard reasons sent back to the BCI peer.
const (
	ReasonWaiting    = "Waiting for direction"
	ReasonRequested  = "Requested by BCI"
	ReasonRedirected = "Redirected by BCI"
	ReasonReached    = "Reached requested node"
	ReasonStopped    = "Stopped by BCI"
)

// MessageKind classifies an Inbound by its shape.
type MessageKind string

const (
	KindConnected MessageKind = "connected"
	KindMoveTo    MessageKind = "move_to"
	KindStop      MessageKind = "stop"
	KindUnknown   MessageKind = "unknown"
)

// Inbound is a command received from the BCI peer.
// Absent fields are nil (pointers) or empty.
type Inbound struct {
	State  string `json:"State,omitempty" mapstructure:"State"`
	Reason string `json:"Reason,omitempty" mapstructure:"Reason"`
	MoveTo *int   `json:"MoveTo,omitempty" mapstructure:"MoveTo"`
	Node   *int   `json:"Node,omitempty" mapstructure:"Node"`
}

// Kind reports which recognised shape the message has.
// MoveTo wins over State when both are present.
func (m Inbound) Kind() MessageKind {
	switch {
	case m.MoveTo != nil:
		return KindMoveTo
	case m.State == BCIConnected:
		return KindConnected
	case m.State == BCIStop:
		return KindStop
	}
	return KindUnknown
}

// Outbound is a status message sent to the BCI peer.
type Outbound struct {
	State  string `json:"State"`
	Node   *int   `json:"Node,omitempty"`
	Reason string `json:"Reason"`
}

// Announce builds an Outbound for the given state.
func Announce(id StateID, reason string) Outbound {
	return Outbound{State: string(id), Reason: reason}
}

// AnnounceNode builds an Outbound carrying a node number.
func AnnounceNode(id StateID, node int, reason string) Outbound {
	return Outbound{State: string(id), Node: &node, Reason: reason}
}

// Input is what the engine consumes on each cycle.
// A nil Message is a Tick.
type Input struct {
	Message *Inbound
}

// Tick returns the input for a cycle in which nothing was received.
func Tick() Input {
	return Input{}
}

// Received wraps a decoded message as engine input.
func Received(msg Inbound) Input {
	return Input{Message: &msg}
}

// IsTick reports whether no message was received.
func (in Input) IsTick() bool {
	return in.Message == nil
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
