package domain

// StateID names one of the machine's states.
type StateID string

const (
	StateIdle     StateID = "IDLE"     // Waiting for the BCI handshake
	StateStopped  StateID = "STOPPED"  // Connected, chair at rest
	StateMoving   StateID = "MOVING"   // Driving towards a node
	StateFinished StateID = "FINISHED" // Transient, collapsed into the step that reached the node
)

// States lists every StateID in declaration order.
var States = []StateID{StateIdle, StateStopped, StateMoving, StateFinished}

// Resting reports whether the state may be current between two steps.
// StateFinished is never resting.
func (s StateID) Resting() bool {
	switch s {
	case StateIdle, StateStopped, StateMoving:
		return true
	}
	return false
}

func (s StateID) String() string {
	return string(s)
}

// Leg is the movement in progress while the machine is Moving.
type Leg struct {
	// Target is the node the chair was asked to reach.
	Target int `json:"target"`

	// Elapsed counts the ticks spent on this leg.
	Elapsed int `json:"elapsed"`

	// DestinationReached latches once the device reports arrival.
	DestinationReached bool `json:"destination_reached"`
}

// State represents the current snapshot of the machine.
// Leg is only meaningful when ID == StateMoving and is zero otherwise.
type State struct {
	ID  StateID `json:"state"`
	Leg Leg     `json:"leg"`
}

// NewState creates the initial state.
func NewState() State {
	return State{ID: StateIdle}
}

// Enter returns a state with the given ID and an empty leg.
func Enter(id StateID) State {
	return State{ID: id}
}

// MovingTo returns a Moving state heading to target with fresh progress.
func MovingTo(target int) State {
	return State{ID: StateMoving, Leg: Leg{Target: target}}
}
