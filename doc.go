/*
Package wheelsim simulates a wheelchair's onboard controller talking to a Brain-Computer
Interface (BCI) peer.

The controller is a small deterministic state machine (Idle, Stopped, Moving, Finished)
driven once per polling cycle: either by a JSON command received from the BCI or, when
nothing arrived, by a tick that lets the current state do background work such as checking
whether the chair reached its destination. Every step returns the next state together with
the status messages to send back; the engine itself performs no I/O.

# Usage

	eng := wheelsim.New(wheelsim.WithDevice(sim.NewDevice(5)))
	state := eng.Start()

	state, replies, err := eng.Step(ctx, state, domain.Received(domain.Inbound{State: "CONNECTED"}))
	// replies: [{"State":"STOPPED","Reason":"Waiting for direction"}]

The runner package wires an Engine to a ports.Transport (ZeroMQ, Redis or an in-memory
pipe) and drives it on a fixed interval.
*/
package wheelsim
