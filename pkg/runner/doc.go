/*
Package runner implements the driving loop of the simulator.

It acts as the bridge between the state machine (Engine) and the BCI peer. Every cycle the
runner polls the transport without blocking, decodes what arrived (or feeds a Tick when
nothing did), steps the engine and sends the returned messages in order before sleeping
for the poll interval.

# Key Components

  - Runner: owns the current state and the poll loop.
  - Stepper: the engine contract (satisfied by *wheelsim.Engine).
  - Snapshot: a read-only view of the loop, safe to read from other goroutines.

# Usage

	local, _ := memory.NewPipe()
	r := runner.New(wheelsim.New(), local,
		runner.WithInterval(time.Second),
		runner.WithLogger(logger),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
