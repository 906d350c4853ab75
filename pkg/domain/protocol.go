package domain

// Rule is one edge of the controller protocol, for documentation and diagrams.
type Rule struct {
	From    StateID
	Trigger string
	Effect  string
	To      StateID
}

// Protocol lists every transition the engine can take.
var Protocol = []Rule{
	{StateIdle, `{"State":"CONNECTED"}`, `STOPPED "` + ReasonWaiting + `"`, StateStopped},
	{StateStopped, `{"MoveTo":n}`, `MOVING n "` + ReasonRequested + `"`, StateMoving},
	{StateMoving, `{"State":"STOP"}`, `STOPPED (peer reason or "` + ReasonStopped + `")`, StateStopped},
	{StateMoving, `{"MoveTo":m}`, `MOVING m "` + ReasonRedirected + `"`, StateMoving},
	{StateMoving, "tick, destination reached", `FINISHED "` + ReasonReached + `"`, StateFinished},
	{StateFinished, "immediate", "none", StateStopped},
}
