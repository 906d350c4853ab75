/*
Package observability provides tools for monitoring the simulator.

It turns the runner's lifecycle hooks into Prometheus metrics (messages received, rejected
and sent, transitions, current state) and into structured debug logs.
*/
package observability
