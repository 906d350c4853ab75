/*
Package ports defines the driven ports (interfaces) of the simulator.

These interfaces decouple the state machine and its driving loop from concrete channels
and devices, so the same core can talk over ZeroMQ, Redis or an in-memory pipe, and be
tested without any of them.

# Key Interfaces

  - Transport: non-blocking receive and send of discrete wire messages.
  - DeviceStatus: reports whether the chair has reached the node it is driving to.
*/
package ports
