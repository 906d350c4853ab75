/*
Package domain contains the core domain models of the wheelchair protocol simulator.

It defines the fundamental entities of the state machine: the enumerated State and its
Moving payload, the Inbound commands sent by the BCI peer, the Outbound status messages
sent back, and the Input handed to the engine on every polling cycle. This package is kept
pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - State: the current StateID plus the Leg being driven while Moving.
  - Inbound: a decoded BCI command (CONNECTED, STOP or MoveTo).
  - Outbound: a status or acknowledgement message for the BCI peer.
  - Input: either a Tick (nothing received this cycle) or a received Inbound.
*/
package domain
