// Package sim provides simulated hardware for the controller.
package sim

import (
	"context"

	"github.com/aretw0/wheelsim/pkg/domain"
)

// Device simulates the motion controller by counting ticks.
// A leg to node n completes after ArrivalTicks + TicksPerNode*|n| ticks.
type Device struct {
	ArrivalTicks int
	TicksPerNode int
}

// NewDevice creates a device that arrives after a fixed number of ticks.
func NewDevice(arrivalTicks int) *Device {
	return &Device{ArrivalTicks: arrivalTicks}
}

// Duration returns how many ticks the leg to target takes.
func (d *Device) Duration(target int) int {
	if target < 0 {
		target = -target
	}
	return d.ArrivalTicks + d.TicksPerNode*target
}

// DestinationReached implements ports.DeviceStatus.
func (d *Device) DestinationReached(_ context.Context, leg domain.Leg) bool {
	return leg.Elapsed >= d.Duration(leg.Target)
}
