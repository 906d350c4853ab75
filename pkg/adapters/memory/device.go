package memory

import (
	"context"
	"sync/atomic"

	"github.com/aretw0/wheelsim/pkg/domain"
)

// Device is a DeviceStatus whose arrival is switched by hand.
type Device struct {
	reached atomic.Bool
}

// NewDevice creates a device that has not arrived.
func NewDevice() *Device {
	return &Device{}
}

// Arrive makes every following query report arrival.
func (d *Device) Arrive() {
	d.reached.Store(true)
}

// Reset clears the arrival flag.
func (d *Device) Reset() {
	d.reached.Store(false)
}

// DestinationReached implements ports.DeviceStatus.
func (d *Device) DestinationReached(_ context.Context, _ domain.Leg) bool {
	return d.reached.Load()
}
