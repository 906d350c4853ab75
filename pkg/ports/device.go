package ports

import (
	"context"

	"github.com/aretw0/wheelsim/pkg/domain"
)

// DeviceStatus reports the progress of the motion controller.
// The engine queries it on every tick while Moving.
type DeviceStatus interface {
	// DestinationReached reports whether the chair has arrived at leg.Target.
	// leg.Elapsed already counts the tick being processed.
	DestinationReached(ctx context.Context, leg domain.Leg) bool
}

// DeviceStatusFunc adapts a plain function to DeviceStatus.
type DeviceStatusFunc func(ctx context.Context, leg domain.Leg) bool

// DestinationReached implements DeviceStatus.
func (f DeviceStatusFunc) DestinationReached(ctx context.Context, leg domain.Leg) bool {
	return f(ctx, leg)
}
