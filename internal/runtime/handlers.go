package runtime

import (
	"context"

	"github.com/aretw0/wheelsim/pkg/domain"
)

// idle only leaves on the connection handshake.
func (e *Engine) idle(current domain.State, in domain.Input) (domain.State, []domain.Outbound, error) {
	if in.IsTick() {
		return current, nil, nil
	}
	if in.Message.Kind() != domain.KindConnected {
		return current, nil, mismatch(current, domain.BCIConnected, in.Message)
	}
	return domain.Enter(domain.StateStopped), []domain.Outbound{
		domain.Announce(domain.StateStopped, domain.ReasonWaiting),
	}, nil
}

func (e *Engine) stopped(current domain.State, in domain.Input) (domain.State, []domain.Outbound, error) {
	if in.IsTick() {
		// Room for sensor polling and keep-alives.
		return current, nil, nil
	}
	if in.Message.Kind() != domain.KindMoveTo {
		return current, nil, malformed(current, "MoveTo", in.Message)
	}
	node := *in.Message.MoveTo
	return domain.MovingTo(node), []domain.Outbound{
		domain.AnnounceNode(domain.StateMoving, node, domain.ReasonRequested),
	}, nil
}

func (e *Engine) moving(ctx context.Context, current domain.State, in domain.Input) (domain.State, []domain.Outbound, error) {
	if in.IsTick() {
		leg := current.Leg
		leg.Elapsed++
		if !leg.DestinationReached {
			leg.DestinationReached = e.device.DestinationReached(ctx, leg)
		}
		if !leg.DestinationReached {
			return domain.State{ID: domain.StateMoving, Leg: leg}, nil, nil
		}
		e.logger.Debug("destination reached", "node", leg.Target, "ticks", leg.Elapsed)
		next, effects := e.finish()
		return next, effects, nil
	}

	switch in.Message.Kind() {
	case domain.KindStop:
		reason := in.Message.Reason
		if reason == "" {
			reason = domain.ReasonStopped
		}
		return domain.Enter(domain.StateStopped), []domain.Outbound{
			domain.Announce(domain.StateStopped, reason),
		}, nil
	case domain.KindMoveTo:
		node := *in.Message.MoveTo
		e.logger.Debug("redirecting", "from", current.Leg.Target, "to", node)
		return domain.MovingTo(node), []domain.Outbound{
			domain.AnnounceNode(domain.StateMoving, node, domain.ReasonRedirected),
		}, nil
	}
	return current, nil, mismatch(current, domain.BCIStop+" or MoveTo", in.Message)
}

// finish is the Finished state's only behaviour: announce arrival and settle in Stopped.
func (e *Engine) finish() (domain.State, []domain.Outbound) {
	effects := []domain.Outbound{domain.Announce(domain.StateFinished, domain.ReasonReached)}
	if e.announceStop {
		effects = append(effects, domain.Announce(domain.StateStopped, domain.ReasonWaiting))
	}
	return domain.Enter(domain.StateStopped), effects
}
