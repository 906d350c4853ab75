package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/wheelsim"
	"github.com/aretw0/wheelsim/internal/config"
	"github.com/aretw0/wheelsim/internal/presentation/tui"
	"github.com/aretw0/wheelsim/pkg/adapters/memory"
	"github.com/aretw0/wheelsim/pkg/adapters/sim"
	"github.com/aretw0/wheelsim/pkg/codec"
	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/aretw0/wheelsim/pkg/runner"
)

// demoStep either sends a message or lets a number of cycles pass.
type demoStep struct {
	note  string
	send  string
	ticks int
}

// RunDemo plays a scripted BCI session against an in-process simulator.
// delay is the pause between cycles; zero runs as fast as possible.
func RunDemo(ctx context.Context, w io.Writer, cfg config.Config, delay time.Duration, logger *slog.Logger) error {
	device := &sim.Device{ArrivalTicks: cfg.ArrivalTicks, TicksPerNode: cfg.TicksPerNode}
	engine := wheelsim.New(
		wheelsim.WithDevice(device),
		wheelsim.WithLogger(logger),
		wheelsim.WithStopAnnouncement(cfg.AnnounceStop),
	)

	local, peer := memory.NewPipe()
	defer local.Close()
	defer peer.Close()

	r := runner.New(engine, local, runner.WithLogger(logger))
	printer := tui.NewPrinter(w)

	script := []demoStep{
		{note: "the BCI announces itself", send: `{"State":"CONNECTED","Reason":"BCI ready"}`},
		{note: "ask for node 3", send: `{"MoveTo":3}`},
		{ticks: device.Duration(3)},
		{note: "a malformed request is ignored", send: `{"MoveTo":"7"}`},
		{note: "ask for node 5", send: `{"MoveTo":5}`},
		{ticks: 1},
		{note: "change of plan while moving", send: `{"MoveTo":2}`},
		{ticks: 1},
		{note: "emergency stop", send: `{"State":"STOP","Reason":"Obstacle ahead"}`},
	}

	cycle := 0
	step := func() error {
		cycle++
		if err := r.Cycle(ctx); err != nil {
			return err
		}
		for {
			payload, err := peer.TryReceive(ctx)
			if errors.Is(err, domain.ErrTransportEmpty) {
				break
			}
			if err != nil {
				return err
			}
			msg, err := codec.DecodeReply(payload)
			if err != nil {
				return err
			}
			printer.Received(msg, payload)
		}
		return sleep(ctx, delay)
	}

	for _, s := range script {
		if s.note != "" {
			printer.Note("# %s", s.note)
		}
		if s.send != "" {
			if err := peer.Send(ctx, []byte(s.send)); err != nil {
				return err
			}
			printer.Sent([]byte(s.send))
			if err := step(); err != nil {
				return err
			}
		}
		for range s.ticks {
			before := r.Snapshot().State
			if err := step(); err != nil {
				return err
			}
			if before.ID == domain.StateMoving && r.Snapshot().State.ID == domain.StateMoving {
				printer.Note("  tick: moving to node %d (%d/%d)", before.Leg.Target, before.Leg.Elapsed+1, device.Duration(before.Leg.Target))
			}
		}
	}

	snap := r.Snapshot()
	printer.Note("# done after %d cycles: %d received, %d rejected, %d sent, final state %s",
		cycle, snap.Received, snap.Rejected, snap.Sent, snap.State.ID)
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
