package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/wheelsim"
	"github.com/aretw0/wheelsim/internal/config"
	httpAdapter "github.com/aretw0/wheelsim/pkg/adapters/http"
	"github.com/aretw0/wheelsim/pkg/adapters/sim"
	"github.com/aretw0/wheelsim/pkg/observability"
	"github.com/aretw0/wheelsim/pkg/ports"
	"github.com/aretw0/wheelsim/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Serve runs the simulator until ctx is cancelled or the transport fails.
func Serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	transport, err := OpenChair(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer transport.Close()

	return ServeTransport(ctx, cfg, transport, logger)
}

// ServeTransport runs the simulator over an already open transport.
func ServeTransport(ctx context.Context, cfg config.Config, transport ports.Transport, logger *slog.Logger) error {
	device := &sim.Device{ArrivalTicks: cfg.ArrivalTicks, TicksPerNode: cfg.TicksPerNode}
	engine := wheelsim.New(
		wheelsim.WithDevice(device),
		wheelsim.WithLogger(logger),
		wheelsim.WithStopAnnouncement(cfg.AnnounceStop),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}
	streams := httpAdapter.NewStreamManager(logger)

	r := runner.New(engine, transport,
		runner.WithLogger(logger),
		runner.WithInterval(cfg.PollInterval),
		runner.WithDrain(cfg.Drain),
		runner.WithHooks(metrics.Hooks()),
		runner.WithHooks(streams.Hooks()),
		runner.WithHooks(observability.DebugHooks(logger)),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	statusErr := make(chan error, 1)
	if cfg.StatusAddr == "" {
		statusErr <- nil
	} else {
		handler := httpAdapter.NewHandler(r,
			httpAdapter.WithMetrics(reg),
			httpAdapter.WithStreams(streams),
			httpAdapter.WithLogger(logger),
		)
		go func() {
			err := httpAdapter.Serve(ctx, cfg.StatusAddr, handler, logger)
			if err != nil {
				cancel()
			}
			statusErr <- err
		}()
	}

	runErr := r.Run(ctx)
	cancel()
	if err := <-statusErr; err != nil && runErr == nil {
		return err
	}
	return runErr
}
