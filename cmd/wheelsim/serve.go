package main

import (
	"github.com/aretw0/wheelsim/internal/cli"
	"github.com/aretw0/wheelsim/pkg/runner"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulated onboard controller",
	Long: `Starts the controller loop: it waits for the BCI on the configured transport,
polls for one message per cycle and replies with its state changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()

		return cli.Serve(signals.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Duration("interval", 0, "poll interval (default 1s)")
	serveCmd.Flags().Bool("drain", false, "handle every queued message each cycle")
	serveCmd.Flags().String("status-addr", "", "serve /healthz, /status, /metrics and /events on this address")
	addSimulationFlags(serveCmd)
}
