package main

import (
	"github.com/aretw0/wheelsim/internal/cli"
	"github.com/aretw0/wheelsim/pkg/runner"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Play a scripted BCI session against an in-process simulator",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		delay, _ := cmd.Flags().GetDuration("delay")

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()

		return cli.RunDemo(signals.Context(), cmd.OutOrStdout(), cfg, delay, logger)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().Duration("delay", 0, "pause between cycles")
	addSimulationFlags(demoCmd)
}
