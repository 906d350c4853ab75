package main

import (
	"fmt"
	"os"

	"github.com/aretw0/wheelsim/internal/cli"
	"github.com/aretw0/wheelsim/internal/presentation/tui"
	"github.com/aretw0/wheelsim/pkg/runner"
	"github.com/spf13/cobra"
)

var bciCmd = &cobra.Command{
	Use:   "bci",
	Short: "Talk to a running simulator as the BCI",
	Long: `Opens the BCI side of the configured transport and reads commands from stdin:
connect, move <node>, stop [reason] or raw JSON. Replies are printed as they arrive.`,
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

		transport, err := cli.OpenBCI(signals.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer transport.Close()

		out := cmd.OutOrStdout()
		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			tui.PrintBanner(out)
			fmt.Fprintln(out, cli.ConsoleHelp)
		}
		return cli.NewConsole(transport, out, cli.DefaultReplyPoll).Run(signals.Context(), os.Stdin)
	},
}

func init() {
	rootCmd.AddCommand(bciCmd)
	bciCmd.Flags().BoolP("quiet", "q", false, "skip the banner and help")
}
