package main

import (
	"fmt"

	"github.com/aretw0/wheelsim/internal/presentation/tui"
	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/spf13/cobra"
)

var protocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Describe the controller protocol",
	RunE: func(cmd *cobra.Command, args []string) error {
		md := tui.ProtocolMarkdown(domain.Protocol)
		if raw, _ := cmd.Flags().GetBool("markdown"); raw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}

		style, _ := cmd.Flags().GetString("style")
		render, err := tui.NewRenderer(style, 100)
		if err != nil {
			return err
		}
		out, err := render(md)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(protocolCmd)
	protocolCmd.Flags().Bool("markdown", false, "print the raw markdown")
	protocolCmd.Flags().String("style", "auto", "glamour style: auto, dark, light or notty")
}
