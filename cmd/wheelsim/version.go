package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/wheelsim"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of wheelsim",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wheelsim version %s\n", strings.TrimSpace(wheelsim.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
