package main

import (
	"fmt"

	"github.com/aretw0/wheelsim/internal/presentation/graph"
	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the state diagram",
	Long:  `Outputs a Mermaid diagram (stateDiagram-v2) of the controller protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var overlay *graph.GraphOverlay
		if current, _ := cmd.Flags().GetString("highlight"); current != "" {
			overlay = &graph.GraphOverlay{Current: domain.StateID(current)}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(domain.Protocol, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("highlight", "", "state to highlight, e.g. MOVING")
}
