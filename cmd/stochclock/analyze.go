package main

import (
	"github.com/aretw0/stochclock/internal/cli"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print the steady-state report",
	Long:  `Raises the transition matrix to a high power and reports the stationary distribution, the clock speed and the expected drift per day.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := commonOptions(cmd)
		if err != nil {
			return err
		}
		o.Plain, _ = cmd.Flags().GetBool("plain")
		o.Graph, _ = cmd.Flags().GetBool("graph")
		return cli.Analyze(o)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().Bool("plain", false, "print raw markdown")
	analyzeCmd.Flags().Bool("graph", false, "append a Mermaid diagram of the chain")
}
