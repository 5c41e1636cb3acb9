package main

import (
	"github.com/aretw0/stochclock/internal/cli"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate minutes or a day offline",
	Long: `Runs the chain without pacing and compares how often it visited the white
state with the steady-state prediction. By default it simulates 20 one-minute
windows back to back; --day simulates 24 hours in one window.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := commonOptions(cmd)
		if err != nil {
			return err
		}
		o.Minutes, _ = cmd.Flags().GetInt("minutes")
		o.Day, _ = cmd.Flags().GetBool("day")
		o.Plain, _ = cmd.Flags().GetBool("plain")
		return cli.Simulate(cmd.Context(), o)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Int("minutes", 0, "number of one-minute windows (default from config)")
	simulateCmd.Flags().Bool("day", false, "simulate one full day")
	simulateCmd.Flags().Bool("plain", false, "print raw markdown")
	simulateCmd.MarkFlagsMutuallyExclusive("minutes", "day")
}
