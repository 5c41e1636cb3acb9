package main

import (
	"github.com/aretw0/stochclock/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the clock in the terminal",
	Long: `Starts the realtime clock. Each tick prints the new state in its colour;
the white state also clicks. Press q, Esc or Ctrl-C to stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := commonOptions(cmd)
		if err != nil {
			return err
		}
		o.Ticks, _ = cmd.Flags().GetUint64("ticks")
		o.RedisAddr, _ = cmd.Flags().GetString("redis")
		o.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
		o.Bell, _ = cmd.Flags().GetBool("bell")
		o.NoColor, _ = cmd.Flags().GetBool("no-color")
		o.NoBanner, _ = cmd.Flags().GetBool("no-banner")

		return cli.RunClock(cmd.Context(), o)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Uint64("ticks", 0, "stop after this many ticks (0 runs until quit)")
	runCmd.Flags().String("redis", "", "publish every tick to this Redis address")
	runCmd.Flags().String("metrics-addr", "", "serve /metrics and the live views on this address")
	runCmd.Flags().Bool("bell", false, "ring the terminal bell on the white tick")
	runCmd.Flags().Bool("no-color", false, "print plain lines")
	runCmd.Flags().Bool("no-banner", false, "skip the banner")

	// 'run' is the default if no command is provided.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
