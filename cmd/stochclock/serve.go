package main

import (
	"github.com/aretw0/stochclock/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the clock headless behind an HTTP server",
	Long: `Runs the clock without terminal output and exposes /health, /info, /report,
/visits, /events (server-sent events) and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := commonOptions(cmd)
		if err != nil {
			return err
		}
		o.HTTPAddr, _ = cmd.Flags().GetString("addr")
		o.RedisAddr, _ = cmd.Flags().GetString("redis")
		o.Ticks, _ = cmd.Flags().GetUint64("ticks")
		return cli.Serve(cmd.Context(), o)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().String("redis", "", "publish every tick to this Redis address")
	serveCmd.Flags().Uint64("ticks", 0, "stop after this many ticks (0 runs until a signal)")
}
