package main

import (
	"fmt"
	"os"

	"github.com/aretw0/stochclock/internal/cli"
	"github.com/aretw0/stochclock/pkg/runner"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stochclock",
	Short: "A clock whose hand moves by chance",
	Long: `stochclock ticks four times a second through a four-state Markov chain.
State 0 is the white "second" tick with a click; states 1-3 are red, green and
blue. The clock keeps time only on average, at the speed its stationary
distribution predicts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "YAML or JSON config file")
	pf.StringSlice("env-file", nil, "dotenv files to load (default .env)")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-format", "", "text or json")
	pf.String("preset", "", "built-in matrix: reference or legacy")
	pf.Uint64("seed", 0, "seed for a reproducible run")
	pf.Float64("hz", 0, "ticks per second (overrides tick_rate)")
	pf.Duration("tick-rate", 0, "interval between ticks, e.g. 250ms")
	pf.Bool("json", false, "machine-readable output")
}

// commonOptions reads the persistent flags. Flags left unset keep the
// config file and environment values.
func commonOptions(cmd *cobra.Command) (cli.Options, error) {
	f := cmd.Flags()
	var o cli.Options

	o.ConfigPath, _ = f.GetString("config")
	o.EnvFiles, _ = f.GetStringSlice("env-file")
	o.LogLevel, _ = f.GetString("log-level")
	o.LogFormat, _ = f.GetString("log-format")
	o.Preset, _ = f.GetString("preset")
	o.JSON, _ = f.GetBool("json")

	if f.Changed("seed") {
		seed, _ := f.GetUint64("seed")
		o.Seed = &seed
	}

	o.TickRate, _ = f.GetDuration("tick-rate")
	if f.Changed("hz") {
		hz, _ := f.GetFloat64("hz")
		if hz <= 0 {
			return o, fmt.Errorf("--hz must be positive, got %v", hz)
		}
		o.TickRate = runner.RateFromHz(hz)
		if o.TickRate <= 0 {
			return o, fmt.Errorf("--hz %v is too fast", hz)
		}
	}
	if o.TickRate < 0 {
		return o, fmt.Errorf("--tick-rate must be positive, got %v", o.TickRate)
	}

	o.Stdin = cmd.InOrStdin()
	o.Stdout = cmd.OutOrStdout()
	o.Stderr = cmd.ErrOrStderr()
	return o, nil
}
