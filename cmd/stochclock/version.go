package main

import (
	"fmt"

	"github.com/aretw0/stochclock"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stochclock",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stochclock version %s\n", stochclock.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
