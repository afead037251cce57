package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "arbiter",
	Short: "Arbiter - client-embedded rate limiting and experimentation engine",
	Long: `Arbiter is a client-embedded decision engine that answers rate-limit and
experiment questions in-process, without a decision service round trip.

It ships as a Go library plus this companion CLI, providing:
  - Sliding-window rate limiting with burst detection
  - Adaptive limits derived from observed user behavior
  - Deterministic variant assignment and feature flags
  - Thompson-Sampling bandit selection
  - Two-proportion significance testing

For more information, visit: https://github.com/arbiter-hq/arbiter`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "arbiter.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
