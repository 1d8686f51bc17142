package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "corestate",
		Short: "Reactive state stores with effects for Go",
		Long: `Corestate is a small generic state-store-with-effects engine.

A store owns one state value, applies synchronous changes through a pure
reducer, and folds asynchronous work (timers, debounced watchers,
cross-store subscriptions) back into the same reducer as actions. All
mutation is serialized on a single loop per store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		demoCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
