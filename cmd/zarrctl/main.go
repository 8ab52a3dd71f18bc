// Command zarrctl is a small command-line tool for creating and
// inspecting Zarr hierarchies against a chosen store backend. It is
// ambient tooling layered on top of the zarr package's public API; the
// core library itself defines no CLI surface.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliConfig holds the flags shared by every subcommand.
type cliConfig struct {
	storeSpec string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	cfg := &cliConfig{}

	root := &cobra.Command{
		Use:   "zarrctl",
		Short: "Inspect and manipulate Zarr v2 hierarchies",
	}
	root.PersistentFlags().StringVar(&cfg.storeSpec, "store", "mem://",
		`store backend: "mem://", "local://<dir>", or "s3://<endpoint>/<bucket>"`)
	root.PersistentFlags().BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newGroupCmd(cfg),
		newArrayCmd(cfg),
		newLsCmd(cfg),
		newAttrsCmd(cfg),
		newInfoCmd(cfg),
	)
	return root
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
