package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// NewRootCmd creates the root command for handlescan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handlescan",
		Short: "Check handle presence across external sites",
		Long: `handlescan probes a catalog of sites for a given handle (username),
using either a plain HTTP fetch or a scripted browser visit per site, and
aggregates a presence score per handle.

Sites are grouped into categories; pick one with --category or scan them
all. Probes are paced to at least one second apart per target by default.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults plus HANDLESCAN_* env)")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
