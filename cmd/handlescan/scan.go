package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/osintkit/handlescan/internal/app"
	"github.com/osintkit/handlescan/internal/registry"
	"github.com/osintkit/handlescan/internal/report"
)

// NewScanCmd creates the 'scan' subcommand.
func NewScanCmd() *cobra.Command {
	var (
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "scan <handle> [handle...]",
		Short: "Check one or more handles against a site category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), args, category, asJSON)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", fmt.Sprintf("site category to check %v (default from config)", registry.IDs()))
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit reports as JSON instead of the console view")

	return cmd
}

func runScan(ctx context.Context, handles []string, category string, asJSON bool) error {
	application, err := app.New(cfgFile)
	if err != nil {
		return err
	}
	defer application.Close()

	if category == "" {
		category = application.Config.Scanner.Category
	}
	selected, ok := registry.Lookup(category)
	if !ok {
		return fmt.Errorf("unknown category %q (choose one of %v)", category, registry.IDs())
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reports, err := application.Runner.Run(ctx, handles, selected.Sites)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run scan: %w", err)
	}

	writer := report.NewWriter(os.Stdout)
	if asJSON {
		return writer.WriteJSON(reports)
	}
	return writer.WriteReports(reports)
}
