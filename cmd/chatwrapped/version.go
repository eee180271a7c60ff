package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/chatwrapped/internal/appupdate"
	"github.com/janekbaraniewski/chatwrapped/internal/version"
)

func newVersionCommand() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			if !check {
				return nil
			}
			return printUpdateStatus(cmd.Context(), cmd, appupdate.Check)
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}

func printUpdateStatus(ctx context.Context, cmd *cobra.Command, check updateCheckFunc) error {
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := check(ctx, appupdate.CheckOptions{CurrentVersion: version.Version})
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}
	out := cmd.OutOrStdout()
	switch {
	case result.CurrentVersion == "":
		fmt.Fprintln(out, "Development build, skipping update check.")
	case result.UpdateAvailable:
		fmt.Fprintf(out, "Update available: %s → %s\n", result.CurrentVersion, result.LatestVersion)
		fmt.Fprintf(out, "  %s\n", result.UpgradeHint)
	default:
		fmt.Fprintf(out, "Up to date (%s).\n", result.CurrentVersion)
	}
	return nil
}
