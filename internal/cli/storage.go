package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newStorageCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Inspect and move the storage backend",
	}
	cmd.AddCommand(newStorageStatusCommand(opts))
	cmd.AddCommand(newStorageToFileCommand(opts))
	cmd.AddCommand(newStorageToFallbackCommand(opts))
	cmd.AddCommand(newStorageResetCommand(opts))
	return cmd
}

func newStorageStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which backend serves the data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				res, err := a.store.Backend(ctx)
				if err != nil {
					return a.fail("failed to resolve backend", err)
				}
				return a.out.Render(res, func(w io.Writer) error {
					if res.Handle != "" {
						_, err := fmt.Fprintf(w, "Backend: %s (%s)\n", res.Kind, res.Handle)
						return err
					}
					_, err := fmt.Fprintf(w, "Backend: %s (%s)\n", res.Kind, a.cfg.DBPath)
					return err
				})
			})
		},
	}
}

func newStorageToFileCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "to-file <path>",
		Short: "Move the data into a data file",
		Long: `Copy the current data into a data file and use it from now on.
Requires file_handles to be enabled in the configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.store.MigrateToFile(ctx, args[0]); err != nil {
					return a.fail("failed to migrate", err)
				}
				return a.out.Success(fmt.Sprintf("Data moved to %s", args[0]))
			})
		},
	}
}

func newStorageToFallbackCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "to-fallback",
		Short: "Move the data back into the local database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.store.MigrateToFallback(ctx); err != nil {
					return a.fail("failed to migrate", err)
				}
				return a.out.Success("Data moved to the local database")
			})
		},
	}
}

func newStorageResetCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all data and reload the sample dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, "refusing to reset without --yes")
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.store.Reset(ctx); err != nil {
					return a.fail("failed to reset", err)
				}
				return a.out.Success("Storage reset to sample data")
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm")
	return cmd
}
