package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newBackupCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and restore backups",
	}
	cmd.AddCommand(newBackupExportCommand(opts))
	cmd.AddCommand(newBackupRestoreCommand(opts))
	return cmd
}

func newBackupExportCommand(opts *RootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full document as a backup",
		Long: `Write the full document as a backup, to stdout or a file.

Example:
  tutorbook backup export -o backup-2024-05.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				data, err := a.store.Export(ctx)
				if err != nil {
					return a.fail("failed to export", err)
				}
				if output == "" {
					_, err := cmd.OutOrStdout().Write(append(data, '\n'))
					return err
				}
				if err := os.WriteFile(output, data, 0644); err != nil {
					return WrapExitError(ExitCommandError, "failed to write backup", err)
				}
				return a.out.Success(fmt.Sprintf("Wrote backup to %s", output))
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newBackupRestoreCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Merge a backup into the current data",
		Long: `Merge a backup into the current data. Records are matched by id and
the backup wins; records only present locally are kept. Collections missing
from the backup are left alone. Use "-" to read the backup from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read backup", err)
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.store.Restore(ctx, data); err != nil {
					return a.fail("failed to restore", err)
				}
				return a.out.Success("Backup restored")
			})
		},
	}
}
