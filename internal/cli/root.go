package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/tutorbook/internal/model"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	DBPath     string

	// Clock and IDs override the wall clock and UUID ids (for testing).
	Clock model.Clock
	IDs   model.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tutorbook CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tutorbook",
		Short: "tutorbook - records and ledger for a tutoring center",
		Long: `Local-first records and ledger store for a tutoring center.

Students, teachers, classes and attendance live in one document, kept either
in a user-chosen data file or in the local fallback database. Invoices,
payroll and the student balance ledger are derived from that document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ./tutorbook.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to the local SQLite database (overrides config)")

	cmd.AddCommand(newStudentCommand(opts))
	cmd.AddCommand(newTeacherCommand(opts))
	cmd.AddCommand(newClassCommand(opts))
	cmd.AddCommand(newAttendanceCommand(opts))
	cmd.AddCommand(newInvoiceCommand(opts))
	cmd.AddCommand(newPayrollCommand(opts))
	cmd.AddCommand(newLedgerCommand(opts))
	cmd.AddCommand(newReportCommand(opts))
	cmd.AddCommand(newBackupCommand(opts))
	cmd.AddCommand(newStorageCommand(opts))
	cmd.AddCommand(newClearCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
