package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tutorbook/internal/ledger"
	"github.com/roach88/tutorbook/internal/store"
)

func newLedgerCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Adjust, edit and audit student balances",
	}
	cmd.AddCommand(newLedgerAdjustCommand(opts))
	cmd.AddCommand(newLedgerEditCommand(opts))
	cmd.AddCommand(newLedgerDeleteCommand(opts))
	cmd.AddCommand(newLedgerAuditCommand(opts))
	cmd.AddCommand(newLedgerClearCommand(opts))
	return cmd
}

func newLedgerAdjustCommand(opts *RootOptions) *cobra.Command {
	var studentID, amount, direction, date, description string
	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Post a manual credit or debit",
		Long: `Post a manual credit or debit to a student's balance.

A credit is recorded as a PAYMENT; a debit as ADJUSTMENT_DEBIT.

Example:
  tutorbook ledger adjust --student S002 --amount 400000 --direction credit --description "Cash"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			adj := ledger.Adjustment{
				StudentID:   studentID,
				Amount:      amt,
				Direction:   ledger.Direction(strings.ToUpper(direction)),
				Date:        date,
				Description: description,
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				tx, err := a.ledger.AddAdjustment(ctx, adj)
				if err != nil {
					return a.fail("failed to post adjustment", err)
				}
				return a.out.Render(tx, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Posted %s %s to %s\n", tx.ID, a.ledger.FormatAmount(tx.Amount), tx.StudentID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "student id")
	cmd.Flags().StringVar(&amount, "amount", "", "positive amount")
	cmd.Flags().StringVar(&direction, "direction", "credit", "credit or debit")
	cmd.Flags().StringVar(&date, "date", "", "transaction date (default today)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	_ = cmd.MarkFlagRequired("student")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newLedgerEditCommand(opts *RootOptions) *cobra.Command {
	var studentID, amount, date, description string
	cmd := &cobra.Command{
		Use:   "edit <transaction-id>",
		Short: "Edit a transaction and move the balance by the difference",
		Long: `Edit a transaction. Only the flags given change. Amounts are signed:
negative charges, positive credits. A paired invoice is not updated; run
"tutorbook ledger audit" to list invoices left out of step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				tx, err := store.Get(ctx, a.store, store.Transactions, args[0])
				if err != nil {
					return a.fail("failed to edit transaction", err)
				}
				if changed(cmd, "amount") {
					amt, err := parseAmount("amount", amount)
					if err != nil {
						return err
					}
					tx.Amount = amt
				}
				if changed(cmd, "student") {
					tx.StudentID = studentID
				}
				if changed(cmd, "date") {
					tx.Date = date
				}
				if changed(cmd, "description") {
					tx.Description = description
				}
				if err := a.ledger.EditTransaction(ctx, tx); err != nil {
					return a.fail("failed to edit transaction", err)
				}
				return a.out.Render(tx, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Updated transaction %s\n", tx.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "owning student id")
	cmd.Flags().StringVar(&amount, "amount", "", "signed amount")
	cmd.Flags().StringVar(&date, "date", "", "transaction date")
	cmd.Flags().StringVar(&description, "description", "", "description")
	return cmd
}

func newLedgerDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction and reverse it on the balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.ledger.DeleteTransaction(ctx, args[0]); err != nil {
					return a.fail("failed to delete transaction", err)
				}
				return a.out.Success(fmt.Sprintf("Deleted transaction %s", args[0]))
			})
		},
	}
}

func newLedgerAuditCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check every balance against its transactions",
		Long: `Check every balance against the sum of its transactions.

Exit codes:
  0 - Ledger is consistent
  1 - Drift, orphaned transactions or unsynced invoices found`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				report, err := a.ledger.Audit(ctx)
				if err != nil {
					return a.fail("failed to audit ledger", err)
				}
				if err := a.out.Render(report, func(w io.Writer) error {
					return writeAudit(w, a.ledger, report)
				}); err != nil {
					return err
				}
				if !report.OK() {
					return NewExitError(ExitFailure, "ledger audit found problems")
				}
				return nil
			})
		},
	}
}

func writeAudit(w io.Writer, e *ledger.Engine, r ledger.AuditReport) error {
	if r.OK() {
		_, err := fmt.Fprintln(w, "✓ Ledger is consistent")
		return err
	}
	for _, d := range r.Drifts {
		fmt.Fprintf(w, "✗ %s: balance %s, transactions sum to %s\n", d.StudentID, e.FormatAmount(d.Balance), e.FormatAmount(d.Expected))
	}
	for _, id := range r.Orphans {
		fmt.Fprintf(w, "✗ transaction %s belongs to no student\n", id)
	}
	for _, id := range r.UnsyncedInvoices {
		fmt.Fprintf(w, "✗ invoice %s no longer matches its transaction\n", id)
	}
	return nil
}

func newLedgerClearCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction and invoice and zero every balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, "refusing to clear the ledger without --yes")
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.ledger.ClearAllTransactions(ctx); err != nil {
					return a.fail("failed to clear ledger", err)
				}
				return a.out.Success("Ledger cleared")
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm")
	return cmd
}
