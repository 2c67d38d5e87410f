package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tutorbook/internal/model"
)

func newInvoiceCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Generate and settle tuition invoices",
	}
	cmd.AddCommand(newInvoiceGenerateCommand(opts))
	cmd.AddCommand(newInvoiceCancelCommand(opts))
	cmd.AddCommand(newInvoicePayCommand(opts))
	cmd.AddCommand(newInvoiceListCommand(opts))
	return cmd
}

func newInvoiceGenerateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <YYYY-MM>",
		Short: "Bill every active student for a month",
		Long: `Bill every active student for a month.

Running again after attendance changes corrects UNPAID invoices by the
difference; PAID and CANCELLED invoices are never touched.

Example:
  tutorbook invoice generate 2024-05`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonth(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				run, err := a.ledger.GenerateInvoices(ctx, month)
				if err != nil {
					return a.fail("failed to generate invoices", err)
				}
				return a.out.Render(run, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Invoices for %s: %d created, %d updated\n", month, len(run.Created), len(run.Updated))
					return err
				})
			})
		},
	}
}

func newInvoiceCancelCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an UNPAID invoice and refund its amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.ledger.CancelInvoice(ctx, args[0]); err != nil {
					return a.fail("failed to cancel invoice", err)
				}
				return a.out.Success(fmt.Sprintf("Cancelled invoice %s", args[0]))
			})
		},
	}
}

func newInvoicePayCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <id>",
		Short: "Mark an invoice as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.ledger.MarkInvoicePaid(ctx, args[0]); err != nil {
					return a.fail("failed to mark invoice paid", err)
				}
				return a.out.Success(fmt.Sprintf("Marked invoice %s paid", args[0]))
			})
		},
	}
}

func newInvoiceListCommand(opts *RootOptions) *cobra.Command {
	var monthFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var month *model.Month
			if monthFlag != "" {
				m, err := parseMonth(monthFlag)
				if err != nil {
					return err
				}
				month = &m
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				invoices, err := a.ledger.ListInvoices(ctx, month)
				if err != nil {
					return a.fail("failed to list invoices", err)
				}
				return a.out.Render(invoices, func(io.Writer) error {
					rows := make([][]string, 0, len(invoices))
					for _, inv := range invoices {
						rows = append(rows, []string{inv.ID, inv.StudentID, inv.Month, a.ledger.FormatAmount(inv.Amount), string(inv.Status)})
					}
					return a.out.Table([]string{"ID", "STUDENT", "MONTH", "AMOUNT", "STATUS"}, rows)
				})
			})
		},
	}
	cmd.Flags().StringVar(&monthFlag, "month", "", "only invoices of this month (YYYY-MM)")
	return cmd
}

func newPayrollCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Teacher payroll",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "generate <YYYY-MM>",
		Short: "Compute payroll for every active teacher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonth(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				payrolls, err := a.ledger.GeneratePayrolls(ctx, month)
				if err != nil {
					return a.fail("failed to generate payroll", err)
				}
				return a.out.Render(payrolls, func(io.Writer) error {
					rows := make([][]string, 0, len(payrolls))
					for _, p := range payrolls {
						rows = append(rows, []string{p.ID, p.TeacherName, fmt.Sprint(p.SessionsTaught), a.ledger.FormatAmount(p.TotalSalary)})
					}
					return a.out.Table([]string{"ID", "TEACHER", "SESSIONS", "TOTAL"}, rows)
				})
			})
		},
	})
	return cmd
}
