package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

func newReportCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "month <YYYY-MM>",
		Short: "Summarize revenue, expenses, invoicing and debt for a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonth(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				summary, err := a.ledger.MonthlySummary(ctx, month)
				if err != nil {
					return a.fail("failed to build report", err)
				}
				return a.out.Render(summary, func(w io.Writer) error {
					return a.ledger.WriteSummary(w, summary)
				})
			})
		},
	})
	return cmd
}
