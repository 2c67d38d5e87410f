package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/tutorbook/internal/model"
)

func newAttendanceCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Record and clear attendance",
	}
	cmd.AddCommand(newAttendanceSetCommand(opts))
	cmd.AddCommand(newAttendanceClearDateCommand(opts))
	cmd.AddCommand(newAttendanceClearMonthCommand(opts))
	return cmd
}

func newAttendanceSetCommand(opts *RootOptions) *cobra.Command {
	var (
		classID string
		date    string
		marks   map[string]string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the marks of one class meeting",
		Long: `Replace every mark of one class meeting with the given ones.

Example:
  tutorbook attendance set --class C002 --date 2024-05-07 --mark S001=PRESENT --mark S002=LATE`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			students := make([]string, 0, len(marks))
			for id := range marks {
				students = append(students, id)
			}
			slices.Sort(students)
			records := make([]model.AttendanceRecord, 0, len(students))
			for _, id := range students {
				records = append(records, model.AttendanceRecord{
					ClassID:   classID,
					StudentID: id,
					Date:      date,
					Status:    model.AttendanceStatus(marks[id]),
				})
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.store.ReplaceAttendance(ctx, records); err != nil {
					return a.fail("failed to set attendance", err)
				}
				return a.out.Success(fmt.Sprintf("Recorded %d marks for %s on %s", len(records), classID, date))
			})
		},
	}
	cmd.Flags().StringVar(&classID, "class", "", "class id")
	cmd.Flags().StringVar(&date, "date", "", "meeting date (YYYY-MM-DD)")
	cmd.Flags().StringToStringVar(&marks, "mark", nil, "student=STATUS (repeatable)")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newAttendanceClearDateCommand(opts *RootOptions) *cobra.Command {
	var classID, date string
	cmd := &cobra.Command{
		Use:   "clear-date",
		Short: "Delete the marks of one class meeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.store.DeleteAttendanceForDate(ctx, classID, date); err != nil {
					return a.fail("failed to clear attendance", err)
				}
				return a.out.Success(fmt.Sprintf("Cleared attendance for %s on %s", classID, date))
			})
		},
	}
	cmd.Flags().StringVar(&classID, "class", "", "class id")
	cmd.Flags().StringVar(&date, "date", "", "meeting date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newAttendanceClearMonthCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-month <YYYY-MM>",
		Short: "Delete every mark dated in a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonth(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.store.DeleteAttendanceByMonth(ctx, month); err != nil {
					return a.fail("failed to clear attendance", err)
				}
				return a.out.Success(fmt.Sprintf("Cleared attendance for %s", month))
			})
		},
	}
}
