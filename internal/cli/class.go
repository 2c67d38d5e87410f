package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tutorbook/internal/model"
	"github.com/roach88/tutorbook/internal/store"
)

type classFlags struct {
	ID       string
	Name     string
	FeeType  string
	Fee      string
	Students []string
	Teachers []string
	Schedule string
}

func (f *classFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ID, "id", "", "class id")
	cmd.Flags().StringVar(&f.Name, "name", "", "class name")
	cmd.Flags().StringVar(&f.FeeType, "fee-type", "", "MONTHLY, PER_SESSION or PER_COURSE")
	cmd.Flags().StringVar(&f.Fee, "fee", "", "fee amount")
	cmd.Flags().StringSliceVar(&f.Students, "student", nil, "member student id (repeatable)")
	cmd.Flags().StringSliceVar(&f.Teachers, "teacher", nil, "assigned teacher id (repeatable)")
	cmd.Flags().StringVar(&f.Schedule, "schedule", "", "free-form schedule")
}

func (f *classFlags) apply(cmd *cobra.Command, c *model.Class) error {
	if changed(cmd, "id") {
		c.ID = f.ID
	}
	if changed(cmd, "name") {
		c.Name = f.Name
	}
	if changed(cmd, "fee-type") {
		c.Fee.Type = model.FeeType(f.FeeType)
	}
	if changed(cmd, "fee") {
		fee, err := parseAmount("fee", f.Fee)
		if err != nil {
			return err
		}
		c.Fee.Amount = fee
	}
	if changed(cmd, "student") {
		c.StudentIDs = f.Students
	}
	if changed(cmd, "teacher") {
		c.TeacherIDs = f.Teachers
	}
	if changed(cmd, "schedule") {
		c.Schedule = f.Schedule
	}
	return nil
}

func newClassCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "class",
		Short: "Manage classes",
	}
	cmd.AddCommand(newClassAddCommand(opts))
	cmd.AddCommand(newClassUpdateCommand(opts))
	cmd.AddCommand(newClassDeleteCommand(opts))
	return cmd
}

func newClassAddCommand(opts *RootOptions) *cobra.Command {
	flags := &classFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a class",
		Long: `Add a class.

Example:
  tutorbook class add --id C003 --name "IELTS" --fee-type PER_SESSION --fee 150000 --teacher T002`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c model.Class
			if err := flags.apply(cmd, &c); err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.store.AddClass(ctx, c); err != nil {
					return a.fail("failed to add class", err)
				}
				return a.out.Render(c, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added class %s\n", c.ID)
					return err
				})
			})
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newClassUpdateCommand(opts *RootOptions) *cobra.Command {
	flags := &classFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a class; --id renames and attendance, reports and announcements follow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				c, err := store.Get(ctx, a.store, store.Classes, args[0])
				if err != nil {
					return a.fail("failed to update class", err)
				}
				if err := flags.apply(cmd, &c); err != nil {
					return err
				}
				if err := a.store.UpdateClass(ctx, args[0], c); err != nil {
					return a.fail("failed to update class", err)
				}
				return a.out.Render(c, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Updated class %s\n", c.ID)
					return err
				})
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newClassDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a class with its attendance, progress reports and announcements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.store.DeleteClass(ctx, args[0]); err != nil {
					return a.fail("failed to delete class", err)
				}
				return a.out.Success(fmt.Sprintf("Deleted class %s", args[0]))
			})
		},
	}
}
