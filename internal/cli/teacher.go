package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tutorbook/internal/model"
	"github.com/roach88/tutorbook/internal/store"
)

type teacherFlags struct {
	ID         string
	Name       string
	Status     string
	SalaryType string
	Rate       string
	Phone      string
	Email      string
}

func (f *teacherFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ID, "id", "", "teacher id")
	cmd.Flags().StringVar(&f.Name, "name", "", "full name")
	cmd.Flags().StringVar(&f.Status, "status", "", "ACTIVE or INACTIVE")
	cmd.Flags().StringVar(&f.SalaryType, "salary-type", "", "MONTHLY or PER_SESSION")
	cmd.Flags().StringVar(&f.Rate, "rate", "", "monthly salary or per-session rate")
	cmd.Flags().StringVar(&f.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&f.Email, "email", "", "contact email")
}

func (f *teacherFlags) apply(cmd *cobra.Command, t *model.Teacher) error {
	if changed(cmd, "id") {
		t.ID = f.ID
	}
	if changed(cmd, "name") {
		t.Name = f.Name
	}
	if changed(cmd, "status") {
		t.Status = model.PersonStatus(f.Status)
	}
	if changed(cmd, "salary-type") {
		t.SalaryType = model.SalaryType(f.SalaryType)
	}
	if changed(cmd, "rate") {
		rate, err := parseAmount("rate", f.Rate)
		if err != nil {
			return err
		}
		t.Rate = rate
	}
	if changed(cmd, "phone") {
		t.Phone = f.Phone
	}
	if changed(cmd, "email") {
		t.Email = f.Email
	}
	return nil
}

func newTeacherCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teacher",
		Short: "Manage teachers",
	}
	cmd.AddCommand(newTeacherAddCommand(opts))
	cmd.AddCommand(newTeacherUpdateCommand(opts))
	cmd.AddCommand(newTeacherDeleteCommand(opts))
	return cmd
}

func newTeacherAddCommand(opts *RootOptions) *cobra.Command {
	flags := &teacherFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a teacher",
		Long: `Add a teacher.

Example:
  tutorbook teacher add --id T003 --name "Tran Thi D" --salary-type PER_SESSION --rate 250000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var t model.Teacher
			if err := flags.apply(cmd, &t); err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.store.AddTeacher(ctx, t); err != nil {
					return a.fail("failed to add teacher", err)
				}
				return a.out.Render(t, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added teacher %s\n", t.ID)
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

func newTeacherUpdateCommand(opts *RootOptions) *cobra.Command {
	flags := &teacherFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a teacher; --id renames and classes and payrolls follow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				t, err := store.Get(ctx, a.store, store.Teachers, args[0])
				if err != nil {
					return a.fail("failed to update teacher", err)
				}
				if err := flags.apply(cmd, &t); err != nil {
					return err
				}
				if err := a.store.UpdateTeacher(ctx, args[0], t); err != nil {
					return a.fail("failed to update teacher", err)
				}
				return a.out.Render(t, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Updated teacher %s\n", t.ID)
					return err
				})
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newTeacherDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a teacher, their class assignments and payrolls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.store.DeleteTeacher(ctx, args[0]); err != nil {
					return a.fail("failed to delete teacher", err)
				}
				return a.out.Success(fmt.Sprintf("Deleted teacher %s", args[0]))
			})
		},
	}
}
