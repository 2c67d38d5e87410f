package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tutorbook/internal/model"
	"github.com/roach88/tutorbook/internal/store"
)

type studentFlags struct {
	ID         string
	Name       string
	Phone      string
	ParentName string
	Email      string
	Status     string
	Classes    []string
}

func (f *studentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ID, "id", "", "student id")
	cmd.Flags().StringVar(&f.Name, "name", "", "full name")
	cmd.Flags().StringVar(&f.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&f.ParentName, "parent", "", "parent name")
	cmd.Flags().StringVar(&f.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&f.Status, "status", "", "ACTIVE or INACTIVE")
	cmd.Flags().StringSliceVar(&f.Classes, "class", nil, "enrolled class id (repeatable)")
}

// apply copies every flag set on cmd onto st.
func (f *studentFlags) apply(cmd *cobra.Command, st *model.Student) {
	if changed(cmd, "id") {
		st.ID = f.ID
	}
	if changed(cmd, "name") {
		st.Name = f.Name
	}
	if changed(cmd, "phone") {
		st.Phone = f.Phone
	}
	if changed(cmd, "parent") {
		st.ParentName = f.ParentName
	}
	if changed(cmd, "email") {
		st.Email = f.Email
	}
	if changed(cmd, "status") {
		st.Status = model.PersonStatus(f.Status)
	}
}

func newStudentCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Manage students",
	}
	cmd.AddCommand(newStudentAddCommand(opts))
	cmd.AddCommand(newStudentUpdateCommand(opts))
	cmd.AddCommand(newStudentDeleteCommand(opts))
	cmd.AddCommand(newStudentListCommand(opts))
	return cmd
}

func newStudentAddCommand(opts *RootOptions) *cobra.Command {
	flags := &studentFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a student and enroll them in classes",
		Long: `Add a student with a zero balance and enroll them in classes.

Example:
  tutorbook student add --id S010 --name "Le Van C" --class C001 --class C002`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				var st model.Student
				flags.apply(cmd, &st)
				if err := a.store.AddStudent(ctx, st, flags.Classes); err != nil {
					return a.fail("failed to add student", err)
				}
				return a.out.Render(st, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added student %s\n", st.ID)
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

func newStudentUpdateCommand(opts *RootOptions) *cobra.Command {
	flags := &studentFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a student; --id renames and every record follows",
		Long: `Update a student. Only the flags given change.

Renaming with --id moves attendance, invoices, progress reports, transactions
and class memberships to the new id. --class replaces the memberships;
without it the current classes are kept.

Example:
  tutorbook student update S002 --id S020 --phone 0901000000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				agg, err := a.store.Load(ctx)
				if err != nil {
					return a.fail("failed to load", err)
				}
				st, ok := store.Find(agg, store.Students, args[0])
				if !ok {
					return a.fail("failed to update student", model.NewNotFoundError(model.CollStudents, args[0]))
				}
				classes := flags.Classes
				if !changed(cmd, "class") {
					classes = classesOf(agg, args[0])
				}
				flags.apply(cmd, &st)
				if err := a.store.UpdateStudent(ctx, args[0], st, classes); err != nil {
					return a.fail("failed to update student", err)
				}
				return a.out.Render(st, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Updated student %s\n", st.ID)
					return err
				})
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newStudentDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a student with their attendance, invoices, reports and transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.store.DeleteStudent(ctx, args[0]); err != nil {
					return a.fail("failed to delete student", err)
				}
				return a.out.Success(fmt.Sprintf("Deleted student %s", args[0]))
			})
		},
	}
}

func newStudentListCommand(opts *RootOptions) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				agg, err := a.store.Load(ctx)
				if err != nil {
					return a.fail("failed to load", err)
				}
				students := make([]model.Student, 0, len(agg.Students))
				for _, st := range agg.Students {
					if status == "" || string(st.Status) == status {
						students = append(students, st)
					}
				}
				return a.out.Render(students, func(io.Writer) error {
					rows := make([][]string, 0, len(students))
					for _, st := range students {
						rows = append(rows, []string{st.ID, st.Name, string(st.Status), a.ledger.FormatAmount(st.Balance)})
					}
					return a.out.Table([]string{"ID", "NAME", "STATUS", "BALANCE"}, rows)
				})
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only students with this status")
	return cmd
}

// classesOf returns the ids of the classes studentID belongs to.
func classesOf(agg *model.Aggregate, studentID string) []string {
	var ids []string
	for _, c := range agg.Classes {
		if c.HasStudent(studentID) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
