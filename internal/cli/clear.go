package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tutorbook/internal/model"
	"github.com/roach88/tutorbook/internal/store"
)

func newClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <collection>...",
		Short: "Empty whole collections and their dependent records",
		Long: fmt.Sprintf(`Empty whole collections along with every record that depends on them.

Clearable collections: %s

Example:
  tutorbook clear students classes`, clearableNames()),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			colls := make([]model.Collection, 0, len(args))
			for _, arg := range args {
				c, ok := model.ParseCollection(arg)
				if !ok {
					return NewExitError(ExitCommandError, fmt.Sprintf("unknown collection %q", arg))
				}
				colls = append(colls, c)
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.store.ClearCollections(ctx, colls...); err != nil {
					return a.fail("failed to clear", err)
				}
				return a.out.Success(fmt.Sprintf("Cleared %s", strings.Join(args, ", ")))
			})
		},
	}
}

func clearableNames() string {
	names := make([]string, len(store.Clearable))
	for i, c := range store.Clearable {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
