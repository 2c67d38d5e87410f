package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roach88/tutorbook/internal/model"
)

// parseAmount parses a decimal flag or argument.
func parseAmount(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, WrapExitError(ExitCommandError, fmt.Sprintf("invalid %s %q", name, value), err)
	}
	return d, nil
}

// parseMonth parses a YYYY-MM argument.
func parseMonth(value string) (model.Month, error) {
	m, err := model.ParseMonth(value)
	if err != nil {
		return model.Month{}, WrapExitError(ExitCommandError, fmt.Sprintf("invalid month %q", value), err)
	}
	return m, nil
}

// changed reports whether a flag was set on the command line.
func changed(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Changed(name)
}
