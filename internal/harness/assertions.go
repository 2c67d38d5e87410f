package harness

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/tutorbook/internal/model"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against agg and returns the
// failure messages.
func EvaluateAssertions(agg *model.Aggregate, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(agg, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %s", i, err.Error()))
		}
	}
	return failures
}

func evaluate(agg *model.Aggregate, a Assertion) error {
	switch a.Type {
	case AssertBalance:
		return assertBalance(agg, a)
	case AssertInvoice:
		return assertInvoice(agg, a)
	case AssertCount:
		return assertCount(agg, a)
	case AssertLedgerBalanced:
		return assertLedgerBalanced(agg)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertBalance(agg *model.Aggregate, a Assertion) error {
	want, err := decimal.NewFromString(a.Amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	for _, st := range agg.Students {
		if st.ID != a.Student {
			continue
		}
		if !st.Balance.Equal(want) {
			return &AssertionError{
				Type:     AssertBalance,
				Expected: fmt.Sprintf("%s balance %s", a.Student, want),
				Actual:   st.Balance.String(),
			}
		}
		return nil
	}
	return &AssertionError{Type: AssertBalance, Expected: "student " + a.Student, Actual: "not found"}
}

func assertInvoice(agg *model.Aggregate, a Assertion) error {
	for _, inv := range agg.Invoices {
		if inv.ID != a.Invoice {
			continue
		}
		if a.Status != "" && string(inv.Status) != a.Status {
			return &AssertionError{
				Type:     AssertInvoice,
				Expected: fmt.Sprintf("%s status %s", a.Invoice, a.Status),
				Actual:   string(inv.Status),
			}
		}
		if a.Amount != "" {
			want, err := decimal.NewFromString(a.Amount)
			if err != nil {
				return fmt.Errorf("amount: %w", err)
			}
			if !inv.Amount.Equal(want) {
				return &AssertionError{
					Type:     AssertInvoice,
					Expected: fmt.Sprintf("%s amount %s", a.Invoice, want),
					Actual:   inv.Amount.String(),
				}
			}
		}
		return nil
	}
	return &AssertionError{Type: AssertInvoice, Expected: "invoice " + a.Invoice, Actual: "not found"}
}

func assertCount(agg *model.Aggregate, a Assertion) error {
	c, _ := model.ParseCollection(a.Collection)
	if n := agg.Len(c); n != a.Count {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("%d %s", a.Count, a.Collection),
			Actual:   fmt.Sprintf("%d", n),
		}
	}
	return nil
}

func assertLedgerBalanced(agg *model.Aggregate) error {
	sums := make(map[string]decimal.Decimal)
	for _, t := range agg.Transactions {
		sums[t.StudentID] = sums[t.StudentID].Add(t.Amount)
	}
	var drifted []string
	for _, st := range agg.Students {
		if !st.Balance.Equal(sums[st.ID]) {
			drifted = append(drifted, fmt.Sprintf("%s balance %s, transactions %s", st.ID, st.Balance, sums[st.ID]))
		}
	}
	if len(drifted) > 0 {
		return &AssertionError{
			Type:     AssertLedgerBalanced,
			Expected: "every balance equals the sum of its transactions",
			Actual:   strings.Join(drifted, "; "),
		}
	}
	return nil
}
