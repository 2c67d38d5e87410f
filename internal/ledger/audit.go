package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roach88/tutorbook/internal/model"
)

// Drift is a student whose stored balance disagrees with its transactions.
type Drift struct {
	StudentID string
	Balance   decimal.Decimal
	Expected  decimal.Decimal
}

// AuditReport is the result of Audit.
type AuditReport struct {
	Drifts []Drift

	// Orphans are transactions whose student no longer exists.
	Orphans []string

	// UnsyncedInvoices are UNPAID invoices whose INVOICE transaction no
	// longer charges the invoice amount, typically after a manual edit.
	UnsyncedInvoices []string
}

// OK reports whether the audit found nothing.
func (r AuditReport) OK() bool {
	return len(r.Drifts) == 0 && len(r.Orphans) == 0 && len(r.UnsyncedInvoices) == 0
}

// Audit recomputes every balance from the transactions and reports
// disagreements. It never modifies the store.
func (e *Engine) Audit(ctx context.Context) (AuditReport, error) {
	agg, err := e.store.Load(ctx)
	if err != nil {
		return AuditReport{}, fmt.Errorf("audit: %w", err)
	}
	return audit(agg), nil
}

func audit(agg *model.Aggregate) AuditReport {
	sums := make(map[string]decimal.Decimal, len(agg.Students))
	for _, st := range agg.Students {
		sums[st.ID] = decimal.Zero
	}
	var r AuditReport
	for _, t := range agg.Transactions {
		sum, ok := sums[t.StudentID]
		if !ok {
			r.Orphans = append(r.Orphans, t.ID)
			continue
		}
		sums[t.StudentID] = sum.Add(t.Amount)
	}
	for _, st := range agg.Students {
		if want := sums[st.ID]; !st.Balance.Equal(want) {
			r.Drifts = append(r.Drifts, Drift{StudentID: st.ID, Balance: st.Balance, Expected: want})
		}
	}
	for _, inv := range agg.Invoices {
		if inv.Status != model.InvoiceUnpaid {
			continue
		}
		tx := invoiceTransaction(agg, inv.ID)
		if tx == nil || !tx.Amount.Equal(inv.Amount.Neg()) {
			r.UnsyncedInvoices = append(r.UnsyncedInvoices, inv.ID)
		}
	}
	return r
}
