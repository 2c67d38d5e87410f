package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/tutorbook/internal/model"
)

// InvoiceRun reports what a GenerateInvoices call changed.
type InvoiceRun struct {
	Month   model.Month
	Created []string // new invoice ids
	Updated []string // UNPAID invoices whose amount moved
}

// charge is the computed bill for one student.
type charge struct {
	total   decimal.Decimal
	details string
}

// GenerateInvoices bills every active student for month.
//
// MONTHLY and PER_COURSE classes charge the flat fee; PER_SESSION classes
// charge the rate for each PRESENT or LATE mark in the month. A student
// without an invoice for the month and a positive total gets a new UNPAID
// invoice and a matching INVOICE transaction. An existing UNPAID invoice is
// corrected by the difference only; PAID and CANCELLED invoices are left
// alone. Re-running with unchanged data changes nothing.
func (e *Engine) GenerateInvoices(ctx context.Context, month model.Month) (InvoiceRun, error) {
	run := InvoiceRun{Month: month}
	err := e.store.Update(ctx, func(agg *model.Aggregate) error {
		run.Created, run.Updated = nil, nil
		today := e.store.Today()
		for _, st := range agg.Students {
			if st.Status != model.StatusActive {
				continue
			}
			c := e.charge(agg, st.ID, month)
			inv := findInvoice(agg, st.ID, month)
			switch {
			case inv != nil:
				if inv.Status != model.InvoiceUnpaid || inv.Amount.Equal(c.total) {
					continue
				}
				delta := c.total.Sub(inv.Amount)
				inv.Amount = c.total
				inv.Details = c.details
				adjustBalance(agg, st.ID, delta.Neg())
				if tx := invoiceTransaction(agg, inv.ID); tx != nil {
					tx.Amount = c.total.Neg()
				}
				run.Updated = append(run.Updated, inv.ID)
			case c.total.IsPositive():
				id := e.store.IDs().NewID(model.PrefixInvoice)
				agg.Invoices = append(agg.Invoices, model.Invoice{
					ID:            id,
					StudentID:     st.ID,
					StudentName:   st.Name,
					Month:         month.String(),
					Amount:        c.total,
					Details:       c.details,
					Status:        model.InvoiceUnpaid,
					GeneratedDate: today,
				})
				agg.Transactions = append(agg.Transactions, model.Transaction{
					ID:               e.store.IDs().NewID(model.PrefixTransaction),
					StudentID:        st.ID,
					Date:             today,
					Type:             model.TxInvoice,
					Description:      fmt.Sprintf("Tuition invoice %d/%d", int(month.Month), month.Year),
					Amount:           c.total.Neg(),
					RelatedInvoiceID: id,
				})
				adjustBalance(agg, st.ID, c.total.Neg())
				run.Created = append(run.Created, id)
			}
		}
		return nil
	})
	if err != nil {
		return InvoiceRun{}, fmt.Errorf("generate invoices %s: %w", month, err)
	}
	e.logger.Info("invoices generated", "month", month.String(), "created", len(run.Created), "updated", len(run.Updated))
	return run, nil
}

// charge computes a student's bill and its breakdown for month.
func (e *Engine) charge(agg *model.Aggregate, studentID string, month model.Month) charge {
	total := decimal.Zero
	var lines []string
	for _, cls := range agg.Classes {
		if !cls.HasStudent(studentID) {
			continue
		}
		switch cls.Fee.Type {
		case model.FeeMonthly, model.FeePerCourse:
			if cls.Fee.Amount.IsPositive() {
				total = total.Add(cls.Fee.Amount)
				lines = append(lines, fmt.Sprintf("- %s: %s", cls.Name, e.FormatAmount(cls.Fee.Amount)))
			}
		case model.FeePerSession:
			n := attendedSessions(agg, studentID, cls.ID, month)
			if n == 0 {
				continue
			}
			fee := cls.Fee.Amount.Mul(decimal.NewFromInt(int64(n)))
			total = total.Add(fee)
			lines = append(lines, fmt.Sprintf("- %s: %d sessions x %s = %s",
				cls.Name, n, e.FormatAmount(cls.Fee.Amount), e.FormatAmount(fee)))
		}
	}
	return charge{total: total, details: strings.Join(lines, "\n")}
}

func attendedSessions(agg *model.Aggregate, studentID, classID string, month model.Month) int {
	n := 0
	for _, a := range agg.Attendance {
		if a.StudentID == studentID && a.ClassID == classID && month.Contains(a.Date) && a.Status.Attended() {
			n++
		}
	}
	return n
}

// CancelInvoice cancels an UNPAID invoice and refunds its amount to the
// student. Cancelling a CANCELLED invoice does nothing; a PAID invoice fails
// with INVALID_TRANSITION.
func (e *Engine) CancelInvoice(ctx context.Context, id string) error {
	err := e.store.Update(ctx, func(agg *model.Aggregate) error {
		inv := invoiceByID(agg, id)
		if inv == nil {
			return model.NewNotFoundError(model.CollInvoices, id)
		}
		switch inv.Status {
		case model.InvoiceCancelled:
			return errNoChange
		case model.InvoicePaid:
			return model.NewInvalidTransitionError(id, inv.Status, model.InvoiceCancelled)
		}
		inv.Status = model.InvoiceCancelled
		agg.Transactions = append(agg.Transactions, model.Transaction{
			ID:               e.store.IDs().NewID(model.PrefixTransaction),
			StudentID:        inv.StudentID,
			Date:             e.store.Today(),
			Type:             model.TxAdjustmentCredit,
			Description:      "Cancelled invoice #" + id,
			Amount:           inv.Amount,
			RelatedInvoiceID: id,
		})
		adjustBalance(agg, inv.StudentID, inv.Amount)
		return nil
	})
	return result("cancel invoice", err)
}

// MarkInvoicePaid moves an UNPAID invoice to PAID and stamps its paid date.
// Marking a PAID invoice again does nothing; a CANCELLED invoice fails with
// INVALID_TRANSITION.
func (e *Engine) MarkInvoicePaid(ctx context.Context, id string) error {
	err := e.store.Update(ctx, func(agg *model.Aggregate) error {
		inv := invoiceByID(agg, id)
		if inv == nil {
			return model.NewNotFoundError(model.CollInvoices, id)
		}
		switch inv.Status {
		case model.InvoicePaid:
			return errNoChange
		case model.InvoiceCancelled:
			return model.NewInvalidTransitionError(id, inv.Status, model.InvoicePaid)
		}
		today := e.store.Today()
		inv.Status = model.InvoicePaid
		inv.PaidDate = &today
		return nil
	})
	return result("mark invoice paid", err)
}

func findInvoice(agg *model.Aggregate, studentID string, month model.Month) *model.Invoice {
	for i := range agg.Invoices {
		if agg.Invoices[i].StudentID == studentID && agg.Invoices[i].Month == month.String() {
			return &agg.Invoices[i]
		}
	}
	return nil
}

func invoiceByID(agg *model.Aggregate, id string) *model.Invoice {
	for i := range agg.Invoices {
		if agg.Invoices[i].ID == id {
			return &agg.Invoices[i]
		}
	}
	return nil
}

// invoiceTransaction returns the INVOICE charge paired with invoiceID.
func invoiceTransaction(agg *model.Aggregate, invoiceID string) *model.Transaction {
	for i := range agg.Transactions {
		if t := &agg.Transactions[i]; t.RelatedInvoiceID == invoiceID && t.Type == model.TxInvoice {
			return t
		}
	}
	return nil
}

// ListInvoices returns the invoices of month, or every invoice when month is
// nil.
func (e *Engine) ListInvoices(ctx context.Context, month *model.Month) ([]model.Invoice, error) {
	agg, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if month == nil {
		return agg.Invoices, nil
	}
	out := []model.Invoice{}
	for _, inv := range agg.Invoices {
		if inv.Month == month.String() {
			out = append(out, inv)
		}
	}
	return out, nil
}
