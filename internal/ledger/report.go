package ledger

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/roach88/tutorbook/internal/model"
)

// Summary is the financial picture of one month.
type Summary struct {
	Month model.Month

	TuitionCollected decimal.Decimal // payments and credits received, refunds excluded
	OtherIncome      decimal.Decimal
	Revenue          decimal.Decimal
	Expenses         decimal.Decimal
	Profit           decimal.Decimal

	Invoiced     decimal.Decimal // UNPAID and PAID invoices of the month
	InvoiceCount int
	UnpaidCount  int
	Provisional  decimal.Decimal // tuition due from current enrollment and attendance
	PayrollTotal decimal.Decimal
	PayrollCount int
	Outstanding  decimal.Decimal // sum of negative balances, as a positive number
	DebtorCount  int
}

// MonthlySummary computes the Summary for month.
func (e *Engine) MonthlySummary(ctx context.Context, month model.Month) (Summary, error) {
	agg, err := e.store.Load(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("monthly summary: %w", err)
	}
	return summarize(agg, month), nil
}

func summarize(agg *model.Aggregate, month model.Month) Summary {
	s := Summary{
		Month:            month,
		TuitionCollected: decimal.Zero,
		OtherIncome:      decimal.Zero,
		Expenses:         decimal.Zero,
		Invoiced:         decimal.Zero,
		Provisional:      decimal.Zero,
		PayrollTotal:     decimal.Zero,
		Outstanding:      decimal.Zero,
	}
	for _, t := range agg.Transactions {
		if isReceipt(t) && month.Contains(t.Date) {
			s.TuitionCollected = s.TuitionCollected.Add(t.Amount)
		}
	}
	for _, in := range agg.Income {
		if month.Contains(in.Date) {
			s.OtherIncome = s.OtherIncome.Add(in.Amount)
		}
	}
	for _, ex := range agg.Expenses {
		if month.Contains(ex.Date) {
			s.Expenses = s.Expenses.Add(ex.Amount)
		}
	}
	s.Revenue = s.TuitionCollected.Add(s.OtherIncome)
	s.Profit = s.Revenue.Sub(s.Expenses)

	for _, inv := range agg.Invoices {
		if inv.Month != month.String() || inv.Status == model.InvoiceCancelled {
			continue
		}
		s.Invoiced = s.Invoiced.Add(inv.Amount)
		s.InvoiceCount++
		if inv.Status == model.InvoiceUnpaid {
			s.UnpaidCount++
		}
	}
	for _, p := range agg.Payrolls {
		if p.Month == month.String() {
			s.PayrollTotal = s.PayrollTotal.Add(p.TotalSalary)
			s.PayrollCount++
		}
	}
	s.Provisional = provisional(agg, month)
	for _, st := range agg.Students {
		if st.Balance.IsNegative() {
			s.Outstanding = s.Outstanding.Add(st.Balance.Neg())
			s.DebtorCount++
		}
	}
	return s
}

// isReceipt reports whether t is money received. Cancellation refunds are
// ADJUSTMENT_CREDIT lines paired with an invoice and do not count.
func isReceipt(t model.Transaction) bool {
	if !t.Amount.IsPositive() {
		return false
	}
	switch t.Type {
	case model.TxPayment:
		return true
	case model.TxAdjustmentCredit:
		return t.RelatedInvoiceID == ""
	}
	return false
}

// provisional is the tuition active students owe for month given current
// enrollment and attendance, whether or not invoices were generated.
func provisional(agg *model.Aggregate, month model.Month) decimal.Decimal {
	active := make(map[string]bool)
	for _, st := range agg.Students {
		if st.Status == model.StatusActive {
			active[st.ID] = true
		}
	}
	total := decimal.Zero
	for _, c := range agg.Classes {
		for _, id := range c.StudentIDs {
			if !active[id] {
				continue
			}
			switch c.Fee.Type {
			case model.FeeMonthly:
				total = total.Add(c.Fee.Amount)
			case model.FeePerSession:
				n := attendedSessions(agg, id, c.ID, month)
				total = total.Add(c.Fee.Amount.Mul(decimal.NewFromInt(int64(n))))
			}
		}
	}
	return total
}

// WriteSummary renders s as an aligned two-column table.
func (e *Engine) WriteSummary(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Month", s.Month.String()},
		{"Tuition collected", e.FormatAmount(s.TuitionCollected)},
		{"Other income", e.FormatAmount(s.OtherIncome)},
		{"Revenue", e.FormatAmount(s.Revenue)},
		{"Expenses", e.FormatAmount(s.Expenses)},
		{"Profit", e.FormatAmount(s.Profit)},
		{"Invoiced", fmt.Sprintf("%s (%d invoices, %d unpaid)", e.FormatAmount(s.Invoiced), s.InvoiceCount, s.UnpaidCount)},
		{"Provisional tuition", e.FormatAmount(s.Provisional)},
		{"Payroll", fmt.Sprintf("%s (%d teachers)", e.FormatAmount(s.PayrollTotal), s.PayrollCount)},
		{"Outstanding debt", fmt.Sprintf("%s (%d students)", e.FormatAmount(s.Outstanding), s.DebtorCount)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// SummaryText is WriteSummary into a string.
func (e *Engine) SummaryText(s Summary) string {
	var b strings.Builder
	_ = e.WriteSummary(&b, s)
	return b.String()
}
