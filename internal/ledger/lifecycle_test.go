package ledger_test

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tutorbook/internal/ledger"
	"github.com/roach88/tutorbook/internal/model"
	"github.com/roach88/tutorbook/internal/store"
)

func TestGeneratePayrolls(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	april := month(t, 4, 2024)

	rows, err := fx.engine.GeneratePayrolls(ctx, april)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	monthly, perSession := rows[0], rows[1]
	assert.Equal(t, "PAY-T001-2024-04", monthly.ID)
	assert.Equal(t, "8000000", monthly.TotalSalary.String())
	assert.Equal(t, "8000000", monthly.BaseSalary.String())
	assert.Zero(t, monthly.SessionsTaught)

	assert.Equal(t, "PAY-T002-2024-04", perSession.ID)
	assert.Equal(t, 4, perSession.SessionsTaught, "sessions count class meetings, not attendees")
	assert.Equal(t, "1200000", perSession.TotalSalary.String())
	assert.True(t, perSession.BaseSalary.IsZero())
	assert.Equal(t, "2024-05-15", perSession.CalculationDate)
}

func TestGeneratePayrolls_RerunOverwrites(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	april := month(t, 4, 2024)

	_, err := fx.engine.GeneratePayrolls(ctx, april)
	require.NoError(t, err)
	require.NoError(t, fx.Store.DeleteAttendanceForDate(ctx, "C002", "2024-04-23"))
	fx.Clock.AddDays(1)
	_, err = fx.engine.GeneratePayrolls(ctx, april)
	require.NoError(t, err)

	agg := fx.load(t)
	require.Len(t, agg.Payrolls, 2)
	p, ok := store.Find(agg, store.Payrolls, "PAY-T002-2024-04")
	require.True(t, ok)
	assert.Equal(t, 3, p.SessionsTaught)
	assert.Equal(t, "900000", p.TotalSalary.String())
	assert.Equal(t, "2024-05-16", p.CalculationDate)
}

func TestCancelInvoice(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	require.NoError(t, fx.engine.CancelInvoice(ctx, "INV-SEED-002"))

	agg := fx.load(t)
	inv, _ := store.Find(agg, store.Invoices, "INV-SEED-002")
	assert.Equal(t, model.InvoiceCancelled, inv.Status)
	tx, ok := store.Find(agg, store.Transactions, "TRX-0001")
	require.True(t, ok)
	assert.Equal(t, model.TxAdjustmentCredit, tx.Type)
	assert.Equal(t, "400000", tx.Amount.String())
	assert.Equal(t, "INV-SEED-002", tx.RelatedInvoiceID)
	assert.Equal(t, "0", fx.balance(t, "S002"))
	fx.requireBalanced(t)

	t.Run("again is a no-op", func(t *testing.T) {
		require.NoError(t, fx.engine.CancelInvoice(ctx, "INV-SEED-002"))
		assert.Len(t, fx.load(t).Transactions, 4)
		assert.Equal(t, "0", fx.balance(t, "S002"))
	})
	t.Run("paid invoice", func(t *testing.T) {
		err := fx.engine.CancelInvoice(ctx, "INV-SEED-001")
		require.Error(t, err)
		assert.True(t, model.IsInvalidTransition(err))
	})
	t.Run("unknown invoice", func(t *testing.T) {
		assert.True(t, model.IsNotFound(fx.engine.CancelInvoice(ctx, "INV-404")))
	})
	t.Run("cancelled cannot be paid", func(t *testing.T) {
		assert.True(t, model.IsInvalidTransition(fx.engine.MarkInvoicePaid(ctx, "INV-SEED-002")))
	})
}

func TestMarkInvoicePaid(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	require.NoError(t, fx.engine.MarkInvoicePaid(ctx, "INV-SEED-002"))
	inv, _ := store.Find(fx.load(t), store.Invoices, "INV-SEED-002")
	assert.Equal(t, model.InvoicePaid, inv.Status)
	require.NotNil(t, inv.PaidDate)
	assert.Equal(t, "2024-05-15", *inv.PaidDate)
	assert.Equal(t, "-400000", fx.balance(t, "S002"), "marking paid moves no money")

	fx.Clock.AddDays(3)
	require.NoError(t, fx.engine.MarkInvoicePaid(ctx, "INV-SEED-002"))
	inv, _ = store.Find(fx.load(t), store.Invoices, "INV-SEED-002")
	assert.Equal(t, "2024-05-15", *inv.PaidDate)

	assert.True(t, model.IsInvalidTransition(fx.engine.CancelInvoice(ctx, "INV-SEED-002")))
	assert.True(t, model.IsNotFound(fx.engine.MarkInvoicePaid(ctx, "INV-404")))
}

func TestAddAdjustment(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	credit, err := fx.engine.AddAdjustment(ctx, ledger.Adjustment{
		StudentID: "S002", Amount: decimal.NewFromInt(150000), Direction: ledger.Credit, Description: "Cash",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TxPayment, credit.Type)
	assert.Equal(t, "150000", credit.Amount.String())
	assert.Equal(t, "2024-05-15", credit.Date)

	debit, err := fx.engine.AddAdjustment(ctx, ledger.Adjustment{
		StudentID: "S001", Amount: decimal.NewFromInt(50000), Direction: ledger.Debit, Date: "2024-05-20", Description: "Late fee",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TxAdjustmentDebit, debit.Type)
	assert.Equal(t, "-50000", debit.Amount.String())

	assert.Equal(t, "-250000", fx.balance(t, "S002"))
	assert.Equal(t, "-50000", fx.balance(t, "S001"))
	fx.requireBalanced(t)
}

func TestAddAdjustment_Rejects(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	tests := []struct {
		name  string
		adj   ledger.Adjustment
		check func(error) bool
	}{
		{"unknown student", ledger.Adjustment{StudentID: "S404", Amount: decimal.NewFromInt(1), Direction: ledger.Credit}, model.IsNotFound},
		{"zero amount", ledger.Adjustment{StudentID: "S001", Amount: decimal.Zero, Direction: ledger.Credit}, model.IsInvalidRecord},
		{"negative amount", ledger.Adjustment{StudentID: "S001", Amount: decimal.NewFromInt(-5), Direction: ledger.Debit}, model.IsInvalidRecord},
		{"bad direction", ledger.Adjustment{StudentID: "S001", Amount: decimal.NewFromInt(5), Direction: "REFUND"}, model.IsInvalidRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.engine.AddAdjustment(ctx, tt.adj)
			require.Error(t, err)
			assert.True(t, tt.check(err), "%v", err)
		})
	}
	assert.Len(t, fx.load(t).Transactions, 3)
}

func TestEditTransaction(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	tx, err := store.Get(ctx, fx.Store, store.Transactions, "TRX-SEED-002")
	require.NoError(t, err)
	tx.Amount = decimal.NewFromInt(1000000)
	require.NoError(t, fx.engine.EditTransaction(ctx, tx))
	assert.Equal(t, "-500000", fx.balance(t, "S001"))
	fx.requireBalanced(t)

	tx.ID = "TRX-404"
	assert.True(t, model.IsNotFound(fx.engine.EditTransaction(ctx, tx)))
}

func TestEditTransaction_MovesBetweenStudents(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	tx, err := store.Get(ctx, fx.Store, store.Transactions, "TRX-SEED-002")
	require.NoError(t, err)
	tx.StudentID = "S002"
	require.NoError(t, fx.engine.EditTransaction(ctx, tx))

	assert.Equal(t, "-1500000", fx.balance(t, "S001"))
	assert.Equal(t, "1100000", fx.balance(t, "S002"))
	fx.requireBalanced(t)
}

func TestEditTransaction_UnknownStudentRejected(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	before := fx.balance(t, "S001")

	tx, err := store.Get(ctx, fx.Store, store.Transactions, "TRX-SEED-002")
	require.NoError(t, err)
	tx.StudentID = "S404"
	tx.Amount = decimal.NewFromInt(1)
	err = fx.engine.EditTransaction(ctx, tx)
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
	assert.Contains(t, err.Error(), "S404")

	stored, err := store.Get(ctx, fx.Store, store.Transactions, "TRX-SEED-002")
	require.NoError(t, err)
	assert.Equal(t, "S001", stored.StudentID)
	assert.Equal(t, before, fx.balance(t, "S001"))
	fx.requireBalanced(t)
}

func TestEditTransaction_LeavesInvoiceUnsynced(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	tx, err := store.Get(ctx, fx.Store, store.Transactions, "TRX-SEED-003")
	require.NoError(t, err)
	tx.Amount = decimal.NewFromInt(-300000)
	require.NoError(t, fx.engine.EditTransaction(ctx, tx))

	inv, _ := store.Find(fx.load(t), store.Invoices, "INV-SEED-002")
	assert.Equal(t, "400000", inv.Amount.String())

	report, err := fx.engine.Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Drifts)
	assert.Equal(t, []string{"INV-SEED-002"}, report.UnsyncedInvoices)
	assert.False(t, report.OK())
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	require.NoError(t, fx.engine.DeleteTransaction(ctx, "TRX-SEED-002"))
	assert.Equal(t, "-1500000", fx.balance(t, "S001"))
	fx.requireBalanced(t)

	assert.True(t, model.IsNotFound(fx.engine.DeleteTransaction(ctx, "TRX-SEED-002")))
}

func TestClearAllTransactions(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	require.NoError(t, fx.engine.ClearAllTransactions(ctx))

	agg := fx.load(t)
	assert.Empty(t, agg.Transactions)
	assert.Empty(t, agg.Invoices)
	for _, st := range agg.Students {
		assert.True(t, st.Balance.IsZero(), st.ID)
	}
}

func TestAudit_DetectsDriftAndOrphans(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	require.NoError(t, fx.Store.Update(ctx, func(agg *model.Aggregate) error {
		agg.Students[0].Balance = decimal.NewFromInt(10)
		agg.Transactions = append(agg.Transactions, model.Transaction{ID: "TRX-GHOST", StudentID: "S999", Amount: decimal.NewFromInt(5)})
		return nil
	}))

	report, err := fx.engine.Audit(ctx)
	require.NoError(t, err)
	require.Len(t, report.Drifts, 1)
	assert.Equal(t, "S001", report.Drifts[0].StudentID)
	assert.Equal(t, "10", report.Drifts[0].Balance.String())
	assert.Equal(t, "0", report.Drifts[0].Expected.String())
	assert.Equal(t, []string{"TRX-GHOST"}, report.Orphans)
}

func TestMonthlySummary_Golden(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	s, err := fx.engine.MonthlySummary(ctx, month(t, 4, 2024))
	require.NoError(t, err)
	assert.Equal(t, "500000", s.Revenue.String())
	assert.Equal(t, "-2950000", s.Profit.String())

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "april_summary", []byte(fx.engine.SummaryText(s)))
}

func TestMonthlySummary_ExcludesRefunds(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	require.NoError(t, fx.engine.CancelInvoice(ctx, "INV-SEED-002"))
	_, err := fx.engine.AddAdjustment(ctx, ledger.Adjustment{
		StudentID: "S001", Amount: decimal.NewFromInt(200000), Direction: ledger.Credit,
	})
	require.NoError(t, err)

	s, err := fx.engine.MonthlySummary(ctx, month(t, 5, 2024))
	require.NoError(t, err)
	assert.Equal(t, "1700000", s.TuitionCollected.String(), "seed payment plus the new credit, refund excluded")
	assert.Equal(t, 0, s.InvoiceCount)
}

func TestListInvoices(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	all, err := fx.engine.ListInvoices(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	may := month(t, 5, 2024)
	none, err := fx.engine.ListInvoices(ctx, &may)
	require.NoError(t, err)
	assert.Empty(t, none)
}
