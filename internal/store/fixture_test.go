package store_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tutorbook/internal/model"
	"github.com/roach88/tutorbook/internal/testutil"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// fixture: S1 is invoiced 300 for May, attends C1 and C2; S2 attends C1.
func fixture() (*model.Aggregate, error) {
	agg := model.NewAggregate()
	agg.Students = []model.Student{
		{ID: "S1", Name: "Ann", Status: model.StatusActive, Balance: d(-300), CreatedAt: "2024-01-10"},
		{ID: "S2", Name: "Bo", Status: model.StatusActive, Balance: d(0), CreatedAt: "2024-01-11"},
	}
	agg.Teachers = []model.Teacher{
		{ID: "T1", Name: "Tam", Status: model.StatusActive, SalaryType: model.SalaryPerSession, Rate: d(50), CreatedAt: "2024-01-01"},
	}
	agg.Staff = []model.Staff{{ID: "NV1", Name: "Mai", Role: model.RoleManager}}
	agg.Classes = []model.Class{
		{ID: "C1", Name: "English", Fee: model.Fee{Type: model.FeeMonthly, Amount: d(200)}, StudentIDs: []string{"S1", "S2"}, TeacherIDs: []string{"T1"}},
		{ID: "C2", Name: "Math", Fee: model.Fee{Type: model.FeePerSession, Amount: d(100)}, StudentIDs: []string{"S1"}, TeacherIDs: []string{"T1"}},
	}
	agg.Attendance = []model.AttendanceRecord{
		{ID: "A1", ClassID: "C1", StudentID: "S1", Date: "2024-05-02", Status: model.AttendancePresent},
		{ID: "A2", ClassID: "C1", StudentID: "S2", Date: "2024-05-02", Status: model.AttendanceAbsent},
		{ID: "A3", ClassID: "C2", StudentID: "S1", Date: "2024-05-03", Status: model.AttendancePresent},
		{ID: "A4", ClassID: "C2", StudentID: "S1", Date: "2024-06-01", Status: model.AttendancePresent},
	}
	agg.Invoices = []model.Invoice{
		{ID: "INV-1", StudentID: "S1", StudentName: "Ann", Month: "2024-05", Amount: d(300), Status: model.InvoiceUnpaid, GeneratedDate: "2024-05-31"},
	}
	agg.Transactions = []model.Transaction{
		{ID: "TRX-1", StudentID: "S1", Date: "2024-05-31", Type: model.TxInvoice, Amount: d(-300), RelatedInvoiceID: "INV-1"},
	}
	agg.ProgressReports = []model.ProgressReport{{ID: "PR-1", StudentID: "S1", ClassID: "C1", Date: "2024-05-10"}}
	agg.Payrolls = []model.Payroll{{ID: "PAY-T1-2024-05", TeacherID: "T1", TeacherName: "Tam", Month: "2024-05", SessionsTaught: 2, Rate: d(50), TotalSalary: d(100)}}
	agg.Announcements = []model.Announcement{
		{ID: "ANN-1", Title: "English test", ClassID: "C1"},
		{ID: "ANN-2", Title: "Holiday"},
	}
	return agg, nil
}

func newFixtureStore(t *testing.T) testutil.StoreFixture {
	t.Helper()
	return testutil.NewStore(t, fixture)
}

func load(t *testing.T, fx testutil.StoreFixture) *model.Aggregate {
	t.Helper()
	agg, err := fx.Store.Load(context.Background())
	require.NoError(t, err)
	return agg
}

func ids[T model.Record](items []T) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.RecordID()
	}
	return out
}
