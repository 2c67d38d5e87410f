package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roach88/tutorbook/internal/model"
	"github.com/roach88/tutorbook/internal/store"
)

// GeneratePayrolls computes month's payroll for every active teacher.
// MONTHLY teachers earn their rate; PER_SESSION teachers earn the rate per
// distinct (class, date) meeting of their classes with any attendance mark.
// Rows are keyed by teacher and month, so a re-run overwrites.
func (e *Engine) GeneratePayrolls(ctx context.Context, month model.Month) ([]model.Payroll, error) {
	var out []model.Payroll
	err := e.store.Update(ctx, func(agg *model.Aggregate) error {
		out = nil
		today := e.store.Today()
		for _, t := range agg.Teachers {
			if t.Status != model.StatusActive {
				continue
			}
			p := model.Payroll{
				ID:              model.PayrollID(t.ID, month),
				TeacherID:       t.ID,
				TeacherName:     t.Name,
				Month:           month.String(),
				Rate:            t.Rate,
				BaseSalary:      decimal.Zero,
				CalculationDate: today,
			}
			if t.SalaryType == model.SalaryPerSession {
				p.SessionsTaught = sessionsTaught(agg, t.ID, month)
				p.TotalSalary = t.Rate.Mul(decimal.NewFromInt(int64(p.SessionsTaught)))
			} else {
				p.BaseSalary = t.Rate
				p.TotalSalary = t.Rate
			}
			upsertPayroll(agg, p)
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate payrolls %s: %w", month, err)
	}
	e.logger.Info("payrolls generated", "month", month.String(), "teachers", len(out))
	return out, nil
}

// sessionsTaught counts distinct (class, date) meetings in month across the
// teacher's classes.
func sessionsTaught(agg *model.Aggregate, teacherID string, month model.Month) int {
	taught := make(map[string]bool)
	for _, c := range agg.Classes {
		if c.HasTeacher(teacherID) {
			taught[c.ID] = true
		}
	}
	seen := make(map[[2]string]struct{})
	for _, a := range agg.Attendance {
		if taught[a.ClassID] && month.Contains(a.Date) {
			seen[[2]string{a.ClassID, a.Date}] = struct{}{}
		}
	}
	return len(seen)
}

func upsertPayroll(agg *model.Aggregate, p model.Payroll) {
	if err := store.ReplaceIn(agg, store.Payrolls, p.ID, p); err == nil {
		return
	}
	agg.Payrolls = append(agg.Payrolls, p)
}
