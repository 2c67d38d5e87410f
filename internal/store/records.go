package store

import (
	"context"

	"github.com/roach88/tutorbook/internal/model"
)

// AddProgressReport inserts r under a generated id and returns it.
func (s *Store) AddProgressReport(ctx context.Context, r model.ProgressReport) (model.ProgressReport, error) {
	r.ID = s.ids.NewID(model.PrefixProgressReport)
	if r.Date == "" {
		r.Date = s.Today()
	}
	return r, Insert(ctx, s, ProgressReports, r)
}

// AddIncome inserts an income line under a generated id and returns it.
func (s *Store) AddIncome(ctx context.Context, l model.Income) (model.Income, error) {
	l.ID = s.ids.NewID(model.PrefixIncome)
	return l, Insert(ctx, s, Income, l)
}

// AddExpense inserts an expense line under a generated id and returns it.
func (s *Store) AddExpense(ctx context.Context, l model.Expense) (model.Expense, error) {
	l.ID = s.ids.NewID(model.PrefixExpense)
	return l, Insert(ctx, s, Expenses, l)
}

// AddAnnouncement inserts a under a generated id, stamping createdAt.
func (s *Store) AddAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error) {
	a.ID = s.ids.NewID(model.PrefixAnnouncement)
	a.CreatedAt = s.Today()
	return a, Insert(ctx, s, Announcements, a)
}
