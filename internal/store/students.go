package store

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/roach88/tutorbook/internal/model"
)

// AddStudent inserts s with a zero balance, stamps createdAt and enrolls it
// in each class of classIDs. Unknown class ids are skipped.
func (s *Store) AddStudent(ctx context.Context, st model.Student, classIDs []string) error {
	st.Balance = decimal.Zero
	st.CreatedAt = s.Today()
	if st.Status == "" {
		st.Status = model.StatusActive
	}
	return wrap("add student", s.Update(ctx, func(agg *model.Aggregate) error {
		if err := InsertInto(agg, Students, st); err != nil {
			return err
		}
		s.enroll(agg, st.ID, "", classIDs)
		return nil
	}))
}

// UpdateStudent replaces the student stored under originalID with updated and
// sets its class memberships to exactly classIDs.
//
// When the id changes every attendance, invoice, progress report and
// transaction row follows the new id. The stored balance and createdAt are
// kept; balances only move through the ledger.
func (s *Store) UpdateStudent(ctx context.Context, originalID string, updated model.Student, classIDs []string) error {
	return wrap("update student", s.Update(ctx, func(agg *model.Aggregate) error {
		prev, ok := Find(agg, Students, originalID)
		if !ok {
			return model.NewNotFoundError(model.CollStudents, originalID)
		}
		updated.Balance = prev.Balance
		updated.CreatedAt = prev.CreatedAt
		if err := ReplaceIn(agg, Students, originalID, updated); err != nil {
			return err
		}
		newID := updated.ID
		for i := range agg.Invoices {
			if inv := &agg.Invoices[i]; inv.StudentID == originalID {
				inv.StudentID = newID
				inv.StudentName = updated.Name
			}
		}
		if newID != originalID {
			for i := range agg.Attendance {
				if agg.Attendance[i].StudentID == originalID {
					agg.Attendance[i].StudentID = newID
				}
			}
			for i := range agg.ProgressReports {
				if agg.ProgressReports[i].StudentID == originalID {
					agg.ProgressReports[i].StudentID = newID
				}
			}
			for i := range agg.Transactions {
				if agg.Transactions[i].StudentID == originalID {
					agg.Transactions[i].StudentID = newID
				}
			}
		}
		s.enroll(agg, newID, originalID, classIDs)
		s.logger.Debug("student updated", "id", newID, "previous_id", originalID)
		return nil
	}))
}

// DeleteStudent removes the student and everything recorded against it:
// class memberships, attendance, invoices, progress reports and transactions.
func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	return wrap("delete student", s.Update(ctx, func(agg *model.Aggregate) error {
		if err := RemoveFrom(agg, Students, id); err != nil {
			return err
		}
		purgeStudent(agg, id)
		return nil
	}))
}

func purgeStudent(agg *model.Aggregate, id string) {
	for i := range agg.Classes {
		agg.Classes[i].StudentIDs = without(agg.Classes[i].StudentIDs, id)
	}
	agg.Attendance = slices.DeleteFunc(agg.Attendance, func(a model.AttendanceRecord) bool { return a.StudentID == id })
	agg.Invoices = slices.DeleteFunc(agg.Invoices, func(inv model.Invoice) bool { return inv.StudentID == id })
	agg.ProgressReports = slices.DeleteFunc(agg.ProgressReports, func(p model.ProgressReport) bool { return p.StudentID == id })
	agg.Transactions = slices.DeleteFunc(agg.Transactions, func(t model.Transaction) bool { return t.StudentID == id })
}

// enroll makes id a member of exactly the classes in classIDs. previousID,
// when set, is dropped from every class first so a rename moves membership
// even if the requested classes change in the same call.
func (s *Store) enroll(agg *model.Aggregate, id, previousID string, classIDs []string) {
	for _, cid := range classIDs {
		if _, ok := Find(agg, Classes, cid); !ok {
			s.logger.Warn("enrollment skipped: unknown class", "student", id, "class", cid)
		}
	}
	for i := range agg.Classes {
		c := &agg.Classes[i]
		if previousID != "" {
			c.StudentIDs = without(c.StudentIDs, previousID)
			c.StudentIDs = without(c.StudentIDs, id)
		}
		if slices.Contains(classIDs, c.ID) && !c.HasStudent(id) {
			c.StudentIDs = append(c.StudentIDs, id)
		}
	}
}

func without(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(v string) bool { return v == id })
}

func replaceID(ids []string, from, to string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v == from {
			v = to
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
