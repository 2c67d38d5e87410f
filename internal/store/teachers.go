package store

import (
	"context"
	"slices"

	"github.com/roach88/tutorbook/internal/model"
)

// AddTeacher inserts t, stamping createdAt.
func (s *Store) AddTeacher(ctx context.Context, t model.Teacher) error {
	t.CreatedAt = s.Today()
	if t.Status == "" {
		t.Status = model.StatusActive
	}
	if t.SalaryType == "" {
		t.SalaryType = model.SalaryMonthly
	}
	return Insert(ctx, s, Teachers, t)
}

// UpdateTeacher replaces the teacher stored under originalID. A new id is
// carried into every class teacher list and into the teacher's payroll rows,
// whose deterministic ids are rederived.
func (s *Store) UpdateTeacher(ctx context.Context, originalID string, updated model.Teacher) error {
	return wrap("update teacher", s.Update(ctx, func(agg *model.Aggregate) error {
		prev, ok := Find(agg, Teachers, originalID)
		if !ok {
			return model.NewNotFoundError(model.CollTeachers, originalID)
		}
		updated.CreatedAt = prev.CreatedAt
		if err := ReplaceIn(agg, Teachers, originalID, updated); err != nil {
			return err
		}
		newID := updated.ID
		if newID != originalID {
			for i := range agg.Classes {
				agg.Classes[i].TeacherIDs = replaceID(agg.Classes[i].TeacherIDs, originalID, newID)
			}
		}
		for i := range agg.Payrolls {
			p := &agg.Payrolls[i]
			if p.TeacherID != originalID {
				continue
			}
			p.TeacherID = newID
			p.TeacherName = updated.Name
			if m, err := model.ParseMonth(p.Month); err == nil {
				p.ID = model.PayrollID(newID, m)
			}
		}
		return nil
	}))
}

// DeleteTeacher removes the teacher from the roster, from every class and
// purges its payroll rows.
func (s *Store) DeleteTeacher(ctx context.Context, id string) error {
	return wrap("delete teacher", s.Update(ctx, func(agg *model.Aggregate) error {
		if err := RemoveFrom(agg, Teachers, id); err != nil {
			return err
		}
		purgeTeacher(agg, id)
		return nil
	}))
}

func purgeTeacher(agg *model.Aggregate, id string) {
	for i := range agg.Classes {
		agg.Classes[i].TeacherIDs = without(agg.Classes[i].TeacherIDs, id)
	}
	agg.Payrolls = slices.DeleteFunc(agg.Payrolls, func(p model.Payroll) bool { return p.TeacherID == id })
}

// AddStaff inserts a staff member, stamping createdAt.
func (s *Store) AddStaff(ctx context.Context, st model.Staff) error {
	st.CreatedAt = s.Today()
	return Insert(ctx, s, Staff, st)
}

// UpdateStaff replaces the staff member stored under originalID.
func (s *Store) UpdateStaff(ctx context.Context, originalID string, updated model.Staff) error {
	return wrap("update staff", s.Update(ctx, func(agg *model.Aggregate) error {
		prev, ok := Find(agg, Staff, originalID)
		if !ok {
			return model.NewNotFoundError(model.CollStaff, originalID)
		}
		updated.CreatedAt = prev.CreatedAt
		return ReplaceIn(agg, Staff, originalID, updated)
	}))
}

// DeleteStaff removes a staff member. Nothing references staff.
func (s *Store) DeleteStaff(ctx context.Context, id string) error {
	return Remove(ctx, s, Staff, id)
}
