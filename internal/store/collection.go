package store

import (
	"context"
	"slices"

	"github.com/roach88/tutorbook/internal/model"
)

// Ref names a collection and locates it inside an aggregate.
type Ref[T model.Record] struct {
	Name model.Collection
	list func(*model.Aggregate) *[]T
}

// Items returns the collection's records in agg.
func (r Ref[T]) Items(agg *model.Aggregate) []T { return *r.list(agg) }

// Collection refs for every id-keyed collection.
var (
	Students        = Ref[model.Student]{model.CollStudents, func(a *model.Aggregate) *[]model.Student { return &a.Students }}
	Teachers        = Ref[model.Teacher]{model.CollTeachers, func(a *model.Aggregate) *[]model.Teacher { return &a.Teachers }}
	Staff           = Ref[model.Staff]{model.CollStaff, func(a *model.Aggregate) *[]model.Staff { return &a.Staff }}
	Classes         = Ref[model.Class]{model.CollClasses, func(a *model.Aggregate) *[]model.Class { return &a.Classes }}
	Attendance      = Ref[model.AttendanceRecord]{model.CollAttendance, func(a *model.Aggregate) *[]model.AttendanceRecord { return &a.Attendance }}
	Invoices        = Ref[model.Invoice]{model.CollInvoices, func(a *model.Aggregate) *[]model.Invoice { return &a.Invoices }}
	ProgressReports = Ref[model.ProgressReport]{model.CollProgressReports, func(a *model.Aggregate) *[]model.ProgressReport { return &a.ProgressReports }}
	Transactions    = Ref[model.Transaction]{model.CollTransactions, func(a *model.Aggregate) *[]model.Transaction { return &a.Transactions }}
	Income          = Ref[model.Income]{model.CollIncome, func(a *model.Aggregate) *[]model.Income { return &a.Income }}
	Expenses        = Ref[model.Expense]{model.CollExpenses, func(a *model.Aggregate) *[]model.Expense { return &a.Expenses }}
	Payrolls        = Ref[model.Payroll]{model.CollPayrolls, func(a *model.Aggregate) *[]model.Payroll { return &a.Payrolls }}
	Announcements   = Ref[model.Announcement]{model.CollAnnouncements, func(a *model.Aggregate) *[]model.Announcement { return &a.Announcements }}
)

// Insert appends rec to the collection. It fails with DUPLICATE_ID when the
// id is taken and INVALID_RECORD when rec fails validation.
func Insert[T model.Record](ctx context.Context, s *Store, ref Ref[T], rec T) error {
	return wrap("insert "+string(ref.Name), s.Update(ctx, func(agg *model.Aggregate) error {
		return InsertInto(agg, ref, rec)
	}))
}

// Replace swaps the record with the given id for rec, keeping its position.
// It fails with NOT_FOUND when no record has that id.
func Replace[T model.Record](ctx context.Context, s *Store, ref Ref[T], id string, rec T) error {
	return wrap("replace "+string(ref.Name), s.Update(ctx, func(agg *model.Aggregate) error {
		return ReplaceIn(agg, ref, id, rec)
	}))
}

// Remove deletes the record with the given id without cascading. It fails
// with NOT_FOUND when no record has that id.
func Remove[T model.Record](ctx context.Context, s *Store, ref Ref[T], id string) error {
	return wrap("remove "+string(ref.Name), s.Update(ctx, func(agg *model.Aggregate) error {
		return RemoveFrom(agg, ref, id)
	}))
}

// Get returns the record with the given id from a freshly loaded aggregate.
func Get[T model.Record](ctx context.Context, s *Store, ref Ref[T], id string) (T, error) {
	var zero T
	agg, err := s.Load(ctx)
	if err != nil {
		return zero, err
	}
	rec, ok := Find(agg, ref, id)
	if !ok {
		return zero, model.NewNotFoundError(ref.Name, id)
	}
	return rec, nil
}

// Find returns the record with the given id.
func Find[T model.Record](agg *model.Aggregate, ref Ref[T], id string) (T, bool) {
	items := ref.Items(agg)
	if i := indexOf(items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// InsertInto is the in-memory form of Insert.
func InsertInto[T model.Record](agg *model.Aggregate, ref Ref[T], rec T) error {
	if err := model.Validate(ref.Name, rec); err != nil {
		return err
	}
	list := ref.list(agg)
	if indexOf(*list, rec.RecordID()) >= 0 {
		return model.NewDuplicateIDError(ref.Name, rec.RecordID())
	}
	*list = append(*list, rec)
	return nil
}

// ReplaceIn is the in-memory form of Replace.
func ReplaceIn[T model.Record](agg *model.Aggregate, ref Ref[T], id string, rec T) error {
	if err := model.Validate(ref.Name, rec); err != nil {
		return err
	}
	list := ref.list(agg)
	i := indexOf(*list, id)
	if i < 0 {
		return model.NewNotFoundError(ref.Name, id)
	}
	if rec.RecordID() != id && indexOf(*list, rec.RecordID()) >= 0 {
		return model.NewDuplicateIDError(ref.Name, rec.RecordID())
	}
	(*list)[i] = rec
	return nil
}

// RemoveFrom is the in-memory form of Remove.
func RemoveFrom[T model.Record](agg *model.Aggregate, ref Ref[T], id string) error {
	list := ref.list(agg)
	if indexOf(*list, id) < 0 {
		return model.NewNotFoundError(ref.Name, id)
	}
	*list = slices.DeleteFunc(*list, func(r T) bool { return r.RecordID() == id })
	return nil
}

func indexOf[T model.Record](items []T, id string) int {
	return slices.IndexFunc(items, func(r T) bool { return r.RecordID() == id })
}
