package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/tutorbook/internal/model"
)

// Clearable lists the collections ClearCollections accepts.
var Clearable = []model.Collection{
	model.CollStudents, model.CollTeachers, model.CollStaff, model.CollClasses,
}

// ClearCollections empties the named collections and everything that
// depends on them:
//   - students: attendance, invoices, progress reports, transactions and
//     every class's student list
//   - teachers: payrolls and every class's teacher list
//   - classes: attendance, progress reports and class announcements
func (s *Store) ClearCollections(ctx context.Context, colls ...model.Collection) error {
	for _, c := range colls {
		if !slices.Contains(Clearable, c) {
			return fmt.Errorf("clear collections: %q cannot be cleared", c)
		}
	}
	if len(colls) == 0 {
		return nil
	}
	return wrap("clear collections", s.Update(ctx, func(agg *model.Aggregate) error {
		for _, c := range colls {
			switch c {
			case model.CollStudents:
				agg.Students = []model.Student{}
				agg.Attendance = []model.AttendanceRecord{}
				agg.Invoices = []model.Invoice{}
				agg.ProgressReports = []model.ProgressReport{}
				agg.Transactions = []model.Transaction{}
				for i := range agg.Classes {
					agg.Classes[i].StudentIDs = []string{}
				}
			case model.CollTeachers:
				agg.Teachers = []model.Teacher{}
				agg.Payrolls = []model.Payroll{}
				for i := range agg.Classes {
					agg.Classes[i].TeacherIDs = []string{}
				}
			case model.CollStaff:
				agg.Staff = []model.Staff{}
			case model.CollClasses:
				agg.Classes = []model.Class{}
				agg.Attendance = []model.AttendanceRecord{}
				agg.ProgressReports = []model.ProgressReport{}
				agg.Announcements = slices.DeleteFunc(agg.Announcements, func(a model.Announcement) bool {
					return a.ClassID != ""
				})
			}
		}
		s.logger.Info("collections cleared", "collections", colls)
		return nil
	}))
}
