package store

import (
	"context"
	"slices"

	"github.com/roach88/tutorbook/internal/model"
)

// ReplaceAttendance replaces the marks of every (class, date) meeting that
// appears in records with the given marks. Records without an id get one.
// An empty batch changes nothing.
func (s *Store) ReplaceAttendance(ctx context.Context, records []model.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	type meeting struct{ classID, date string }
	var order []meeting
	groups := make(map[meeting][]model.AttendanceRecord)
	for _, r := range records {
		if r.Status == "" {
			r.Status = model.AttendanceUnmarked
		}
		if err := model.Validate(model.CollAttendance, r); err != nil {
			return wrap("replace attendance", err)
		}
		if r.ID == "" {
			r.ID = s.ids.NewID(model.PrefixAttendance)
		}
		m := meeting{r.ClassID, r.Date}
		if _, ok := groups[m]; !ok {
			order = append(order, m)
		}
		groups[m] = append(groups[m], r)
	}
	return wrap("replace attendance", s.Update(ctx, func(agg *model.Aggregate) error {
		for _, m := range order {
			agg.Attendance = slices.DeleteFunc(agg.Attendance, func(a model.AttendanceRecord) bool {
				return a.ClassID == m.classID && a.Date == m.date
			})
			agg.Attendance = append(agg.Attendance, groups[m]...)
		}
		return nil
	}))
}

// DeleteAttendanceForDate removes every mark of one class meeting.
func (s *Store) DeleteAttendanceForDate(ctx context.Context, classID, date string) error {
	return wrap("delete attendance", s.Update(ctx, func(agg *model.Aggregate) error {
		agg.Attendance = slices.DeleteFunc(agg.Attendance, func(a model.AttendanceRecord) bool {
			return a.ClassID == classID && a.Date == date
		})
		return nil
	}))
}

// DeleteAttendanceByMonth removes every mark dated in month.
func (s *Store) DeleteAttendanceByMonth(ctx context.Context, month model.Month) error {
	return wrap("delete attendance", s.Update(ctx, func(agg *model.Aggregate) error {
		agg.Attendance = slices.DeleteFunc(agg.Attendance, func(a model.AttendanceRecord) bool {
			return month.Contains(a.Date)
		})
		return nil
	}))
}
