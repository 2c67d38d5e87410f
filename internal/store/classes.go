package store

import (
	"context"
	"slices"

	"github.com/roach88/tutorbook/internal/model"
)

// AddClass inserts c. Member ids are stored as given.
func (s *Store) AddClass(ctx context.Context, c model.Class) error {
	if c.Fee.Type == "" {
		c.Fee.Type = model.FeeMonthly
	}
	c.StudentIDs = dedupe(c.StudentIDs)
	c.TeacherIDs = dedupe(c.TeacherIDs)
	return wrap("add class", s.Update(ctx, func(agg *model.Aggregate) error {
		if err := InsertInto(agg, Classes, c); err != nil {
			return err
		}
		s.warnDangling(agg, c)
		return nil
	}))
}

// UpdateClass replaces the class stored under originalID. A new id is
// carried into attendance, progress reports and class announcements.
func (s *Store) UpdateClass(ctx context.Context, originalID string, updated model.Class) error {
	updated.StudentIDs = dedupe(updated.StudentIDs)
	updated.TeacherIDs = dedupe(updated.TeacherIDs)
	return wrap("update class", s.Update(ctx, func(agg *model.Aggregate) error {
		if err := ReplaceIn(agg, Classes, originalID, updated); err != nil {
			return err
		}
		if newID := updated.ID; newID != originalID {
			for i := range agg.Attendance {
				if agg.Attendance[i].ClassID == originalID {
					agg.Attendance[i].ClassID = newID
				}
			}
			for i := range agg.ProgressReports {
				if agg.ProgressReports[i].ClassID == originalID {
					agg.ProgressReports[i].ClassID = newID
				}
			}
			for i := range agg.Announcements {
				if agg.Announcements[i].ClassID == originalID {
					agg.Announcements[i].ClassID = newID
				}
			}
		}
		s.warnDangling(agg, updated)
		return nil
	}))
}

// DeleteClass removes the class with its attendance, progress reports and
// class announcements.
func (s *Store) DeleteClass(ctx context.Context, id string) error {
	return wrap("delete class", s.Update(ctx, func(agg *model.Aggregate) error {
		if err := RemoveFrom(agg, Classes, id); err != nil {
			return err
		}
		purgeClass(agg, id)
		return nil
	}))
}

func purgeClass(agg *model.Aggregate, id string) {
	agg.Attendance = slices.DeleteFunc(agg.Attendance, func(a model.AttendanceRecord) bool { return a.ClassID == id })
	agg.ProgressReports = slices.DeleteFunc(agg.ProgressReports, func(p model.ProgressReport) bool { return p.ClassID == id })
	agg.Announcements = slices.DeleteFunc(agg.Announcements, func(a model.Announcement) bool {
		return a.ClassID != "" && a.ClassID == id
	})
}

func (s *Store) warnDangling(agg *model.Aggregate, c model.Class) {
	for _, id := range c.StudentIDs {
		if _, ok := Find(agg, Students, id); !ok {
			s.logger.Warn("class lists unknown student", "class", c.ID, "student", id)
		}
	}
	for _, id := range c.TeacherIDs {
		if _, ok := Find(agg, Teachers, id); !ok {
			s.logger.Warn("class lists unknown teacher", "class", c.ID, "teacher", id)
		}
	}
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
