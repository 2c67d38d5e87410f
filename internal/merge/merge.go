// Package merge reconciles a backup snapshot into the live aggregate.
//
// Every id-keyed collection is merged by id with the backup winning on
// collision; records only in the current aggregate are kept and records only
// in the backup are appended. Attendance is keyed by (classId, studentId,
// date) instead of id, because attendance ids are minted per device and do
// not identify the logical mark. Settings are overlaid field by field.
//
// A collection the backup does not carry (nil in the Partial) leaves the
// current collection untouched. Apply is idempotent but not commutative.
package merge

import (
	"slices"

	"github.com/roach88/tutorbook/internal/model"
)

// Apply returns the merge of backup into current. Neither input is modified.
func Apply(current *model.Aggregate, backup *model.Partial) *model.Aggregate {
	out := &model.Aggregate{
		SchemaVersion:   current.SchemaVersion,
		Students:        byID(current.Students, backup.Students),
		Teachers:        byID(current.Teachers, backup.Teachers),
		Staff:           byID(current.Staff, backup.Staff),
		Classes:         byID(current.Classes, backup.Classes),
		Attendance:      byKey(current.Attendance, backup.Attendance, model.AttendanceRecord.Key),
		Invoices:        byID(current.Invoices, backup.Invoices),
		ProgressReports: byID(current.ProgressReports, backup.ProgressReports),
		Transactions:    byID(current.Transactions, backup.Transactions),
		Income:          byID(current.Income, backup.Income),
		Expenses:        byID(current.Expenses, backup.Expenses),
		Payrolls:        byID(current.Payrolls, backup.Payrolls),
		Announcements:   byID(current.Announcements, backup.Announcements),
		Settings:        settings(current.Settings, backup.Settings),
	}
	model.Normalize(out)
	return out
}

func byID[T model.Record](current, backup []T) []T {
	return byKey(current, backup, func(r T) string { return r.RecordID() })
}

// byKey merges two lists keyed by key. Output order is the first-seen order
// of each key across current then backup; the value is the last one seen.
func byKey[T any](current, backup []T, key func(T) string) []T {
	if backup == nil {
		return slices.Clone(current)
	}
	out := make([]T, 0, len(current)+len(backup))
	index := make(map[string]int, len(current)+len(backup))
	put := func(item T) {
		k := key(item)
		if i, ok := index[k]; ok {
			out[i] = item
			return
		}
		index[k] = len(out)
		out = append(out, item)
	}
	for _, item := range current {
		put(item)
	}
	for _, item := range backup {
		put(item)
	}
	return out
}

func settings(current, backup model.Settings) model.Settings {
	out := model.Settings{}
	out.Overlay(current)
	if backup != nil {
		out.Overlay(backup)
	}
	return out
}
