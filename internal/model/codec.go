package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Encode serializes the aggregate in its persisted form (2-space indented).
func Encode(agg *Aggregate) ([]byte, error) {
	agg.SchemaVersion = SchemaVersion
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(agg); err != nil {
		return nil, fmt.Errorf("encode aggregate: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a persisted aggregate and normalizes it. Missing or non-array
// collections load as empty; anything else that does not fit the shape is a
// parse error.
func Decode(data []byte) (*Aggregate, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, NewParseError(err)
	}

	agg := &Aggregate{}
	if raw, ok := fields["schemaVersion"]; ok {
		if err := json.Unmarshal(raw, &agg.SchemaVersion); err != nil {
			return nil, NewParseError(fmt.Errorf("schemaVersion: %w", err))
		}
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	agg.Students, _, err = decodeList[Student](fields, CollStudents)
	collect(err)
	agg.Teachers, _, err = decodeList[Teacher](fields, CollTeachers)
	collect(err)
	agg.Staff, _, err = decodeList[Staff](fields, CollStaff)
	collect(err)
	agg.Classes, _, err = decodeList[Class](fields, CollClasses)
	collect(err)
	agg.Attendance, _, err = decodeList[AttendanceRecord](fields, CollAttendance)
	collect(err)
	agg.Invoices, _, err = decodeList[Invoice](fields, CollInvoices)
	collect(err)
	agg.ProgressReports, _, err = decodeList[ProgressReport](fields, CollProgressReports)
	collect(err)
	agg.Transactions, _, err = decodeList[Transaction](fields, CollTransactions)
	collect(err)
	agg.Income, _, err = decodeList[Income](fields, CollIncome)
	collect(err)
	agg.Expenses, _, err = decodeList[Expense](fields, CollExpenses)
	collect(err)
	agg.Payrolls, _, err = decodeList[Payroll](fields, CollPayrolls)
	collect(err)
	agg.Announcements, _, err = decodeList[Announcement](fields, CollAnnouncements)
	collect(err)
	if len(errs) > 0 {
		return nil, NewParseError(errors.Join(errs...))
	}

	agg.Settings = decodeSettings(fields)
	Normalize(agg)
	return agg, nil
}

// DecodePartial parses a backup document. Unlike Decode, a collection that
// fails to decode is dropped and listed in Partial.Ignored instead of failing
// the whole import. Only a document that is not a JSON object is an error.
func DecodePartial(data []byte) (*Partial, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, NewParseError(err)
	}

	p := &Partial{}
	p.Students = partialList[Student](p, fields, CollStudents)
	p.Teachers = partialList[Teacher](p, fields, CollTeachers)
	p.Staff = partialList[Staff](p, fields, CollStaff)
	p.Classes = partialList[Class](p, fields, CollClasses)
	p.Attendance = partialList[AttendanceRecord](p, fields, CollAttendance)
	p.Invoices = partialList[Invoice](p, fields, CollInvoices)
	p.ProgressReports = partialList[ProgressReport](p, fields, CollProgressReports)
	p.Transactions = partialList[Transaction](p, fields, CollTransactions)
	p.Income = partialList[Income](p, fields, CollIncome)
	p.Expenses = partialList[Expense](p, fields, CollExpenses)
	p.Payrolls = partialList[Payroll](p, fields, CollPayrolls)
	p.Announcements = partialList[Announcement](p, fields, CollAnnouncements)
	if _, ok := fields["settings"]; ok {
		p.Settings = decodeSettings(fields)
	}
	normalizePartial(p)
	return p, nil
}

// PartialOf views a full aggregate as a backup snapshot.
func PartialOf(agg *Aggregate) *Partial {
	return &Partial{
		Students:        agg.Students,
		Teachers:        agg.Teachers,
		Staff:           agg.Staff,
		Classes:         agg.Classes,
		Attendance:      agg.Attendance,
		Invoices:        agg.Invoices,
		ProgressReports: agg.ProgressReports,
		Transactions:    agg.Transactions,
		Income:          agg.Income,
		Expenses:        agg.Expenses,
		Payrolls:        agg.Payrolls,
		Announcements:   agg.Announcements,
		Settings:        agg.Settings,
	}
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("top-level value is not a JSON object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// decodeList returns the collection under key. present is false when the key
// is missing or does not hold an array; the returned slice is then empty.
func decodeList[T any](fields map[string]json.RawMessage, key Collection) (list []T, present bool, err error) {
	raw, ok := fields[string(key)]
	if !ok || !isArray(raw) {
		return []T{}, false, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return []T{}, false, fmt.Errorf("%s: %w", key, err)
	}
	if list == nil {
		list = []T{}
	}
	return list, true, nil
}

func partialList[T any](p *Partial, fields map[string]json.RawMessage, key Collection) []T {
	if _, ok := fields[string(key)]; !ok {
		return nil
	}
	list, present, err := decodeList[T](fields, key)
	if err != nil || !present {
		p.Ignored = append(p.Ignored, key)
		return nil
	}
	return list
}

func decodeSettings(fields map[string]json.RawMessage) Settings {
	settings := Settings{}
	raw, ok := fields["settings"]
	if !ok {
		return settings
	}
	if err := json.Unmarshal(raw, &settings); err != nil || settings == nil {
		return Settings{}
	}
	return settings
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// migrations[v] upgrades an aggregate from schema version v to v+1.
var migrations = []func(*Aggregate){
	0: migrateToV1,
}

// Normalize applies pending schema migrations and fills defaults. It is
// idempotent and safe to run on an already-current aggregate.
func Normalize(agg *Aggregate) {
	for v := agg.SchemaVersion; v < len(migrations); v++ {
		migrations[v](agg)
	}
	agg.SchemaVersion = SchemaVersion

	agg.Students = nonNil(agg.Students)
	agg.Teachers = nonNil(agg.Teachers)
	agg.Staff = nonNil(agg.Staff)
	agg.Classes = nonNil(agg.Classes)
	agg.Attendance = nonNil(agg.Attendance)
	agg.Invoices = nonNil(agg.Invoices)
	agg.ProgressReports = nonNil(agg.ProgressReports)
	agg.Transactions = nonNil(agg.Transactions)
	agg.Income = nonNil(agg.Income)
	agg.Expenses = nonNil(agg.Expenses)
	agg.Payrolls = nonNil(agg.Payrolls)
	agg.Announcements = nonNil(agg.Announcements)
	if agg.Settings == nil {
		agg.Settings = Settings{}
	}
	if _, ok := agg.Settings[settingsOnboardingKey]; !ok {
		agg.Settings[settingsOnboardingKey] = json.RawMessage("[]")
	}
	for i := range agg.Classes {
		normalizeClass(&agg.Classes[i])
	}
}

// migrateToV1 fills the fields older documents left implicit.
func migrateToV1(agg *Aggregate) {
	for i := range agg.Students {
		normalizeStudent(&agg.Students[i])
	}
	for i := range agg.Teachers {
		normalizeTeacher(&agg.Teachers[i])
	}
	for i := range agg.Attendance {
		normalizeAttendance(&agg.Attendance[i])
	}
	for i := range agg.Invoices {
		normalizeInvoice(&agg.Invoices[i])
	}
}

func normalizePartial(p *Partial) {
	for i := range p.Students {
		normalizeStudent(&p.Students[i])
	}
	for i := range p.Teachers {
		normalizeTeacher(&p.Teachers[i])
	}
	for i := range p.Classes {
		normalizeClass(&p.Classes[i])
	}
	for i := range p.Attendance {
		normalizeAttendance(&p.Attendance[i])
	}
	for i := range p.Invoices {
		normalizeInvoice(&p.Invoices[i])
	}
}

func normalizeStudent(s *Student) {
	s.Name = norm.NFC.String(s.Name)
	if s.Status == "" {
		s.Status = StatusActive
	}
}

func normalizeTeacher(t *Teacher) {
	t.Name = norm.NFC.String(t.Name)
	if t.Status == "" {
		t.Status = StatusActive
	}
	if t.SalaryType == "" {
		t.SalaryType = SalaryMonthly
	}
}

func normalizeClass(c *Class) {
	c.StudentIDs = nonNil(c.StudentIDs)
	c.TeacherIDs = nonNil(c.TeacherIDs)
	if c.Fee.Type == "" {
		c.Fee.Type = FeeMonthly
	}
}

func normalizeAttendance(a *AttendanceRecord) {
	if a.Status == "" {
		a.Status = AttendanceUnmarked
	}
}

func normalizeInvoice(inv *Invoice) {
	if inv.Status == "" {
		inv.Status = InvoiceUnpaid
	}
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
