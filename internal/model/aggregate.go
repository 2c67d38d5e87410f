package model

import (
	"encoding/json"
	"slices"
)

// SchemaVersion is the aggregate layout written by this build.
const SchemaVersion = 1

// Collection names an id-keyed collection inside the aggregate. The values
// are the top-level JSON keys of the persisted document.
type Collection string

const (
	CollStudents        Collection = "students"
	CollTeachers        Collection = "teachers"
	CollStaff           Collection = "staff"
	CollClasses         Collection = "classes"
	CollAttendance      Collection = "attendance"
	CollInvoices        Collection = "invoices"
	CollProgressReports Collection = "progressReports"
	CollTransactions    Collection = "transactions"
	CollIncome          Collection = "income"
	CollExpenses        Collection = "expenses"
	CollPayrolls        Collection = "payrolls"
	CollAnnouncements   Collection = "announcements"
)

// Collections lists every id-keyed collection in persisted key order.
var Collections = []Collection{
	CollStudents, CollTeachers, CollStaff, CollClasses, CollAttendance,
	CollInvoices, CollProgressReports, CollTransactions, CollIncome,
	CollExpenses, CollPayrolls, CollAnnouncements,
}

// ParseCollection maps a persisted key back to its Collection.
func ParseCollection(name string) (Collection, bool) {
	c := Collection(name)
	return c, slices.Contains(Collections, c)
}

// Aggregate holds every collection plus the settings singleton.
type Aggregate struct {
	SchemaVersion   int                `json:"schemaVersion"`
	Students        []Student          `json:"students"`
	Teachers        []Teacher          `json:"teachers"`
	Staff           []Staff            `json:"staff"`
	Classes         []Class            `json:"classes"`
	Attendance      []AttendanceRecord `json:"attendance"`
	Invoices        []Invoice          `json:"invoices"`
	ProgressReports []ProgressReport   `json:"progressReports"`
	Transactions    []Transaction      `json:"transactions"`
	Income          []Income           `json:"income"`
	Expenses        []Expense          `json:"expenses"`
	Payrolls        []Payroll          `json:"payrolls"`
	Announcements   []Announcement     `json:"announcements"`
	Settings        Settings           `json:"settings"`
}

// NewAggregate returns an empty, normalized aggregate.
func NewAggregate() *Aggregate {
	agg := &Aggregate{}
	Normalize(agg)
	return agg
}

// Len returns the number of records in the named collection.
func (a *Aggregate) Len(c Collection) int {
	switch c {
	case CollStudents:
		return len(a.Students)
	case CollTeachers:
		return len(a.Teachers)
	case CollStaff:
		return len(a.Staff)
	case CollClasses:
		return len(a.Classes)
	case CollAttendance:
		return len(a.Attendance)
	case CollInvoices:
		return len(a.Invoices)
	case CollProgressReports:
		return len(a.ProgressReports)
	case CollTransactions:
		return len(a.Transactions)
	case CollIncome:
		return len(a.Income)
	case CollExpenses:
		return len(a.Expenses)
	case CollPayrolls:
		return len(a.Payrolls)
	case CollAnnouncements:
		return len(a.Announcements)
	}
	return 0
}

// Clone returns a deep copy by round-tripping through the codec.
func (a *Aggregate) Clone() (*Aggregate, error) {
	data, err := Encode(a)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Partial is a backup snapshot where any top-level key may be missing. A nil
// slice means the collection was absent or malformed in the source document;
// a present-but-empty array decodes to a non-nil empty slice.
type Partial struct {
	Students        []Student
	Teachers        []Teacher
	Staff           []Staff
	Classes         []Class
	Attendance      []AttendanceRecord
	Invoices        []Invoice
	ProgressReports []ProgressReport
	Transactions    []Transaction
	Income          []Income
	Expenses        []Expense
	Payrolls        []Payroll
	Announcements   []Announcement
	Settings        Settings

	// Ignored lists keys that were present but not usable.
	Ignored []Collection
}

// Settings is the center settings singleton. It is kept as raw fields so
// keys introduced by newer builds survive a round trip through older ones.
type Settings map[string]json.RawMessage

const settingsOnboardingKey = "onboardingStepsCompleted"

// OnboardingSteps returns the completed onboarding steps.
func (s Settings) OnboardingSteps() []string {
	raw, ok := s[settingsOnboardingKey]
	if !ok {
		return []string{}
	}
	var steps []string
	if err := json.Unmarshal(raw, &steps); err != nil || steps == nil {
		return []string{}
	}
	return steps
}

// CompleteStep records step once. It reports whether the settings changed.
func (s Settings) CompleteStep(step string) bool {
	steps := s.OnboardingSteps()
	if slices.Contains(steps, step) {
		return false
	}
	steps = append(steps, step)
	data, _ := json.Marshal(steps)
	s[settingsOnboardingKey] = data
	return true
}

// String returns a top-level string field, or "" when absent or not a string.
func (s Settings) String(key string) string {
	var v string
	if raw, ok := s[key]; ok {
		_ = json.Unmarshal(raw, &v)
	}
	return v
}

// Overlay copies every field of other into s, replacing existing keys.
func (s Settings) Overlay(other Settings) {
	for k, v := range other {
		s[k] = slices.Clone(v)
	}
}
