package model

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts persist as JSON numbers so backups stay readable by older exports.
	decimal.MarshalJSONWithoutQuotes = true
}

// PersonStatus marks whether a student or teacher takes part in batch runs.
type PersonStatus string

const (
	StatusActive   PersonStatus = "ACTIVE"
	StatusInactive PersonStatus = "INACTIVE"
)

// SalaryType selects how payroll is computed for a teacher.
type SalaryType string

const (
	SalaryMonthly    SalaryType = "MONTHLY"
	SalaryPerSession SalaryType = "PER_SESSION"
)

// FeeType selects how a class is billed.
type FeeType string

const (
	FeeMonthly    FeeType = "MONTHLY"
	FeePerSession FeeType = "PER_SESSION"
	FeePerCourse  FeeType = "PER_COURSE"
)

// AttendanceStatus is the mark recorded for one student at one class meeting.
type AttendanceStatus string

const (
	AttendancePresent  AttendanceStatus = "PRESENT"
	AttendanceAbsent   AttendanceStatus = "ABSENT"
	AttendanceLate     AttendanceStatus = "LATE"
	AttendanceUnmarked AttendanceStatus = "UNMARKED"
)

// Attended reports whether the mark counts as a billable session.
func (s AttendanceStatus) Attended() bool {
	return s == AttendancePresent || s == AttendanceLate
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceUnpaid    InvoiceStatus = "UNPAID"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// TransactionType classifies a ledger line.
type TransactionType string

const (
	TxInvoice          TransactionType = "INVOICE"
	TxPayment          TransactionType = "PAYMENT"
	TxAdjustmentCredit TransactionType = "ADJUSTMENT_CREDIT"
	TxAdjustmentDebit  TransactionType = "ADJUSTMENT_DEBIT"
)

// UserRole identifies which collection holds a login.
type UserRole string

const (
	RoleParent     UserRole = "PARENT"
	RoleTeacher    UserRole = "TEACHER"
	RoleManager    UserRole = "MANAGER"
	RoleAccountant UserRole = "ACCOUNTANT"
	RoleAdmin      UserRole = "ADMIN"
)

// Record is implemented by every id-keyed entity.
type Record interface {
	RecordID() string
}

type Student struct {
	ID         string          `json:"id" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	Status     PersonStatus    `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	Balance    decimal.Decimal `json:"balance"`
	Phone      string          `json:"phone,omitempty"`
	ParentName string          `json:"parentName,omitempty"`
	Email      string          `json:"email,omitempty" validate:"omitempty,email"`
	Password   string          `json:"password,omitempty"`
	CreatedAt  string          `json:"createdAt,omitempty"`
}

func (s Student) RecordID() string { return s.ID }

type Teacher struct {
	ID         string          `json:"id" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	Status     PersonStatus    `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	SalaryType SalaryType      `json:"salaryType" validate:"omitempty,oneof=MONTHLY PER_SESSION"`
	Rate       decimal.Decimal `json:"rate"`
	Phone      string          `json:"phone,omitempty"`
	Email      string          `json:"email,omitempty" validate:"omitempty,email"`
	Password   string          `json:"password,omitempty"`
	CreatedAt  string          `json:"createdAt,omitempty"`
}

func (t Teacher) RecordID() string { return t.ID }

type Staff struct {
	ID        string   `json:"id" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	Role      UserRole `json:"role,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Password  string   `json:"password,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

func (s Staff) RecordID() string { return s.ID }

// Fee is the billing rule attached to a class.
type Fee struct {
	Type   FeeType         `json:"type" validate:"omitempty,oneof=MONTHLY PER_SESSION PER_COURSE"`
	Amount decimal.Decimal `json:"amount"`
}

// Class groups students and teachers by id. Ids in StudentIDs/TeacherIDs are
// not checked against the student and teacher collections.
type Class struct {
	ID         string   `json:"id" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Fee        Fee      `json:"fee"`
	StudentIDs []string `json:"studentIds"`
	TeacherIDs []string `json:"teacherIds"`
	Schedule   string   `json:"schedule,omitempty"`
}

func (c Class) RecordID() string { return c.ID }

// HasStudent reports whether id is enrolled in the class.
func (c Class) HasStudent(id string) bool { return contains(c.StudentIDs, id) }

// HasTeacher reports whether id teaches the class.
func (c Class) HasTeacher(id string) bool { return contains(c.TeacherIDs, id) }

type AttendanceRecord struct {
	ID        string           `json:"id"`
	ClassID   string           `json:"classId" validate:"required"`
	StudentID string           `json:"studentId" validate:"required"`
	Date      string           `json:"date" validate:"required,datetime=2006-01-02"`
	Status    AttendanceStatus `json:"status" validate:"omitempty,oneof=PRESENT ABSENT LATE UNMARKED"`
}

func (a AttendanceRecord) RecordID() string { return a.ID }

// Key is the logical identity of an attendance mark across devices.
func (a AttendanceRecord) Key() string {
	return a.ClassID + "|" + a.StudentID + "|" + a.Date
}

type Invoice struct {
	ID            string          `json:"id"`
	StudentID     string          `json:"studentId"`
	StudentName   string          `json:"studentName"`
	Month         string          `json:"month"`
	Amount        decimal.Decimal `json:"amount"`
	Details       string          `json:"details"`
	Status        InvoiceStatus   `json:"status"`
	GeneratedDate string          `json:"generatedDate"`
	PaidDate      *string         `json:"paidDate"`
}

func (i Invoice) RecordID() string { return i.ID }

type Transaction struct {
	ID               string          `json:"id"`
	StudentID        string          `json:"studentId"`
	Date             string          `json:"date"`
	Type             TransactionType `json:"type"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	RelatedInvoiceID string          `json:"relatedInvoiceId,omitempty"`
}

func (t Transaction) RecordID() string { return t.ID }

type ProgressReport struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId" validate:"required"`
	ClassID   string `json:"classId" validate:"required"`
	Date      string `json:"date"`
	Comments  string `json:"comments,omitempty"`
	Score     string `json:"score,omitempty"`
}

func (p ProgressReport) RecordID() string { return p.ID }

// Payroll ids are derived from (teacher, month); see PayrollID.
type Payroll struct {
	ID              string          `json:"id"`
	TeacherID       string          `json:"teacherId"`
	TeacherName     string          `json:"teacherName"`
	Month           string          `json:"month"`
	SessionsTaught  int             `json:"sessionsTaught"`
	Rate            decimal.Decimal `json:"rate"`
	BaseSalary      decimal.Decimal `json:"baseSalary"`
	TotalSalary     decimal.Decimal `json:"totalSalary"`
	CalculationDate string          `json:"calculationDate"`
}

func (p Payroll) RecordID() string { return p.ID }

// PayrollID returns the deterministic id of a teacher's payroll row.
func PayrollID(teacherID string, month Month) string {
	return "PAY-" + teacherID + "-" + month.String()
}

// LedgerLine is an income or expense entry not tied to a student.
type LedgerLine struct {
	ID          string          `json:"id"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

func (l LedgerLine) RecordID() string { return l.ID }

type Income = LedgerLine
type Expense = LedgerLine

type Announcement struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	ClassID   string `json:"classId,omitempty"`
}

func (a Announcement) RecordID() string { return a.ID }

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
