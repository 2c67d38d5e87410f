package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the persisted calendar-date format.
const DateLayout = "2006-01-02"

// Month is a billing period.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth validates a (month, year) pair as supplied by callers of the
// batch operations.
func NewMonth(month, year int) (Month, error) {
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("month %d out of range 1-12", month)
	}
	if year < 1 || year > 9999 {
		return Month{}, fmt.Errorf("year %d out of range", year)
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// ParseMonth parses the persisted "YYYY-MM" form.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the period containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Contains reports whether a "YYYY-MM-DD" date falls in the period.
func (m Month) Contains(date string) bool {
	return strings.HasPrefix(date, m.String())
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
