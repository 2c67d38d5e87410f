package model

import (
	"time"

	"github.com/google/uuid"
)

// Id prefixes for generated records.
const (
	PrefixAttendance     = "ATT"
	PrefixInvoice        = "INV"
	PrefixTransaction    = "TRX"
	PrefixProgressReport = "PR"
	PrefixIncome         = "INC"
	PrefixExpense        = "EXP"
	PrefixAnnouncement   = "ANN"
)

// IDGenerator produces type-prefixed unique record ids.
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator generates ids of the form "<prefix>-<uuidv7>". UUIDv7 keeps
// generated ids sortable by creation time.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(prefix string) string {
	return prefix + "-" + uuid.Must(uuid.NewV7()).String()
}

// Clock supplies the current time for stamping dates.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
