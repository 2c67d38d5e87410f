// Package model defines the records held by the tutorbook store and the
// aggregate that persists them.
//
// The Aggregate is the single unit of persistence: every write round-trips
// the whole value. Decode runs the one-shot normalization/migration step, so
// code downstream of it can rely on non-nil slices, defaulted status fields
// and the current schema version.
//
// # Sign Convention
//
// Transaction amounts are signed from the student's point of view:
//   - INVOICE and ADJUSTMENT_DEBIT are negative (the student owes money)
//   - PAYMENT and ADJUSTMENT_CREDIT are positive
//
// Student.Balance is a cached projection of the sum of that student's
// transaction amounts. Ledger operations keep both in step.
package model
