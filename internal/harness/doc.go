// Package harness runs ledger scenarios written in YAML against a fresh
// in-memory store and checks the outcome.
//
// # Scenario Format
//
//	name: invoice_cycle
//	description: "What this scenario validates"
//	seed: sample            # or "empty"
//	today: "2024-05-15"     # clock date, defaults to 2024-05-15
//	setup:
//	  - op: set_attendance
//	    args: { class: C002, date: "2024-05-07", marks: { S001: PRESENT } }
//	flow:
//	  - op: generate_invoices
//	    args: { month: "2024-05" }
//	  - op: cancel_invoice
//	    args: { id: INV-SEED-001 }
//	    expect:
//	      error: INVALID_TRANSITION
//	assertions:
//	  - type: balance
//	    student: S001
//	    amount: "-1200000"
//	  - type: ledger_balanced
//
// # Assertion Types
//
//   - balance: a student's stored balance equals amount
//   - invoice: an invoice has the given status and/or amount
//   - count: a collection holds exactly count records
//   - ledger_balanced: every balance equals the sum of its transactions
//
// # Deterministic Runs
//
// Every run uses its own in-memory database, a frozen clock and sequential
// ids ("INV-0001", "TRX-0001", ...), so the trace and the final state are
// reproducible and can be compared against golden files.
package harness
