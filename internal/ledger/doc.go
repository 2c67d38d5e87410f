// Package ledger implements the batch and lifecycle operations that move
// student balances.
//
// Every operation keeps the balance invariant: a student's balance equals
// the sum of its transaction amounts. Negative amounts are charges, positive
// amounts are credits.
//
// Invoice lifecycle:
//
//	UNPAID -> PAID
//	UNPAID -> CANCELLED
//
// PAID and CANCELLED are terminal. Cancelling refunds the charge with an
// ADJUSTMENT_CREDIT transaction; marking paid records no money movement,
// payments are posted separately as CREDIT adjustments.
//
// Editing or deleting a transaction paired with an invoice does not touch
// the invoice. Audit reports any resulting drift.
package ledger
