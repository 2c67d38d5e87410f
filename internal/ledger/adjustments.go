package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roach88/tutorbook/internal/model"
	"github.com/roach88/tutorbook/internal/store"
)

// errNoChange aborts a store update that turned out to be a no-op.
var errNoChange = errors.New("no change")

func result(op string, err error) error {
	if err == nil || errors.Is(err, errNoChange) {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Direction is the sign of a manual adjustment.
type Direction string

const (
	Credit Direction = "CREDIT"
	Debit  Direction = "DEBIT"
)

// Adjustment is a manual balance change for one student.
type Adjustment struct {
	StudentID   string
	Amount      decimal.Decimal // positive; Direction picks the sign
	Direction   Direction
	Date        string // defaults to today
	Description string
}

// AddAdjustment posts a signed transaction for adj and applies it to the
// student's balance. Credits are recorded as PAYMENT, debits as
// ADJUSTMENT_DEBIT.
func (e *Engine) AddAdjustment(ctx context.Context, adj Adjustment) (model.Transaction, error) {
	if !adj.Amount.IsPositive() {
		return model.Transaction{}, invalidAdjustment("amount must be positive")
	}
	tx := model.Transaction{
		ID:          e.store.IDs().NewID(model.PrefixTransaction),
		StudentID:   adj.StudentID,
		Date:        adj.Date,
		Description: adj.Description,
	}
	switch adj.Direction {
	case Credit:
		tx.Type = model.TxPayment
		tx.Amount = adj.Amount
	case Debit:
		tx.Type = model.TxAdjustmentDebit
		tx.Amount = adj.Amount.Neg()
	default:
		return model.Transaction{}, invalidAdjustment(fmt.Sprintf("direction %q is not CREDIT or DEBIT", adj.Direction))
	}
	if tx.Date == "" {
		tx.Date = e.store.Today()
	}
	err := e.store.Update(ctx, func(agg *model.Aggregate) error {
		if _, ok := store.Find(agg, store.Students, adj.StudentID); !ok {
			return model.NewNotFoundError(model.CollStudents, adj.StudentID)
		}
		agg.Transactions = append(agg.Transactions, tx)
		adjustBalance(agg, adj.StudentID, tx.Amount)
		return nil
	})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("add adjustment: %w", err)
	}
	return tx, nil
}

func invalidAdjustment(msg string) error {
	return &model.Error{Code: model.ErrCodeInvalidRecord, Message: "adjustment: " + msg, Collection: model.CollTransactions}
}

// EditTransaction replaces the stored transaction with tx and moves the
// owning balance by the difference. Moving it to an unknown student fails
// with NOT_FOUND. A paired invoice is not updated.
func (e *Engine) EditTransaction(ctx context.Context, tx model.Transaction) error {
	err := e.store.Update(ctx, func(agg *model.Aggregate) error {
		old, ok := store.Find(agg, store.Transactions, tx.ID)
		if !ok {
			return model.NewNotFoundError(model.CollTransactions, tx.ID)
		}
		if tx.StudentID != old.StudentID {
			if _, ok := store.Find(agg, store.Students, tx.StudentID); !ok {
				return model.NewNotFoundError(model.CollStudents, tx.StudentID)
			}
		}
		if err := store.ReplaceIn(agg, store.Transactions, tx.ID, tx); err != nil {
			return err
		}
		adjustBalance(agg, old.StudentID, old.Amount.Neg())
		adjustBalance(agg, tx.StudentID, tx.Amount)
		return nil
	})
	return result("edit transaction", err)
}

// DeleteTransaction removes a transaction and reverses its amount on the
// owning balance. A paired invoice is not updated.
func (e *Engine) DeleteTransaction(ctx context.Context, id string) error {
	err := e.store.Update(ctx, func(agg *model.Aggregate) error {
		old, ok := store.Find(agg, store.Transactions, id)
		if !ok {
			return model.NewNotFoundError(model.CollTransactions, id)
		}
		if err := store.RemoveFrom(agg, store.Transactions, id); err != nil {
			return err
		}
		adjustBalance(agg, old.StudentID, old.Amount.Neg())
		return nil
	})
	return result("delete transaction", err)
}

// ClearAllTransactions removes every transaction and invoice and zeroes
// every balance.
func (e *Engine) ClearAllTransactions(ctx context.Context) error {
	err := e.store.Update(ctx, func(agg *model.Aggregate) error {
		agg.Transactions = []model.Transaction{}
		agg.Invoices = []model.Invoice{}
		for i := range agg.Students {
			agg.Students[i].Balance = decimal.Zero
		}
		return nil
	})
	if err == nil {
		e.logger.Info("ledger cleared")
	}
	return result("clear transactions", err)
}

// adjustBalance adds delta to the student's balance. Unknown students are
// ignored.
func adjustBalance(agg *model.Aggregate, studentID string, delta decimal.Decimal) {
	for i := range agg.Students {
		if agg.Students[i].ID == studentID {
			agg.Students[i].Balance = agg.Students[i].Balance.Add(delta)
			return
		}
	}
}
