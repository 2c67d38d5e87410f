package harness

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/roach88/tutorbook/internal/ledger"
	"github.com/roach88/tutorbook/internal/model"
	"github.com/roach88/tutorbook/internal/store"
)

type operation func(ctx context.Context, h *Harness, args argMap) error

// operations maps scenario op names to store and ledger calls.
var operations = map[string]operation{
	"generate_invoices": func(ctx context.Context, h *Harness, args argMap) error {
		m, err := args.month("month")
		if err != nil {
			return err
		}
		_, err = h.ledger.GenerateInvoices(ctx, m)
		return err
	},
	"generate_payrolls": func(ctx context.Context, h *Harness, args argMap) error {
		m, err := args.month("month")
		if err != nil {
			return err
		}
		_, err = h.ledger.GeneratePayrolls(ctx, m)
		return err
	},
	"cancel_invoice": func(ctx context.Context, h *Harness, args argMap) error {
		return h.ledger.CancelInvoice(ctx, args.str("id"))
	},
	"mark_paid": func(ctx context.Context, h *Harness, args argMap) error {
		return h.ledger.MarkInvoicePaid(ctx, args.str("id"))
	},
	"adjust": func(ctx context.Context, h *Harness, args argMap) error {
		amount, err := args.amount("amount")
		if err != nil {
			return err
		}
		_, err = h.ledger.AddAdjustment(ctx, ledger.Adjustment{
			StudentID:   args.str("student"),
			Amount:      amount,
			Direction:   ledger.Direction(args.str("direction")),
			Date:        args.str("date"),
			Description: args.str("description"),
		})
		return err
	},
	"edit_transaction": func(ctx context.Context, h *Harness, args argMap) error {
		amount, err := args.amount("amount")
		if err != nil {
			return err
		}
		tx, err := store.Get(ctx, h.store, store.Transactions, args.str("id"))
		if err != nil {
			return err
		}
		tx.Amount = amount
		return h.ledger.EditTransaction(ctx, tx)
	},
	"delete_transaction": func(ctx context.Context, h *Harness, args argMap) error {
		return h.ledger.DeleteTransaction(ctx, args.str("id"))
	},
	"clear_transactions": func(ctx context.Context, h *Harness, _ argMap) error {
		return h.ledger.ClearAllTransactions(ctx)
	},
	"set_attendance": func(ctx context.Context, h *Harness, args argMap) error {
		marks := args.strMap("marks")
		students := make([]string, 0, len(marks))
		for id := range marks {
			students = append(students, id)
		}
		slices.Sort(students)
		records := make([]model.AttendanceRecord, 0, len(students))
		for _, id := range students {
			records = append(records, model.AttendanceRecord{
				ClassID:   args.str("class"),
				StudentID: id,
				Date:      args.str("date"),
				Status:    model.AttendanceStatus(marks[id]),
			})
		}
		return h.store.ReplaceAttendance(ctx, records)
	},
	"add_student": func(ctx context.Context, h *Harness, args argMap) error {
		st := model.Student{ID: args.str("id"), Name: args.str("name")}
		return h.store.AddStudent(ctx, st, args.strs("classes"))
	},
	"rename_student": func(ctx context.Context, h *Harness, args argMap) error {
		from := args.str("from")
		agg, err := h.store.Load(ctx)
		if err != nil {
			return err
		}
		st, ok := store.Find(agg, store.Students, from)
		if !ok {
			return model.NewNotFoundError(model.CollStudents, from)
		}
		var classes []string
		for _, c := range agg.Classes {
			if c.HasStudent(from) {
				classes = append(classes, c.ID)
			}
		}
		st.ID = args.str("to")
		return h.store.UpdateStudent(ctx, from, st, classes)
	},
	"delete_student": func(ctx context.Context, h *Harness, args argMap) error {
		return h.store.DeleteStudent(ctx, args.str("id"))
	},
	"delete_teacher": func(ctx context.Context, h *Harness, args argMap) error {
		return h.store.DeleteTeacher(ctx, args.str("id"))
	},
	"delete_class": func(ctx context.Context, h *Harness, args argMap) error {
		return h.store.DeleteClass(ctx, args.str("id"))
	},
	"restore": func(ctx context.Context, h *Harness, args argMap) error {
		return h.store.Restore(ctx, []byte(args.str("document")))
	},
	"advance_days": func(_ context.Context, h *Harness, args argMap) error {
		h.clock.AddDays(args.integer("days"))
		return nil
	},
}

// argMap is the loosely typed argument object of a step.
type argMap map[string]any

func (a argMap) str(key string) string {
	switch v := a[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (a argMap) integer(key string) int {
	if v, ok := a[key].(int); ok {
		return v
	}
	return 0
}

func (a argMap) strs(key string) []string {
	list, _ := a[key].([]any)
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func (a argMap) strMap(key string) map[string]string {
	m, _ := a[key].(map[string]any)
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func (a argMap) month(key string) (model.Month, error) {
	return model.ParseMonth(a.str(key))
}

func (a argMap) amount(key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(a.str(key))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
