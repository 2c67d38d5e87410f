package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/tutorbook/internal/backend"
	"github.com/roach88/tutorbook/internal/ledger"
	"github.com/roach88/tutorbook/internal/model"
	"github.com/roach88/tutorbook/internal/seed"
	"github.com/roach88/tutorbook/internal/store"
	"github.com/roach88/tutorbook/internal/testutil"
)

// Harness is the scenario execution environment.
type Harness struct {
	store  *store.Store
	ledger *ledger.Engine
	clock  *testutil.FixedClock
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
//  1. Open the database and seed it
//  2. Execute setup steps (any failure aborts the run)
//  3. Execute flow steps, checking expect clauses
//  4. Evaluate assertions against the final aggregate
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	db, err := backend.OpenDB(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer db.Close()

	today, err := time.Parse(model.DateLayout, scenario.Today)
	if err != nil {
		return nil, fmt.Errorf("invalid today: %w", err)
	}
	clock := testutil.NewFixedClock(today.Year(), today.Month(), today.Day())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in runs
	seedFn := seed.Aggregate
	if scenario.Seed == SeedEmpty {
		seedFn = func() (*model.Aggregate, error) { return model.NewAggregate(), nil }
	}
	sel := backend.NewSelector(db, backend.Options{Seed: seedFn, Logger: logger})
	st := store.New(sel, store.Options{Clock: clock, IDs: testutil.NewSequenceIDs(), Logger: logger})

	h := &Harness{
		store:  st,
		ledger: ledger.New(st, ledger.Options{Logger: logger}),
		clock:  clock,
		logger: logger,
	}

	result := NewResult()
	if err := h.executeSetup(ctx, scenario.Setup); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}
	h.executeFlow(ctx, scenario.Flow, result)

	final, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load final state: %w", err)
	}
	result.Final = final

	for _, msg := range EvaluateAssertions(final, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// executeSetup runs all setup steps. Setup steps must succeed.
func (h *Harness) executeSetup(ctx context.Context, setup []Step) error {
	for i, step := range setup {
		if err := h.invoke(ctx, step.Op, step.Args); err != nil {
			return fmt.Errorf("setup step %d (%s): %w", i, step.Op, err)
		}
		h.logger.Info("setup step completed", "step", i, "op", step.Op)
	}
	return nil
}

// executeFlow runs every flow step, recording the outcome in the trace and
// comparing it with the step's expect clause. A failing step does not stop
// the flow.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) {
	for i, step := range flow {
		err := h.invoke(ctx, step.Op, step.Args)
		outcome := outcomeOf(err)
		result.AddTrace(step.Op, outcome)

		want := "ok"
		if step.Expect != nil && step.Expect.Error != "" {
			want = step.Expect.Error
		}
		if outcome != want {
			msg := fmt.Sprintf("flow[%d] %s: expected %s, got %s", i, step.Op, want, outcome)
			if err != nil {
				msg += ": " + err.Error()
			}
			result.AddError(msg)
		}
	}
}

func (h *Harness) invoke(ctx context.Context, op string, args map[string]any) error {
	fn, ok := operations[op]
	if !ok {
		return fmt.Errorf("unknown op %q", op)
	}
	return fn(ctx, h, argMap(args))
}

// outcomeOf maps an operation error to its trace outcome.
func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	if code := model.CodeOf(err); code != "" {
		return string(code)
	}
	return "ERROR"
}
