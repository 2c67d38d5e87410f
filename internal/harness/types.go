package harness

import "github.com/roach88/tutorbook/internal/model"

// TraceEvent records one executed flow step.
type TraceEvent struct {
	Seq     int    `json:"seq"`
	Op      string `json:"op"`
	Outcome string `json:"outcome"` // "ok" or the error code
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`

	// Final is the aggregate after the flow ran.
	Final *model.Aggregate `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a flow step to the trace.
func (r *Result) AddTrace(op, outcome string) {
	r.Trace = append(r.Trace, TraceEvent{Seq: len(r.Trace) + 1, Op: op, Outcome: outcome})
}
