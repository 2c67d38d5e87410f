package harness

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the golden-file view of a scenario run.
type Snapshot struct {
	Scenario string            `json:"scenario"`
	Trace    []TraceEvent      `json:"trace"`
	Balances map[string]string `json:"balances"`
	Invoices []InvoiceLine     `json:"invoices"`
}

// InvoiceLine is the golden-file view of one invoice.
type InvoiceLine struct {
	ID      string `json:"id"`
	Student string `json:"student"`
	Month   string `json:"month"`
	Amount  string `json:"amount"`
	Status  string `json:"status"`
}

// NewSnapshot builds the snapshot of a finished run.
func NewSnapshot(name string, result *Result) Snapshot {
	s := Snapshot{
		Scenario: name,
		Trace:    result.Trace,
		Balances: map[string]string{},
		Invoices: []InvoiceLine{},
	}
	if result.Final == nil {
		return s
	}
	for _, st := range result.Final.Students {
		s.Balances[st.ID] = st.Balance.String()
	}
	for _, inv := range result.Final.Invoices {
		s.Invoices = append(s.Invoices, InvoiceLine{
			ID:      inv.ID,
			Student: inv.StudentID,
			Month:   inv.Month,
			Amount:  inv.Amount.String(),
			Status:  string(inv.Status),
		})
	}
	return s
}

// MarshalSnapshot renders s as indented JSON with a trailing newline.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	data, err := MarshalSnapshot(NewSnapshot(scenario.Name, result))
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return result, nil
}
