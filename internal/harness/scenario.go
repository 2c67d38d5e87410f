package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tutorbook/internal/model"
)

// Seed names accepted by Scenario.Seed.
const (
	SeedSample = "sample"
	SeedEmpty  = "empty"
)

// DefaultToday is the clock date used when a scenario sets none.
const DefaultToday = "2024-05-15"

// Scenario is a scripted sequence of store and ledger operations with
// assertions on the resulting state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed selects the starting dataset: "sample" (default) or "empty".
	Seed string `yaml:"seed,omitempty"`

	// Today is the frozen clock date (YYYY-MM-DD).
	Today string `yaml:"today,omitempty"`

	// Setup steps run before the flow and must succeed. They are not traced.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow steps are traced; each may expect an error code.
	Flow []FlowStep `yaml:"flow"`

	Assertions []Assertion `yaml:"assertions"`
}

// Step is a single operation invocation.
type Step struct {
	Op   string         `yaml:"op"`
	Args map[string]any `yaml:"args,omitempty"`
}

// FlowStep is a traced step with an optional expectation.
type FlowStep struct {
	Op     string         `yaml:"op"`
	Args   map[string]any `yaml:"args,omitempty"`
	Expect *ExpectClause  `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a flow step.
type ExpectClause struct {
	// Error is the expected error code, e.g. "NOT_FOUND". Empty expects
	// success.
	Error string `yaml:"error"`
}

// Assertion validates the final state.
type Assertion struct {
	Type       string `yaml:"type"`
	Student    string `yaml:"student,omitempty"`
	Invoice    string `yaml:"invoice,omitempty"`
	Amount     string `yaml:"amount,omitempty"`
	Status     string `yaml:"status,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	Count      int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertBalance        = "balance"
	AssertInvoice        = "invoice"
	AssertCount          = "count"
	AssertLedgerBalanced = "ledger_balanced"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Seed == "" {
		scenario.Seed = SeedSample
	}
	if scenario.Today == "" {
		scenario.Today = DefaultToday
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Seed != SeedSample && s.Seed != SeedEmpty {
		return fmt.Errorf("seed must be %q or %q, got %q", SeedSample, SeedEmpty, s.Seed)
	}
	if _, err := time.Parse(model.DateLayout, s.Today); err != nil {
		return fmt.Errorf("today: %w", err)
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if _, ok := operations[step.Op]; !ok {
			return fmt.Errorf("setup[%d]: unknown op %q", i, step.Op)
		}
	}
	for i, step := range s.Flow {
		if _, ok := operations[step.Op]; !ok {
			return fmt.Errorf("flow[%d]: unknown op %q", i, step.Op)
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertBalance:
		if a.Student == "" || a.Amount == "" {
			return fmt.Errorf("assertions[%d]: student and amount are required for balance", index)
		}
	case AssertInvoice:
		if a.Invoice == "" {
			return fmt.Errorf("assertions[%d]: invoice is required for invoice", index)
		}
		if a.Status == "" && a.Amount == "" {
			return fmt.Errorf("assertions[%d]: status or amount is required for invoice", index)
		}
	case AssertCount:
		if _, ok := model.ParseCollection(a.Collection); !ok {
			return fmt.Errorf("assertions[%d]: unknown collection %q", index, a.Collection)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertLedgerBalanced:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
