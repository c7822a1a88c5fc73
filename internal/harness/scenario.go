package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines a store test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Start is the clock's initial time. Defaults to testutil.Epoch.
	Start time.Time `yaml:"start,omitempty"`

	// BatchSize overrides the store's rows per INSERT.
	BatchSize int `yaml:"batch_size,omitempty"`

	// Retention overrides the store's retention period.
	Retention time.Duration `yaml:"retention,omitempty"`

	// Steps run in order. Each step does exactly one thing.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and the final table.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one operation against the store or the clock.
type Step struct {
	// Name identifies the step in assertions and the trace.
	Name string `yaml:"name"`

	// Save appends the events in one Save call.
	Save []EventSpec `yaml:"save,omitempty"`

	// Advance moves the clock forward.
	Advance time.Duration `yaml:"advance,omitempty"`

	// Purge runs PurgeExpired.
	Purge bool `yaml:"purge,omitempty"`

	// Query runs one read operation.
	Query *Query `yaml:"query,omitempty"`
}

// EventSpec describes an event relative to the scenario start. Empty
// fields get valid defaults; set a field to an invalid value to test
// rejection.
type EventSpec struct {
	At                 time.Duration `yaml:"at"`
	Type               string        `yaml:"type,omitempty"`
	ConfirmationType   string        `yaml:"confirmation_type,omitempty"`
	PlacementID        string        `yaml:"placement_id"`
	CreativeInstanceID string        `yaml:"creative_instance_id,omitempty"`
	TargetURL          *string       `yaml:"target_url,omitempty"`
}

// Query operations.
const (
	OpDateRange = "date_range"
	OpRanked    = "ranked"
	OpCreative  = "creative"
)

// Query selects a read operation and its arguments.
type Query struct {
	// Op is one of date_range, ranked or creative.
	Op string `yaml:"op"`

	// From and To bound date_range and ranked, as offsets from the start.
	From time.Duration `yaml:"from,omitempty"`
	To   time.Duration `yaml:"to,omitempty"`

	// CreativeInstanceID selects the creative for the creative op.
	CreativeInstanceID string `yaml:"creative_instance_id,omitempty"`
}

// Assertion validates the trace or final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Step names the query step (result_count, result_placements).
	Step string `yaml:"step,omitempty"`

	// Count is the expected number (result_count, row_count, diagnostics).
	Count int `yaml:"count,omitempty"`

	// Placements is the expected ordered placement ids (result_placements).
	Placements []string `yaml:"placements,omitempty"`

	// Reason filters diagnostics by reason.
	Reason string `yaml:"reason,omitempty"`
}

// Assertion type constants.
const (
	AssertResultCount      = "result_count"
	AssertResultPlacements = "result_placements"
	AssertRowCount         = "row_count"
	AssertDiagnostics      = "diagnostics"
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
	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
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

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.BatchSize < 0 {
		return fmt.Errorf("batch_size must be non-negative")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	steps := make(map[string]*Step, len(s.Steps))
	for i := range s.Steps {
		step := &s.Steps[i]
		if err := validateStep(i, step); err != nil {
			return err
		}
		if _, dup := steps[step.Name]; dup {
			return fmt.Errorf("steps[%d]: duplicate name %q", i, step.Name)
		}
		steps[step.Name] = step
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, steps); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks that a step names exactly one well-formed action.
func validateStep(index int, step *Step) error {
	if step.Name == "" {
		return fmt.Errorf("steps[%d]: name is required", index)
	}

	actions := 0
	if step.Save != nil {
		actions++
	}
	if step.Advance != 0 {
		actions++
	}
	if step.Purge {
		actions++
	}
	if step.Query != nil {
		actions++
	}
	if actions != 1 {
		return fmt.Errorf("steps[%d] %q: exactly one of save, advance, purge or query is required", index, step.Name)
	}

	if step.Advance < 0 {
		return fmt.Errorf("steps[%d] %q: advance must be positive", index, step.Name)
	}

	for j, e := range step.Save {
		if e.PlacementID == "" {
			return fmt.Errorf("steps[%d].save[%d]: placement_id is required", index, j)
		}
	}

	if q := step.Query; q != nil {
		switch q.Op {
		case OpDateRange, OpRanked:
		case OpCreative:
			if q.CreativeInstanceID == "" {
				return fmt.Errorf("steps[%d] %q: creative_instance_id is required for creative", index, step.Name)
			}
		default:
			return fmt.Errorf("steps[%d] %q: unknown query op %q", index, step.Name, q.Op)
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion, steps map[string]*Step) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	if a.Count < 0 {
		return fmt.Errorf("assertions[%d]: count must be non-negative", index)
	}

	switch a.Type {
	case AssertResultCount, AssertResultPlacements:
		step, ok := steps[a.Step]
		if !ok {
			return fmt.Errorf("assertions[%d]: unknown step %q", index, a.Step)
		}
		if step.Query == nil {
			return fmt.Errorf("assertions[%d]: step %q is not a query", index, a.Step)
		}
		if a.Type == AssertResultPlacements && a.Placements == nil {
			return fmt.Errorf("assertions[%d]: placements is required for result_placements", index)
		}
	case AssertRowCount, AssertDiagnostics:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
