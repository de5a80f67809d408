package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/takt/internal/model"
)

// Scenario defines a simulation test scenario.
// Scenarios run a demand against a network and assert on the outcome:
// feasibility, fulfilled quantity, schedule contents, shortages, alerts,
// and cost ceilings.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Network defines the graph, either inline or as a CUE directory.
	Network NetworkSource `yaml:"network"`

	// Demand is the order to promise.
	Demand Demand `yaml:"demand"`

	// Expect specifies the expected outcome.
	// If nil, only assertions are evaluated.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Assertions validate the result beyond the expect clause.
	// Supported types: schedule_contains, shortage_at, alert_emitted,
	// cost_total_max.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunToken is an optional fixed run token for deterministic tests.
	// If empty, defaults to "test-run-default" for golden comparison.
	RunToken string `yaml:"run_token,omitempty"`

	// BaseTime pins the simulation clock (RFC 3339). The demand due date
	// is BaseTime plus due_in_days. Defaults to 2025-01-06T00:00:00Z.
	BaseTime string `yaml:"base_time,omitempty"`
}

// NetworkSource is either an inline node/edge list or a path to a CUE
// network directory. Exactly one must be set.
type NetworkSource struct {
	Nodes []model.NodeRecord `yaml:"nodes,omitempty"`
	Edges []model.EdgeRecord `yaml:"edges,omitempty"`

	// Dir is a CUE network directory, relative to the scenario file.
	Dir string `yaml:"dir,omitempty"`
}

// Demand is the order under test.
type Demand struct {
	// Node is the id of the node to deliver at.
	Node string `yaml:"node"`

	// Quantity is the number of units ordered. Must be positive.
	Quantity int `yaml:"quantity"`

	// DueInDays offsets the due date from the scenario base time.
	DueInDays float64 `yaml:"due_in_days"`
}

// ExpectClause specifies the expected simulation outcome.
type ExpectClause struct {
	// Success is the expected feasibility verdict.
	Success bool `yaml:"success"`

	// Fulfilled is the expected fulfilled quantity.
	// Negative means "not checked".
	Fulfilled int `yaml:"fulfilled"`

	// RootCauseContains is a substring the root cause must contain.
	// Only meaningful when Success is false.
	RootCauseContains string `yaml:"root_cause_contains,omitempty"`
}

// Assertion validates one aspect of the result.
type Assertion struct {
	// Type specifies the assertion type:
	// - "schedule_contains": a schedule entry exists for the node
	// - "shortage_at": the node recorded a shortage (optionally of Qty)
	// - "alert_emitted": an alert with RuleCode fired (optionally at Node)
	// - "cost_total_max": total cost does not exceed Max
	Type string `yaml:"type"`

	// Node is the node id (schedule_contains, shortage_at, alert_emitted).
	Node string `yaml:"node,omitempty"`

	// Entry is the expected schedule entry type (schedule_contains).
	Entry string `yaml:"entry,omitempty"`

	// Qty is the expected shortage quantity (shortage_at); 0 = any.
	Qty int `yaml:"qty,omitempty"`

	// RuleCode is the expected alert rule (alert_emitted).
	RuleCode string `yaml:"rule_code,omitempty"`

	// Max is the cost ceiling (cost_total_max).
	Max float64 `yaml:"max,omitempty"`
}

// Assertion type constants.
const (
	AssertScheduleContains = "schedule_contains"
	AssertShortageAt       = "shortage_at"
	AssertAlertEmitted     = "alert_emitted"
	AssertCostTotalMax     = "cost_total_max"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the CUE directory relative to the scenario file.
	if scenario.Network.Dir != "" && !filepath.IsAbs(scenario.Network.Dir) {
		scenario.Network.Dir = filepath.Join(filepath.Dir(path), scenario.Network.Dir)
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

	inline := len(s.Network.Nodes) > 0
	if inline && s.Network.Dir != "" {
		return fmt.Errorf("network: inline nodes and dir are mutually exclusive")
	}
	if !inline && s.Network.Dir == "" {
		return fmt.Errorf("network: inline nodes or dir is required")
	}
	if s.Network.Dir != "" {
		if _, err := os.Stat(s.Network.Dir); os.IsNotExist(err) {
			return fmt.Errorf("network directory not found: %s", s.Network.Dir)
		}
	}

	if s.Demand.Node == "" {
		return fmt.Errorf("demand.node is required")
	}
	if s.Demand.Quantity <= 0 {
		return fmt.Errorf("demand.quantity must be positive")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertScheduleContains:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for schedule_contains", index)
		}
	case AssertShortageAt:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for shortage_at", index)
		}
		if a.Qty < 0 {
			return fmt.Errorf("assertions[%d]: qty must be non-negative for shortage_at", index)
		}
	case AssertAlertEmitted:
		if a.RuleCode == "" {
			return fmt.Errorf("assertions[%d]: rule_code is required for alert_emitted", index)
		}
	case AssertCostTotalMax:
		if a.Max <= 0 {
			return fmt.Errorf("assertions[%d]: max must be positive for cost_total_max", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
