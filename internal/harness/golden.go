package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/takt/internal/sim"
)

// Snapshot captures the complete result of a scenario execution.
// Map keys marshal in sorted order, so a frozen clock and fixed run
// token make the snapshot byte-stable across runs.
type Snapshot struct {
	ScenarioName string      `json:"scenario_name"`
	RunToken     string      `json:"run_token,omitempty"`
	Result       *sim.Result `json:"result"`
}

// RunWithGolden executes a scenario and compares the result against a
// golden file. The golden file is stored in
// testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files serve as the source of truth for expected simulation
// output: schedule windows, ledgers, cost buckets, kanban states, and
// alerts all in one snapshot.
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the result doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already-executed result against a golden
// file, without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{
		ScenarioName: scenarioName,
		RunToken:     result.Sim.RunID,
		Result:       result.Sim,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
