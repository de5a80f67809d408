package harness

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/takt/internal/compiler"
	"github.com/roach88/takt/internal/model"
	"github.com/roach88/takt/internal/sim"
	"github.com/roach88/takt/internal/testutil"
)

// DefaultBaseTime pins scenarios that declare no base_time.
const DefaultBaseTime = "2025-01-06T00:00:00Z"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if the expect clause and every assertion match.
	Pass bool `json:"pass"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Sim is the raw simulation result, for golden comparison and
	// further inspection.
	Sim *sim.Result `json:"sim"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a freshly built graph with a frozen clock
// and a fixed run token, so repeated executions produce identical
// results.
//
// Execution flow:
// 1. Build the graph (inline records or CUE directory)
// 2. Run the engine with deterministic helpers
// 3. Check the expect clause
// 4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	graph, err := buildGraph(scenario)
	if err != nil {
		return nil, err
	}

	baseTime := scenario.BaseTime
	if baseTime == "" {
		baseTime = DefaultBaseTime
	}
	base, err := time.Parse(time.RFC3339, baseTime)
	if err != nil {
		return nil, fmt.Errorf("invalid base_time: %w", err)
	}

	clock := testutil.NewFrozenClock(base)
	tokens := testutil.NewFixedTokenGenerator(scenario.RunToken)

	engine := sim.New(graph,
		sim.WithNow(clock.Now),
		sim.WithTokenGenerator(tokens),
		sim.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // suppress logs in tests
	)

	due := base.Add(time.Duration(scenario.Demand.DueInDays * float64(24*time.Hour)))
	simResult, err := engine.Simulate(scenario.Demand.Node, scenario.Demand.Quantity, due)
	if err != nil {
		return nil, fmt.Errorf("failed to run simulation: %w", err)
	}

	result := NewResult()
	result.Sim = simResult

	checkExpect(scenario, simResult, result)
	for i, assertion := range scenario.Assertions {
		evaluateAssertion(i, &assertion, simResult, result)
	}

	return result, nil
}

// buildGraph constructs the scenario's graph from inline records or a
// CUE directory.
func buildGraph(scenario *Scenario) (*model.Graph, error) {
	if scenario.Network.Dir != "" {
		loaded, errs := compiler.LoadNetwork(scenario.Network.Dir, compiler.LoadModeFailFast)
		if len(errs) > 0 {
			return nil, fmt.Errorf("failed to load network: %w", errs[0])
		}
		return loaded.Graph, nil
	}

	graph, err := model.BuildGraph(scenario.Network.Nodes, scenario.Network.Edges)
	if err != nil {
		return nil, fmt.Errorf("failed to build network: %w", err)
	}
	return graph, nil
}

// checkExpect validates the expect clause against the simulation result.
func checkExpect(scenario *Scenario, simResult *sim.Result, result *Result) {
	expect := scenario.Expect
	if expect == nil {
		return
	}

	if simResult.Success != expect.Success {
		result.AddError(fmt.Sprintf("expected success=%t, got %t (root cause: %s)",
			expect.Success, simResult.Success, simResult.RootCause))
	}

	if expect.Fulfilled >= 0 && simResult.FulfilledQuantity != expect.Fulfilled {
		result.AddError(fmt.Sprintf("expected fulfilled=%d, got %d",
			expect.Fulfilled, simResult.FulfilledQuantity))
	}

	if expect.RootCauseContains != "" && !containsFold(simResult.RootCause, expect.RootCauseContains) {
		result.AddError(fmt.Sprintf("expected root cause containing %q, got %q",
			expect.RootCauseContains, simResult.RootCause))
	}
}
