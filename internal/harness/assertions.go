package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/takt/internal/sim"
)

// evaluateAssertion checks one assertion against the simulation result,
// recording failures on the harness result.
func evaluateAssertion(index int, a *Assertion, simResult *sim.Result, result *Result) {
	switch a.Type {
	case AssertScheduleContains:
		assertScheduleContains(index, a, simResult, result)
	case AssertShortageAt:
		assertShortageAt(index, a, simResult, result)
	case AssertAlertEmitted:
		assertAlertEmitted(index, a, simResult, result)
	case AssertCostTotalMax:
		assertCostTotalMax(index, a, simResult, result)
	default:
		// Unknown types are rejected at load time; reaching here means the
		// scenario bypassed LoadScenario.
		result.AddError(fmt.Sprintf("assertions[%d]: unknown type %q", index, a.Type))
	}
}

func assertScheduleContains(index int, a *Assertion, simResult *sim.Result, result *Result) {
	for _, entry := range simResult.Schedule {
		if entry.NodeID != a.Node {
			continue
		}
		if entry.Failed || entry.NotProcessed {
			continue
		}
		if a.Entry != "" && string(entry.Type) != a.Entry {
			continue
		}
		return
	}
	if a.Entry != "" {
		result.AddError(fmt.Sprintf("assertions[%d]: no %s schedule entry for node %s", index, a.Entry, a.Node))
		return
	}
	result.AddError(fmt.Sprintf("assertions[%d]: no schedule entry for node %s", index, a.Node))
}

func assertShortageAt(index int, a *Assertion, simResult *sim.Result, result *Result) {
	status, ok := simResult.NodeStatus[a.Node]
	if !ok || status.Shortage <= 0 {
		result.AddError(fmt.Sprintf("assertions[%d]: no shortage recorded at node %s", index, a.Node))
		return
	}
	if a.Qty > 0 && status.Shortage != a.Qty {
		result.AddError(fmt.Sprintf("assertions[%d]: expected shortage %d at node %s, got %d",
			index, a.Qty, a.Node, status.Shortage))
	}
}

func assertAlertEmitted(index int, a *Assertion, simResult *sim.Result, result *Result) {
	for _, alert := range simResult.Alerts {
		if string(alert.RuleCode) != a.RuleCode {
			continue
		}
		if a.Node != "" && alert.EntityID != a.Node {
			continue
		}
		return
	}
	if a.Node != "" {
		result.AddError(fmt.Sprintf("assertions[%d]: alert %s not emitted for node %s", index, a.RuleCode, a.Node))
		return
	}
	result.AddError(fmt.Sprintf("assertions[%d]: alert %s not emitted", index, a.RuleCode))
}

func assertCostTotalMax(index int, a *Assertion, simResult *sim.Result, result *Result) {
	if simResult.Cost.Total > a.Max {
		result.AddError(fmt.Sprintf("assertions[%d]: total cost %.2f exceeds ceiling %.2f",
			index, simResult.Cost.Total, a.Max))
	}
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
