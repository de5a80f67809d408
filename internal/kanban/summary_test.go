package kanban

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/takt/internal/model"
)

func TestSummarize_BottleneckIsLargestWIPGap(t *testing.T) {
	g := evalGraph(t, []model.NodeRecord{
		{ID: "p1", Kind: "process", Data: model.NodeData{Label: "Welding", CT: 60, WIPCap: 5, ActiveProductionKanban: 1}},
		{ID: "p2", Kind: "process", Data: model.NodeData{Label: "Paint", CT: 60, WIPCap: 10, ActiveProductionKanban: 1}},
	}, nil)
	ev := newEvaluator(t, g)

	eval := ev.Evaluate(map[string]int{"p1": 8, "p2": 11})
	summary := ev.Summarize(eval, SummaryInput{})

	// p1 sits 3 over its cap, p2 only 1.
	assert.Equal(t, "Welding", summary.Bottleneck)
}

func TestSummarize_BottleneckNamedEvenWithoutWIPCaps(t *testing.T) {
	g := evalGraph(t, []model.NodeRecord{
		{ID: "p1", Kind: "process", Data: model.NodeData{Label: "Welding", CT: 60, ActiveProductionKanban: 1}},
		{ID: "p2", Kind: "process", Data: model.NodeData{Label: "Paint", CT: 60, ActiveProductionKanban: 1}},
	}, nil)
	ev := newEvaluator(t, g)

	eval := ev.Evaluate(map[string]int{"p1": 2, "p2": 3})
	summary := ev.Summarize(eval, SummaryInput{})

	assert.Equal(t, "Welding", summary.Bottleneck, "first process node stands in when no cap is exceeded")
}

func TestSummarize_ThroughputIsMinimumProcessOutput(t *testing.T) {
	g := evalGraph(t, []model.NodeRecord{
		{ID: "p1", Kind: "process", Data: model.NodeData{Capacity: 50, ActiveProductionKanban: 5, KanbanCardCapacity: 10, Yield: 100}},
		{ID: "p2", Kind: "process", Data: model.NodeData{Capacity: 30, ActiveProductionKanban: 2, KanbanCardCapacity: 10, Yield: 100}},
	}, nil)
	ev := newEvaluator(t, g)

	eval := ev.Evaluate(nil)
	summary := ev.Summarize(eval, SummaryInput{})
	assert.InDelta(t, 20.0, summary.Throughput, 1e-9, "p2's card limit is the tightest bound")
}

func TestSummarize_ThroughputFallsBackToFulfilled(t *testing.T) {
	g := evalGraph(t, []model.NodeRecord{
		{ID: "i1", Kind: "inventory", Data: model.NodeData{Inventory: 100}},
	}, nil)
	ev := newEvaluator(t, g)

	eval := ev.Evaluate(nil)
	summary := ev.Summarize(eval, SummaryInput{FulfilledQuantity: 42})
	assert.InDelta(t, 42.0, summary.Throughput, 1e-9)
}

func TestSummarize_Adherence(t *testing.T) {
	// One violating node out of four: 75% adherence.
	g := evalGraph(t, []model.NodeRecord{
		{ID: "p1", Kind: "process", Data: model.NodeData{CT: 60}},
		{ID: "i1", Kind: "inventory", Data: model.NodeData{Inventory: 100}},
		{ID: "i2", Kind: "inventory", Data: model.NodeData{Inventory: 100}},
		{ID: "s1", Kind: "supplier", Data: model.NodeData{}},
	}, nil)
	ev := newEvaluator(t, g)

	eval := ev.Evaluate(nil)
	require.True(t, eval.States["p1"].ProductionWithoutKanban)

	summary := ev.Summarize(eval, SummaryInput{})
	assert.InDelta(t, 75.0, summary.KanbanAdherence, 1e-9)
}

func TestSummarize_StockoutIncidents(t *testing.T) {
	g := evalGraph(t, []model.NodeRecord{
		{ID: "i1", Kind: "inventory", Data: model.NodeData{Inventory: 0, ConsumptionRate: 5}},
		{ID: "i2", Kind: "inventory", Data: model.NodeData{Inventory: 50, ConsumptionRate: 5}},
	}, nil)
	ev := newEvaluator(t, g)

	eval := ev.Evaluate(nil)
	summary := ev.Summarize(eval, SummaryInput{AlertCount: 3, LeadTimeSeconds: 7200})

	assert.Equal(t, 1, summary.StockoutIncidents)
	assert.Equal(t, []string{"i1"}, summary.StockoutIncidentNodes)
	assert.Equal(t, 3, summary.AlertCount)
	assert.InDelta(t, 7200.0, summary.LeadTimeSeconds, 1e-9)
}

func TestAnalyticsFrom(t *testing.T) {
	a := AnalyticsFrom(Summary{
		KanbanAdherence:       87.5,
		StockoutIncidents:     2,
		StockoutIncidentNodes: []string{"i1", "i2"},
	})
	assert.InDelta(t, 87.5, a.KanbanAdherence, 1e-9)
	assert.Equal(t, 2, a.StockoutIncidents)
	assert.Equal(t, []string{"i1", "i2"}, a.StockoutIncidentNodes)
	assert.Equal(t, "unique-node-per-evaluation", a.StockoutIncidentMode)
}

func TestRotationIssues(t *testing.T) {
	g := evalGraph(t, []model.NodeRecord{
		{ID: "fifo", Kind: "inventory", Data: model.NodeData{
			Label: "Lane", FIFOEnabled: true, FIFOQueueAges: []float64{3, 8},
		}},
		{ID: "over", Kind: "inventory", Data: model.NodeData{
			Label: "Rack", Inventory: 15, MaxStock: 10,
		}},
		{ID: "fine", Kind: "inventory", Data: model.NodeData{Inventory: 5, MaxStock: 10}},
	}, nil)
	ev := newEvaluator(t, g)

	issues := ev.RotationIssues(ev.Evaluate(nil))
	require.Len(t, issues, 2)

	byNode := make(map[string]RotationIssue, len(issues))
	for _, issue := range issues {
		byNode[issue.NodeID] = issue
	}
	assert.Equal(t, "fifo_age_inversion", byNode["fifo"].Kind)
	assert.Equal(t, "overstock", byNode["over"].Kind)
	assert.Contains(t, byNode["over"].Message, "Rack")
}
