package sim

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/takt/internal/model"
	"github.com/roach88/takt/internal/testutil"
)

var testNow = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func buildGraph(t *testing.T, nodes []model.NodeRecord, edges []model.EdgeRecord) *model.Graph {
	t.Helper()
	g, err := model.BuildGraph(nodes, edges)
	require.NoError(t, err)
	return g
}

func newTestEngine(t *testing.T, g *model.Graph) *Engine {
	t.Helper()
	clock := testutil.NewFrozenClock(testNow)
	return New(g,
		WithNow(clock.Now),
		WithTokenGenerator(testutil.NewFixedTokenGenerator("test-run-1")),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func node(id, kind string, data model.NodeData) model.NodeRecord {
	return model.NodeRecord{ID: id, Kind: kind, Data: data}
}

func edge(id, source, target string, data model.EdgeData) model.EdgeRecord {
	return model.EdgeRecord{ID: id, Source: source, Target: target, Data: data}
}

func due(days float64) time.Time {
	return testNow.Add(time.Duration(days * 24 * float64(time.Hour)))
}

// scheduleFor returns the non-failed, non-backfilled entries for a node.
func scheduleFor(r *Result, nodeID string) []ScheduleEntry {
	var entries []ScheduleEntry
	for _, s := range r.Schedule {
		if s.NodeID == nodeID && !s.Failed && !s.NotProcessed {
			entries = append(entries, s)
		}
	}
	return entries
}

func TestSimulate_SupplierToProcess(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("s1", "supplier", model.NodeData{Label: "Supplier"}),
			node("p1", "process", model.NodeData{Label: "Assembly", CT: 60}),
		},
		[]model.EdgeRecord{edge("e1", "s1", "p1", model.EdgeData{})},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 10, result.FulfilledQuantity)
	assert.Empty(t, result.RootCause)
	assert.Equal(t, "test-run-1", result.RunID)

	require.Len(t, scheduleFor(result, "s1"), 1)
	require.Len(t, scheduleFor(result, "p1"), 1)
	assert.Equal(t, EntrySupplier, scheduleFor(result, "s1")[0].Type)
	assert.Equal(t, EntryProcess, scheduleFor(result, "p1")[0].Type)

	// The process window ends at the due date and spans ct*qty.
	p := scheduleFor(result, "p1")[0]
	assert.Equal(t, due(7), p.End)
	assert.Equal(t, due(7).Add(-600*time.Second), p.Start)
}

func TestSimulate_SeqStrictlyIncreasing(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("s1", "supplier", model.NodeData{}),
			node("p1", "process", model.NodeData{CT: 60}),
		},
		[]model.EdgeRecord{edge("e1", "s1", "p1", model.EdgeData{})},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 5, due(7))
	require.NoError(t, err)

	var last int64
	for _, entry := range result.Schedule {
		assert.Greater(t, entry.Seq, last)
		last = entry.Seq
	}
}

func TestSimulate_CircularDependency(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("p1", "process", model.NodeData{Label: "One", CT: 60}),
			node("p2", "process", model.NodeData{Label: "Two", CT: 60}),
		},
		[]model.EdgeRecord{
			edge("e1", "p1", "p2", model.EdgeData{}),
			edge("e2", "p2", "p1", model.EdgeData{}),
		},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p2", 10, due(7))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, FailCircularDependency, result.FailureCode)
	assert.Contains(t, result.RootCause, "circular dependency")
}

func TestSimulate_LeadTimeViolation(t *testing.T) {
	// 10 units at 8h each need 10 working days; due in 2.
	g := buildGraph(t,
		[]model.NodeRecord{node("p1", "process", model.NodeData{Label: "Slow", CT: 28800})},
		nil,
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(2))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, FailLeadTime, result.FailureCode)
	assert.Contains(t, result.RootCause, "lead time")

	// The attempt stays visible in the schedule.
	var failed []ScheduleEntry
	for _, s := range result.Schedule {
		if s.NodeID == "p1" && s.Failed {
			failed = append(failed, s)
		}
	}
	assert.Len(t, failed, 1)
}

func TestSimulate_CapacityShortage(t *testing.T) {
	// One shift holds 28800s; 10 units at 3600s need 36000s on one day.
	g := buildGraph(t,
		[]model.NodeRecord{node("p1", "process", model.NodeData{Label: "Mill", CT: 3600})},
		nil,
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, FailCapacity, result.FailureCode)
	assert.Contains(t, result.RootCause, "capacity")
}

func TestSimulate_OvertimeExtendsCapacity(t *testing.T) {
	// Overtime adds 25% of one base shift: 28800 + 7200 = 36000s.
	g := buildGraph(t,
		[]model.NodeRecord{node("p1", "process", model.NodeData{CT: 3600, OvertimeAllowed: true})},
		nil,
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestSimulate_TwoShiftsExtendCapacity(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{node("p1", "process", model.NodeData{CT: 3600, ShiftPattern: 2})},
		nil,
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestSimulate_SufficientStockSkipsUpstream(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("s1", "supplier", model.NodeData{Label: "Supplier"}),
			node("i1", "inventory", model.NodeData{Label: "Buffer", Inventory: 100}),
			node("p1", "process", model.NodeData{Label: "Pack", CT: 60}),
		},
		[]model.EdgeRecord{
			edge("e1", "s1", "i1", model.EdgeData{}),
			edge("e2", "i1", "p1", model.EdgeData{}),
		},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 50, due(7))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, scheduleFor(result, "s1"), "supplier must not be recursed into")
	assert.Equal(t, 100, result.NodeStatus["i1"].Initial)
	assert.Equal(t, 50, result.NodeStatus["i1"].Final)
}

func TestSimulate_SafetyStockIsUntouchable(t *testing.T) {
	// 100 on hand, 80 reserved as safety stock: only 20 are free, so a
	// demand of 50 needs upstream replenishment of 30.
	g := buildGraph(t,
		[]model.NodeRecord{
			node("s1", "supplier", model.NodeData{Label: "Supplier"}),
			node("i1", "inventory", model.NodeData{Inventory: 100, SafetyStock: 80}),
			node("p1", "process", model.NodeData{CT: 60}),
		},
		[]model.EdgeRecord{
			edge("e1", "s1", "i1", model.EdgeData{}),
			edge("e2", "i1", "p1", model.EdgeData{}),
		},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 50, due(7))
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, scheduleFor(result, "s1"), 1)
	assert.Equal(t, 30, scheduleFor(result, "s1")[0].Quantity)
	assert.Equal(t, 80, result.NodeStatus["i1"].Final, "free stock consumed, safety stock intact")
}

func TestSimulate_MultiSourcePriorityOrder(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("s1", "supplier", model.NodeData{Label: "Primary"}),
			node("s2", "supplier", model.NodeData{Label: "Backup"}),
			node("i1", "inventory", model.NodeData{}),
			node("p1", "process", model.NodeData{CT: 60}),
		},
		[]model.EdgeRecord{
			edge("e1", "s1", "i1", model.EdgeData{Priority: 1}),
			edge("e2", "s2", "i1", model.EdgeData{Priority: 2}),
			edge("e3", "i1", "p1", model.EdgeData{}),
		},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, scheduleFor(result, "s1"), 1, "priority 1 source serves the request")
	assert.Empty(t, scheduleFor(result, "s2"), "priority 2 source is never asked")
}

func TestSimulate_PartialFulfillmentAccumulates(t *testing.T) {
	// 4 free units of stock, then the priority-1 feeder fails on lead
	// time, then the priority-2 supplier covers the remaining 6.
	g := buildGraph(t,
		[]model.NodeRecord{
			node("bad", "process", model.NodeData{Label: "Bad", CT: 28800 * 4}),
			node("good", "supplier", model.NodeData{Label: "Good"}),
			node("i1", "inventory", model.NodeData{Inventory: 4}),
			node("p1", "process", model.NodeData{CT: 60}),
		},
		[]model.EdgeRecord{
			edge("e1", "bad", "i1", model.EdgeData{Priority: 1}),
			edge("e2", "good", "i1", model.EdgeData{Priority: 2}),
			edge("e3", "i1", "p1", model.EdgeData{}),
		},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 10, result.FulfilledQuantity)
	require.Len(t, scheduleFor(result, "good"), 1)
	assert.Equal(t, 6, scheduleFor(result, "good")[0].Quantity)
	assert.Equal(t, 0, result.NodeStatus["i1"].Final)
}

func TestSimulate_StockoutWithoutUpstream(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("i1", "inventory", model.NodeData{Label: "Empty", Inventory: 3}),
			node("p1", "process", model.NodeData{CT: 60}),
		},
		[]model.EdgeRecord{edge("e1", "i1", "p1", model.EdgeData{})},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, FailMaterial, result.FailureCode)
	assert.Contains(t, result.RootCause, "stockout")
	assert.Equal(t, 3, result.FulfilledQuantity, "partial fulfillment is reported as-is")
}

func TestSimulate_DemandOnInventoryNodeServedFromStock(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("i1", "inventory", model.NodeData{Label: "Warehouse", Inventory: 20, SafetyStock: 5}),
		},
		nil,
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("i1", 10, due(7))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 10, result.FulfilledQuantity)
	assert.Equal(t, 10, result.NodeStatus["i1"].Final)
}

func TestSimulate_DemandOnDepletedInventoryNodeIsStockout(t *testing.T) {
	// All stock sits at or below safety level and there is no upstream
	// to replenish from.
	g := buildGraph(t,
		[]model.NodeRecord{
			node("i1", "inventory", model.NodeData{Label: "Warehouse", Inventory: 5, SafetyStock: 5}),
		},
		nil,
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("i1", 10, due(7))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.FulfilledQuantity)
	assert.Equal(t, FailMaterial, result.FailureCode)
	assert.Contains(t, result.RootCause, "stockout at")
	assert.Equal(t, 5, result.NodeStatus["i1"].Final, "safety stock is untouched")
}

func TestSimulate_InventoryEndNodeReplenishesUpstream(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("s1", "supplier", model.NodeData{Label: "Supplier"}),
			node("i1", "inventory", model.NodeData{Label: "Warehouse", Inventory: 4}),
		},
		[]model.EdgeRecord{edge("e1", "s1", "i1", model.EdgeData{})},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("i1", 10, due(7))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 10, result.FulfilledQuantity)
	supplierEntries := scheduleFor(result, "s1")
	require.Len(t, supplierEntries, 1)
	assert.Equal(t, 6, supplierEntries[0].Quantity, "supplier ships only the shortfall")
}

func TestSimulate_ShortageLedger(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("slow", "process", model.NodeData{Label: "Slow", CT: 28800 * 4}),
			node("i1", "inventory", model.NodeData{Inventory: 2}),
			node("p1", "process", model.NodeData{CT: 60}),
		},
		[]model.EdgeRecord{
			edge("e1", "slow", "i1", model.EdgeData{}),
			edge("e2", "i1", "p1", model.EdgeData{}),
		},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 8, result.NodeStatus["i1"].Shortage)
}

func TestSimulate_CycleThroughBufferKeepsRootCause(t *testing.T) {
	// p1 <- i1 <- p2 <- i2 <- p1: the recursion re-enters p1 through two
	// buffers; the root cause must stay the cycle, not a generic shortage.
	g := buildGraph(t,
		[]model.NodeRecord{
			node("p1", "process", model.NodeData{Label: "One", CT: 60}),
			node("p2", "process", model.NodeData{Label: "Two", CT: 60}),
			node("i1", "inventory", model.NodeData{}),
			node("i2", "inventory", model.NodeData{}),
		},
		[]model.EdgeRecord{
			edge("e1", "i1", "p1", model.EdgeData{}),
			edge("e2", "p2", "i1", model.EdgeData{}),
			edge("e3", "i2", "p2", model.EdgeData{}),
			edge("e4", "p1", "i2", model.EdgeData{}),
		},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, FailCircularDependency, result.FailureCode)
}

func TestSimulate_TransportQuantityLedger(t *testing.T) {
	// 2 trips x 1 shift x 4 units = 8 units/day: a demand of 10 cannot
	// ride a single day's trips.
	g := buildGraph(t,
		[]model.NodeRecord{
			node("s1", "supplier", model.NodeData{}),
			node("t1", "truck", model.NodeData{Label: "Truck", Frequency: 2, Capacity: 4, LeadTime: 1}),
			node("i1", "inventory", model.NodeData{}),
			node("p1", "process", model.NodeData{CT: 60}),
		},
		[]model.EdgeRecord{
			edge("e1", "s1", "t1", model.EdgeData{}),
			edge("e2", "t1", "i1", model.EdgeData{}),
			edge("e3", "i1", "p1", model.EdgeData{}),
		},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)
	assert.False(t, result.Success)
	// The trip shortfall surfaces through the buffer as a material shortage.
	assert.Equal(t, FailMaterial, result.FailureCode)
	assert.Equal(t, 10, result.NodeStatus["i1"].Shortage)

	ok, err := e.Simulate("p1", 8, due(7))
	require.NoError(t, err)
	assert.True(t, ok.Success)
}

func TestSimulate_CostIdentities(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("s1", "supplier", model.NodeData{}),
			node("t1", "truck", model.NodeData{
				Label: "Freight", LeadTime: 1,
				CostPerUnit: 10, Taxes: 10, Duties: 5, Insurance: 2, PortFees: 50,
			}),
			node("i1", "inventory", model.NodeData{}),
			node("p1", "process", model.NodeData{
				Label: "Line", CT: 60, Yield: 90,
				MaterialCost: 5, LaborCost: 3, MachineCost: 2, FOHCost: 1,
			}),
		},
		[]model.EdgeRecord{
			edge("e1", "s1", "t1", model.EdgeData{}),
			edge("e2", "t1", "i1", model.EdgeData{}),
			edge("e3", "i1", "p1", model.EdgeData{}),
		},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)
	require.True(t, result.Success)

	cost := result.Cost
	assert.InDelta(t, 100.0, cost.Transportation, 1e-9)
	assert.InDelta(t, 10.0, cost.Taxes, 1e-9)
	assert.InDelta(t, 5.0, cost.Duties, 1e-9)
	assert.InDelta(t, 52.0, cost.Fees, 1e-9, "port fees plus insurance")
	assert.InDelta(t, 50.0, cost.DirectMaterial, 1e-9)
	assert.InDelta(t, 30.0, cost.DirectLabor, 1e-9)
	assert.InDelta(t, 20.0, cost.Machine, 1e-9)
	assert.InDelta(t, 10.0, cost.FOH, 1e-9)
	assert.InDelta(t, 10.0, cost.QualityLoss, 1e-9, "one scrapped unit at 90% yield")

	assert.InDelta(t, cost.DirectMaterial+cost.DirectLabor+cost.Machine, cost.DirectCost, 1e-9)
	assert.InDelta(t, cost.FOH+cost.Inventory+cost.Transportation+cost.Taxes+
		cost.Duties+cost.Fees+cost.WIP+cost.QualityLoss, cost.IndirectCost, 1e-9)
	assert.InDelta(t, cost.DirectCost+cost.IndirectCost, cost.Total, 1e-9)
	assert.InDelta(t, cost.DirectCost, cost.ValueAddedCost, 1e-9)
	assert.InDelta(t, cost.IndirectCost, cost.NonValueAddedCost, 1e-9)
	assert.InDelta(t, 100.0, cost.ValueAddedCost, 1e-9, "overhead stays out of the value-added bucket")
	assert.InDelta(t, cost.Total, cost.ValueAddedCost+cost.NonValueAddedCost, 1e-9)
}

func TestSimulate_HoldingCostOnConsumption(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("i1", "inventory", model.NodeData{Inventory: 100, HoldingCostPerDay: 0.5}),
			node("p1", "process", model.NodeData{CT: 60}),
		},
		[]model.EdgeRecord{edge("e1", "i1", "p1", model.EdgeData{})},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 40, due(7))
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.InDelta(t, 20.0, result.Cost.Inventory, 1e-9)
}

func TestSimulate_BottleneckShortage(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("s1", "supplier", model.NodeData{}),
			node("p1", "process", model.NodeData{Label: "Choke", CT: 120, GlobalTakt: 100}),
		},
		[]model.EdgeRecord{edge("e1", "s1", "p1", model.EdgeData{})},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)

	assert.True(t, result.Success, "bottleneck shortages do not affect feasibility")
	// ceil(10 * (1 - 100/120)) = 2
	assert.Equal(t, 2, result.NodeStatus["p1"].Shortage)
}

func TestSimulate_BackfillsUntouchedNodes(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("p1", "process", model.NodeData{CT: 60}),
			node("x1", "process", model.NodeData{Label: "Idle", CT: 60}),
		},
		nil,
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)
	require.True(t, result.Success)

	var idle []ScheduleEntry
	for _, s := range result.Schedule {
		if s.NodeID == "x1" {
			idle = append(idle, s)
		}
	}
	require.Len(t, idle, 1)
	assert.True(t, idle[0].NotProcessed)
	assert.Equal(t, due(7), idle[0].End)
}

func TestSimulate_WIPViolation(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("s1", "supplier", model.NodeData{}),
			node("p1", "process", model.NodeData{Label: "Cell", CT: 60, WIPCap: 5}),
		},
		[]model.EdgeRecord{edge("e1", "s1", "p1", model.EdgeData{})},
	)
	e := newTestEngine(t, g)

	result, err := e.Simulate("p1", 10, due(7))
	require.NoError(t, err)
	require.True(t, result.Success, "over-cap WIP is a violation, not an infeasibility")

	require.Len(t, result.WIPViolations, 1)
	v := result.WIPViolations[0]
	assert.Equal(t, "p1", v.NodeID)
	assert.Equal(t, 5, v.Limit)
	assert.Equal(t, 10, v.Actual)
	assert.Equal(t, 5, v.Excess)
	assert.Equal(t, 10, result.WIPLevels["p1"])
}

func TestSimulate_FreshLedgersPerRun(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("i1", "inventory", model.NodeData{Inventory: 60}),
			node("p1", "process", model.NodeData{CT: 60}),
		},
		[]model.EdgeRecord{edge("e1", "i1", "p1", model.EdgeData{})},
	)
	e := newTestEngine(t, g)

	for range 3 {
		result, err := e.Simulate("p1", 50, due(7))
		require.NoError(t, err)
		assert.True(t, result.Success, "stock must reset between runs")
		assert.Equal(t, 10, result.NodeStatus["i1"].Final)
	}
}

func TestSimulate_ContractErrors(t *testing.T) {
	g := buildGraph(t, []model.NodeRecord{node("p1", "process", model.NodeData{CT: 60})}, nil)
	e := newTestEngine(t, g)

	_, err := e.Simulate("p1", 0, due(7))
	require.Error(t, err)
	assert.True(t, IsRunError(err))

	_, err = e.Simulate("p1", 10, time.Time{})
	require.Error(t, err)
	assert.True(t, IsRunError(err))
}

func TestSimulate_UnknownEndNode(t *testing.T) {
	g := buildGraph(t, []model.NodeRecord{node("p1", "process", model.NodeData{CT: 60})}, nil)
	e := newTestEngine(t, g)

	result, err := e.Simulate("ghost", 10, due(7))
	require.NoError(t, err, "unknown nodes are infeasible, not contract errors")
	assert.False(t, result.Success)
	assert.Equal(t, FailNodeNotFound, result.FailureCode)
}

func TestRiskAnalysis(t *testing.T) {
	g := buildGraph(t,
		[]model.NodeRecord{
			node("s1", "supplier", model.NodeData{Label: "Solo"}),
			node("p1", "process", model.NodeData{Label: "Dependent", CT: 110, GlobalTakt: 100}),
			node("p2", "process", model.NodeData{Label: "Mixed", CT: 95, GlobalTakt: 100, Variants: []model.VariantRecord{
				{Name: "A", Ratio: 0.25, CT: 90},
				{Name: "B", Ratio: 0.25, CT: 95},
				{Name: "C", Ratio: 0.25, CT: 100},
				{Name: "D", Ratio: 0.25, CT: 95},
			}}),
		},
		[]model.EdgeRecord{edge("e1", "s1", "p1", model.EdgeData{})},
	)
	e := newTestEngine(t, g)

	risks := e.RiskAnalysis()

	types := make(map[string][]RiskNode)
	for _, r := range risks {
		types[r.Type] = append(types[r.Type], r)
	}

	require.Len(t, types["Single Supplier"], 1)
	assert.Equal(t, "p1", types["Single Supplier"][0].NodeID)
	assert.Equal(t, RiskMedium, types["Single Supplier"][0].Severity)

	require.Len(t, types["Capacity Risk"], 2)
	for _, r := range types["Capacity Risk"] {
		if r.NodeID == "p1" {
			assert.Equal(t, RiskHigh, r.Severity, "over takt is high severity")
		} else {
			assert.Equal(t, RiskMedium, r.Severity, "within ten percent of takt is medium")
		}
	}

	require.Len(t, types["Mix Complexity"], 1)
	assert.Equal(t, "p2", types["Mix Complexity"][0].NodeID)
}
