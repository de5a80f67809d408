package sim

import (
	"time"

	"github.com/roach88/takt/internal/model"
)

// checkOperation runs the per-node state machine for one request:
// cycle check, lead time, capacity, material, commit. Capacity is booked
// only at commit, after the whole operation is known feasible.
//
// checkOperation and checkBuffer are mutually recursive; the active-path
// set is the correctness mechanism bounding that recursion, not stack
// depth.
func (e *Engine) checkOperation(c *Context, nodeID string, quantity int, dueDate time.Time) outcome {
	if c.active[nodeID] {
		name := nodeID
		if n, ok := e.graph.Node(nodeID); ok {
			name = n.Label
		}
		c.log(LevelError, "circular dependency detected: %s is already on the active path", name)
		return infeasibleOutcome(FailCircularDependency, 0, "circular dependency at %s", name)
	}

	node, ok := e.graph.Node(nodeID)
	if !ok {
		return infeasibleOutcome(FailNodeNotFound, 0, "node %s not found", nodeID)
	}
	c.log(LevelInfo, "checking operation: %s (need %d by %s)",
		node.Label, quantity, dueDate.UTC().Format(time.RFC3339))

	c.active[nodeID] = true
	defer delete(c.active, nodeID)

	// Demand landing on a buffer is served from stock and replenishment,
	// never committed as work on the buffer itself.
	if node.Kind == model.KindInventory {
		return e.checkBuffer(c, node, quantity, dueDate)
	}

	// Lead time. Transport legs take per-trip time; everything else is
	// per-unit cycle time (mix-weighted) times quantity. The fractional-day
	// conversion spreads the work over the node's available shift seconds.
	cycleTime := node.EffectiveCycleTime()
	availPerDay := float64(model.BaseShiftSeconds * node.ShiftCount)

	var leadSeconds float64
	if node.IsTransport() {
		leadSeconds = cycleTime
		if leadSeconds == 0 {
			leadSeconds = node.LeadTimeDays * model.BaseShiftSeconds
		}
	} else {
		leadSeconds = cycleTime * float64(quantity)
	}
	startDate := dueDate.Add(-durationFromDays(leadSeconds / availPerDay))

	if startDate.Before(c.now) {
		c.log(LevelError, "lead time violation at %s: required start %s is in the past",
			node.Label, startDate.UTC().Format(time.RFC3339))
		e.recordAttempt(c, node, quantity, startDate, dueDate, cycleTime)
		return infeasibleOutcome(FailLeadTime, 0, "lead time constraint violated at %s", node.Label)
	}

	if ok, util := e.checkCapacity(c, node, quantity, startDate); !ok {
		c.log(LevelError, "[capacity] %s exhausted on %s (%.1f%% requested)",
			node.Label, dayKey(startDate), util)
		e.recordAttempt(c, node, quantity, startDate, dueDate, cycleTime)
		return infeasibleOutcome(FailCapacity, 0, "capacity shortage at %s", node.Label)
	}

	inbound := e.graph.Inbound(nodeID)
	if len(inbound) == 0 && node.Kind == model.KindSupplier {
		c.log(LevelSuccess, "supplier reached: %s, infinite capacity assumed", node.Label)
		e.bookOperation(c, node, quantity, startDate)
		c.addSchedule(ScheduleEntry{
			NodeID:   nodeID,
			Label:    node.Label,
			Start:    startDate,
			End:      dueDate,
			Type:     EntrySupplier,
			Quantity: quantity,
		})
		return feasibleOutcome(quantity)
	}

	for _, edge := range inbound {
		upstreamDue := startDate.Add(-durationFromDays(edge.TransportTimeDays))
		source, _ := e.graph.Node(edge.Source)

		if edge.TransportTimeDays > 0 {
			c.log(LevelInfo, "[logistic] edge transport %s -> %s: %.1f days, upstream due %s",
				source.Label, node.Label, edge.TransportTimeDays, upstreamDue.UTC().Format(time.RFC3339))
			c.addSchedule(ScheduleEntry{
				NodeID:   "edge-" + edge.ID,
				Label:    "Transport (" + source.Label + " -> " + node.Label + ")",
				Start:    upstreamDue,
				End:      startDate,
				Type:     EntryLogistic,
				Quantity: quantity,
			})
		}

		res := e.checkBuffer(c, source, quantity, upstreamDue)
		if !res.feasible {
			c.log(LevelWarn, "material shortage from %s", source.Label)
			e.recordAttempt(c, node, quantity, startDate, dueDate, cycleTime)
			// The upstream failure reason becomes this operation's reason:
			// a deep lead-time or cycle failure surfaces as the root cause
			// instead of a generic material message.
			return outcome{feasible: false, fulfilled: res.fulfilled, code: res.code, reason: res.reason}
		}
	}

	c.log(LevelInfo, "operation %s feasible, committing plan", node.Label)
	e.bookOperation(c, node, quantity, startDate)
	e.commitCost(c, node, quantity)
	c.trackWIP(node, quantity)

	// The committed window reflects actual execution: work finishes at the
	// requested due date and starts one processing duration earlier.
	actualStart, actualEnd := executionWindow(node, quantity, startDate, dueDate, cycleTime)
	c.addSchedule(ScheduleEntry{
		NodeID:   nodeID,
		Label:    node.Label,
		Start:    actualStart,
		End:      actualEnd,
		Type:     entryTypeFor(node),
		Quantity: quantity,
	})

	return feasibleOutcome(quantity)
}

// recordAttempt appends a failed schedule entry so the timeline shows what
// was attempted even for infeasible branches.
func (e *Engine) recordAttempt(c *Context, node *model.Node, quantity int, startDate, dueDate time.Time, cycleTime float64) {
	start, end := executionWindow(node, quantity, startDate, dueDate, cycleTime)
	c.addSchedule(ScheduleEntry{
		NodeID:   node.ID,
		Label:    node.Label,
		Start:    start,
		End:      end,
		Type:     entryTypeFor(node),
		Quantity: quantity,
		Failed:   true,
	})
}

// executionWindow computes the actual execution span for a schedule entry.
// Process nodes end at the due date and start one processing duration
// earlier (wall-clock days); other kinds keep the backward-scheduled span.
func executionWindow(node *model.Node, quantity int, startDate, dueDate time.Time, cycleTime float64) (time.Time, time.Time) {
	if node.IsProcess() {
		processing := cycleTime * float64(quantity)
		return dueDate.Add(-durationFromSeconds(processing)), dueDate
	}
	return startDate, dueDate
}
