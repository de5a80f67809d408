package sim

import (
	"time"

	"github.com/roach88/takt/internal/model"
)

// checkBuffer serves a material request from a buffer node. Stock above
// safety stock is consumed directly with no upstream recursion; any
// shortfall is requested from inbound sources in ascending priority order,
// accumulating partial fulfillment until the request is covered or the
// sources are exhausted. Partial fulfillment is always returned as-is.
func (e *Engine) checkBuffer(c *Context, node *model.Node, quantity int, neededDate time.Time) outcome {
	// Suppliers replenish on demand rather than from stock; the operation
	// check gives them their lead-time gate and schedule entry.
	if node.Kind == model.KindSupplier {
		return e.checkOperation(c, node.ID, quantity, neededDate)
	}

	c.log(LevelInfo, "[inventory] checking buffer %s for %d", node.Label, quantity)

	currentStock := c.stockAt(node.ID)
	available := currentStock - node.SafetyStock
	if available < 0 {
		available = 0
	}
	if node.SafetyStock > 0 {
		c.log(LevelInfo, "[inventory] %s safety stock %d, current %d, available %d",
			node.Label, node.SafetyStock, currentStock, available)
	}

	if available >= quantity {
		c.log(LevelSuccess, "[inventory] %s stock available: %d >= %d, deducting",
			node.Label, available, quantity)
		c.stock[node.ID] = currentStock - quantity
		e.chargeHolding(c, node, quantity)
		return feasibleOutcome(quantity)
	}

	missing := quantity - available
	c.log(LevelWarn, "[inventory] %s stock low (%d available), requesting replenishment of %d",
		node.Label, available, missing)

	feeders := e.graph.InboundByPriority(node.ID)
	if len(feeders) == 0 {
		c.log(LevelError, "[material] no upstream replenishment for %s, stockout", node.Label)
		return infeasibleOutcome(FailMaterial, available, "stockout at %s", node.Label)
	}

	totalFulfilled := available
	remaining := missing
	// The first structural failure (a cycle in particular) is preserved as
	// the root cause instead of the generic shortage message.
	var firstCode FailureCode
	var firstReason string

	for _, edge := range feeders {
		if remaining <= 0 {
			break
		}
		source, ok := e.graph.Node(edge.Source)
		if !ok {
			c.log(LevelWarn, "[material] feeder node %s not found", edge.Source)
			continue
		}

		upstreamDue := neededDate.Add(-durationFromDays(edge.TransportTimeDays))
		if edge.TransportTimeDays > 0 {
			c.addSchedule(ScheduleEntry{
				NodeID:   "edge-" + edge.ID,
				Label:    "Transport (" + source.Label + " -> " + node.Label + ")",
				Start:    upstreamDue,
				End:      neededDate,
				Type:     EntryLogistic,
				Quantity: remaining,
			})
		}

		c.log(LevelInfo, "[material] requesting %d from %s (due %s)",
			remaining, source.Label, upstreamDue.UTC().Format(time.RFC3339))
		res := e.checkOperation(c, edge.Source, remaining, upstreamDue)

		totalFulfilled += res.fulfilled
		remaining -= res.fulfilled
		if res.feasible {
			c.log(LevelSuccess, "[material] %s fulfilled %d, remaining %d",
				source.Label, res.fulfilled, remaining)
			continue
		}
		if firstCode == "" && res.code == FailCircularDependency {
			firstCode = res.code
			firstReason = res.reason
		}
		if res.fulfilled > 0 {
			c.log(LevelWarn, "[material] %s partially fulfilled %d, remaining %d",
				source.Label, res.fulfilled, remaining)
		}
	}

	// Consume the free stock that covered the first part of the request.
	consumed := available
	if quantity < consumed {
		consumed = quantity
	}
	next := currentStock - consumed
	if next < 0 {
		next = 0
	}
	c.stock[node.ID] = next
	if consumed > 0 {
		e.chargeHolding(c, node, consumed)
	}

	if totalFulfilled >= quantity {
		c.log(LevelSuccess, "[material] multi-source replenishment successful for %s", node.Label)
		return feasibleOutcome(quantity)
	}

	shortage := quantity - totalFulfilled
	c.addShortage(node.ID, shortage)
	c.log(LevelError, "[material] insufficient replenishment for %s, shortage %d", node.Label, shortage)

	if firstCode != "" {
		return outcome{feasible: false, fulfilled: totalFulfilled, code: firstCode, reason: firstReason}
	}
	return infeasibleOutcome(FailMaterial, totalFulfilled, "material shortage at %s: %d units", node.Label, shortage)
}

// chargeHolding accrues the buffer's per-day holding cost for consumed
// stock into the inventory bucket.
func (e *Engine) chargeHolding(c *Context, node *model.Node, quantity int) {
	cost := node.Costs.HoldingPerDay * float64(quantity)
	if cost > 0 {
		c.cost.Inventory += cost
		c.log(LevelInfo, "[cost] inventory holding at %s: $%.2f", node.Label, cost)
	}
}
