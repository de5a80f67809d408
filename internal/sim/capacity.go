package sim

import (
	"time"

	"github.com/roach88/takt/internal/model"
)

// availableSeconds returns the per-day time budget of a node: 8 hours per
// shift, plus 25% of one base shift when overtime is allowed.
func availableSeconds(node *model.Node) float64 {
	total := float64(model.BaseShiftSeconds * node.ShiftCount)
	if node.OvertimeAllowed {
		total += model.BaseShiftSeconds * model.OvertimeFraction
	}
	return total
}

// dailyTripCapacity returns the per-day unit budget of a transport node.
func dailyTripCapacity(node *model.Node) int {
	return node.Frequency * node.ShiftCount * node.Capacity
}

// checkCapacity answers whether the node can absorb the request on the
// given day. Transport nodes with a rated trip capacity use the quantity
// ledger; everything else uses the time ledger. Nothing is booked here.
func (e *Engine) checkCapacity(c *Context, node *model.Node, quantity int, date time.Time) (bool, float64) {
	day := dayKey(date)

	if node.IsTransport() && node.Capacity > 0 {
		budget := dailyTripCapacity(node)
		used := c.usedCapacity(capKey{nodeID: node.ID, day: day, qty: true})
		requested := used + float64(quantity)
		util := requested / float64(budget) * 100
		if requested > float64(budget) {
			return false, util
		}
		c.log(LevelInfo, "[capacity] %s: %.1f%% of %d units/day on %s", node.Label, util, budget, day)
		return true, util
	}

	required := node.EffectiveCycleTime() * float64(quantity)
	total := availableSeconds(node)
	used := c.usedCapacity(capKey{nodeID: node.ID, day: day})
	requested := used + required
	util := requested / total * 100
	if requested > total {
		return false, util
	}
	if required > 0 {
		c.log(LevelInfo, "[capacity] %s: %.1f%% utilization (%d shift(s)) on %s",
			node.Label, util, node.ShiftCount, day)
	}
	return true, util
}

// bookOperation commits the capacity consumption decided by checkCapacity.
// Called only from the commit phase of checkOperation.
func (e *Engine) bookOperation(c *Context, node *model.Node, quantity int, date time.Time) {
	day := dayKey(date)
	if node.IsTransport() && node.Capacity > 0 {
		c.bookCapacity(capKey{nodeID: node.ID, day: day, qty: true}, float64(quantity))
		return
	}
	required := node.EffectiveCycleTime() * float64(quantity)
	if required > 0 {
		c.bookCapacity(capKey{nodeID: node.ID, day: day}, required)
	}
}
