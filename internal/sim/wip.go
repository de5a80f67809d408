package sim

import "github.com/roach88/takt/internal/model"

// trackWIP books committed work into the WIP ledger, records a violation
// when the node's cap is exceeded, and accrues the WIP holding cost.
// Over-cap commits still book: the violation list is the enforcement
// surface, feasibility is not affected.
func (c *Context) trackWIP(node *model.Node, quantity int) {
	current := c.wip[node.ID]
	next := current + quantity
	c.wip[node.ID] = next

	if node.WIPCap > 0 && next > node.WIPCap {
		c.log(LevelWarn, "[wip] cap exceeded at %s: %d > %d", node.Label, next, node.WIPCap)
		c.wipViolations = append(c.wipViolations, WIPViolation{
			NodeID:   node.ID,
			NodeName: node.Label,
			Limit:    node.WIPCap,
			Actual:   next,
			Excess:   next - node.WIPCap,
		})
	}

	holding := node.Costs.HoldingPerDay * float64(quantity)
	if holding > 0 {
		c.cost.WIP += holding
		c.log(LevelInfo, "[cost] wip holding at %s: $%.2f", node.Label, holding)
	}
}
