package sim

import "github.com/roach88/takt/internal/model"

// commitCost accrues the cost of one committed operation.
//
// Transport commits landed cost: base transport cost plus taxes, duties,
// insurance, and port fees. Process commits conversion cost: direct
// material, labor, machine, factory overhead, and the quality loss
// implied by a yield below 100%.
func (e *Engine) commitCost(c *Context, node *model.Node, quantity int) {
	q := float64(quantity)

	if node.IsTransport() {
		base := node.Costs.TransportPerUnit * q
		taxes := base * node.Costs.TaxPercent / 100
		duties := base * node.Costs.DutyPercent / 100
		insurance := base * node.Costs.InsurancePercent / 100
		fees := node.Costs.PortFees + insurance

		c.cost.Transportation += base
		c.cost.Taxes += taxes
		c.cost.Duties += duties
		c.cost.Fees += fees

		if base+taxes+duties+fees > 0 {
			c.log(LevelInfo, "[landed cost] %s: base $%.2f, taxes $%.2f, duties $%.2f, fees $%.2f",
				node.Label, base, taxes, duties, fees)
		}
		return
	}

	material := node.Costs.MaterialPerUnit * q
	labor := node.Costs.LaborPerUnit * q
	machine := node.Costs.MachinePerUnit * q
	foh := node.Costs.FOHPerUnit * q

	c.cost.DirectMaterial += material
	c.cost.DirectLabor += labor
	c.cost.Machine += machine
	c.cost.FOH += foh

	conversion := material + labor + machine + foh
	c.cost.Production += conversion

	if node.YieldPct < 100 {
		scrap := q * (100 - node.YieldPct) / 100
		loss := scrap * (node.Costs.MaterialPerUnit + node.Costs.LaborPerUnit + node.Costs.MachinePerUnit)
		c.cost.QualityLoss += loss
		if loss > 0 {
			c.log(LevelWarn, "[cost] quality loss at %s: $%.2f (%.1f%% yield)",
				node.Label, loss, node.YieldPct)
		}
	}

	if conversion > 0 {
		c.log(LevelInfo, "[cost] conversion cost at %s: $%.2f", node.Label, conversion)
	}
}
