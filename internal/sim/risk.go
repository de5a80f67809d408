package sim

import (
	"fmt"

	"github.com/roach88/takt/internal/model"
)

// MixComplexityThreshold is the variant count at which a mixed-model
// process is flagged as a changeover-complexity risk.
const MixComplexityThreshold = 4

// RiskAnalysis scans the network for structural supply risks. It is a
// diagnostic pass independent of any run: findings never affect
// feasibility. Flags single-supplier dependency, near/over-takt
// utilization, and high product-mix complexity.
func (e *Engine) RiskAnalysis() []RiskNode {
	var risks []RiskNode

	for _, n := range e.graph.Nodes() {
		inbound := e.graph.Inbound(n.ID)

		if n.IsProcess() && len(inbound) == 1 {
			if source, ok := e.graph.Node(inbound[0].Source); ok && source.Kind == model.KindSupplier {
				risks = append(risks, RiskNode{
					NodeID:   n.ID,
					Type:     "Single Supplier",
					Severity: RiskMedium,
					Message:  fmt.Sprintf("%s depends on a single supplier (%s)", n.Label, source.Label),
				})
			}
		}

		takt := n.GlobalTakt
		ct := n.EffectiveCycleTime()
		if takt > 0 && ct > takt*0.9 {
			severity := RiskMedium
			if ct > takt {
				severity = RiskHigh
			}
			risks = append(risks, RiskNode{
				NodeID:   n.ID,
				Type:     "Capacity Risk",
				Severity: severity,
				Message:  fmt.Sprintf("high utilization risk at %s (ct %.0fs vs takt %.0fs)", n.Label, ct, takt),
			})
		}

		if len(n.Variants) >= MixComplexityThreshold {
			risks = append(risks, RiskNode{
				NodeID:   n.ID,
				Type:     "Mix Complexity",
				Severity: RiskMedium,
				Message:  fmt.Sprintf("%s runs %d product variants", n.Label, len(n.Variants)),
			})
		}
	}

	return risks
}
