package kanban

import "time"

// NodeState is the derived pull-system health snapshot of one node.
// Recomputed fresh on every evaluation from the graph and the run's final
// ledgers; never persisted.
type NodeState struct {
	NodeID   string `json:"node_id"`
	NodeName string `json:"node_name"`
	NodeKind string `json:"node_kind"`

	AvailableUsableQty int `json:"available_usable_qty"`
	OnHand             int `json:"on_hand"`
	Incoming           int `json:"incoming"`
	Reserved           int `json:"reserved"`
	BlockedQC          int `json:"blocked_qc"`

	ConsumptionRate float64  `json:"consumption_rate"`
	TimeToStockout  *float64 `json:"time_to_stockout"` // nil: no consumption
	ReorderPoint    float64  `json:"reorder_point"`
	SafetyStock     int      `json:"safety_stock"`

	CardCount        int `json:"kanban_count"`
	ActiveProduction int `json:"active_production_kanban"`
	ActiveWithdrawal int `json:"active_withdrawal_kanban"`

	BelowROP              bool `json:"below_rop"`
	BelowSafetyStock      bool `json:"below_safety_stock"`
	NoActiveKanbanBelowROP bool `json:"no_active_kanban_below_rop"`
	FIFOEnabled           bool `json:"fifo_enabled"`
	FIFOViolation         bool `json:"fifo_violation"`

	WIPCap         int  `json:"wip_cap"` // 0 = uncapped
	CurrentWIP     int  `json:"current_wip"`
	WIPCapExceeded bool `json:"wip_cap_exceeded"`

	KanbanOverdue            bool `json:"kanban_overdue"`
	ProductionWithoutKanban  bool `json:"production_without_kanban"`

	ProcessOutput float64 `json:"process_output"` // achievable units, process nodes

	EvaluatedAt time.Time `json:"evaluated_at"`
}

// HasViolation reports whether any adherence rule is violated at the node.
func (s *NodeState) HasViolation() bool {
	return s.ProductionWithoutKanban || s.WIPCapExceeded || s.FIFOViolation ||
		s.KanbanOverdue || s.NoActiveKanbanBelowROP
}

// AtRisk reports whether the node seeds shortage propagation: below its
// reorder point, below safety stock, or already stocked out.
func (s *NodeState) AtRisk() bool {
	if s.BelowROP || s.BelowSafetyStock {
		return true
	}
	return s.TimeToStockout != nil && *s.TimeToStockout <= 0
}

// RiskMark records that shortage risk reaches a node: the originating
// source and the hop depth along the marking path.
type RiskMark struct {
	Source string `json:"source"`
	Depth  int    `json:"depth"`
}

// Evaluation bundles the per-node states with the downstream shortage
// propagation map of one evaluator pass.
type Evaluation struct {
	States      map[string]*NodeState `json:"states"`
	Propagation map[string]RiskMark   `json:"propagation"`
}
