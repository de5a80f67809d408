package kanban

import (
	"math"
	"time"

	"github.com/roach88/takt/internal/model"
)

// Evaluator derives pull-system health states from the graph and a run's
// final WIP ledger. Stateless between calls: every Evaluate builds all
// node states from scratch.
type Evaluator struct {
	graph *model.Graph
	now   func() time.Time
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithEvaluatorNow fixes the evaluator's time source for tests.
func WithEvaluatorNow(now func() time.Time) EvaluatorOption {
	return func(ev *Evaluator) {
		ev.now = now
	}
}

// NewEvaluator creates an Evaluator over an ingested graph.
func NewEvaluator(g *model.Graph, opts ...EvaluatorOption) *Evaluator {
	ev := &Evaluator{graph: g, now: time.Now}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// Evaluate computes every node's state and the downstream shortage
// propagation. wipLevels is the final WIP ledger of a finished run; nil is
// treated as all-zero.
func (ev *Evaluator) Evaluate(wipLevels map[string]int) *Evaluation {
	now := ev.now()
	states := make(map[string]*NodeState, ev.graph.NodeCount())

	for _, node := range ev.graph.Nodes() {
		states[node.ID] = ev.evaluateNode(node, wipLevels, now)
	}

	return &Evaluation{
		States:      states,
		Propagation: ev.PropagateShortageRisk(states),
	}
}

func (ev *Evaluator) evaluateNode(node *model.Node, wipLevels map[string]int, now time.Time) *NodeState {
	kp := node.Kanban

	incoming := kp.IncomingQty + ev.graph.IncomingTransit(node.ID)
	available := node.OnHand + incoming - kp.ReservedQty - kp.BlockedQCQty

	var timeToStockout *float64
	if kp.ConsumptionRate > 0 {
		tts := float64(available) / kp.ConsumptionRate
		timeToStockout = &tts
	}

	demand := kp.DailyDemand
	if demand == 0 {
		demand = kp.ConsumptionRate
	}
	leadDays := kp.LeadTimeDays
	if leadDays == 0 {
		leadDays = 1
	}
	cardCapacity := kp.CardCapacity
	if cardCapacity < 1 {
		cardCapacity = 1
	}
	yield := node.YieldPct / 100
	if yield < 0.01 {
		yield = 0.01
	}

	reorderPoint := demand*leadDays + float64(node.SafetyStock)
	cardCount := ceilSafe(demand * leadDays * (1 + kp.SafetyFactor) / (cardCapacity * yield))

	fifoViolation := false
	if kp.FIFOEnabled {
		for i := 1; i < len(kp.FIFOQueueAges); i++ {
			if kp.FIFOQueueAges[i] > kp.FIFOQueueAges[i-1] {
				fifoViolation = true
				break
			}
		}
	}

	currentWIP := wipLevels[node.ID]
	wipCapExceeded := node.WIPCap > 0 && currentWIP > node.WIPCap

	belowROP := node.IsInventory() && float64(available) < reorderPoint
	belowSafety := node.IsInventory() && available < node.SafetyStock

	kanbanDueHours := leadDays * 24
	if kanbanDueHours < 1 {
		kanbanDueHours = 1
	}
	overdue := kp.OpenKanbanAgeHours > kanbanDueHours

	productionWithoutKanban := node.IsProcess() && kp.ActiveProduction <= 0

	var processOutput float64
	if node.IsProcess() {
		processOutput = ev.achievableOutput(node, kp, cardCapacity) * yield
	}

	return &NodeState{
		NodeID:   node.ID,
		NodeName: node.Label,
		NodeKind: string(node.Kind),

		AvailableUsableQty: available,
		OnHand:             node.OnHand,
		Incoming:           incoming,
		Reserved:           kp.ReservedQty,
		BlockedQC:          kp.BlockedQCQty,

		ConsumptionRate: kp.ConsumptionRate,
		TimeToStockout:  timeToStockout,
		ReorderPoint:    reorderPoint,
		SafetyStock:     node.SafetyStock,

		CardCount:        cardCount,
		ActiveProduction: kp.ActiveProduction,
		ActiveWithdrawal: kp.ActiveWithdrawal,

		BelowROP:               belowROP,
		BelowSafetyStock:       belowSafety,
		NoActiveKanbanBelowROP: belowROP && kp.ActiveWithdrawal <= 0,
		FIFOEnabled:            kp.FIFOEnabled,
		FIFOViolation:          fifoViolation,

		WIPCap:         node.WIPCap,
		CurrentWIP:     currentWIP,
		WIPCapExceeded: wipCapExceeded,

		KanbanOverdue:           overdue,
		ProductionWithoutKanban: productionWithoutKanban,

		ProcessOutput: processOutput,

		EvaluatedAt: now,
	}
}

// achievableOutput bounds a process node's output by the minimum of rated
// capacity, tightest upstream input, tightest downstream free space, and
// the active kanban card limit.
func (ev *Evaluator) achievableOutput(node *model.Node, kp model.KanbanParams, cardCapacity float64) float64 {
	capacity := float64(node.Capacity)
	if capacity == 0 && node.CycleTimeSeconds > 0 {
		shifts := node.ShiftCount
		if shifts < 1 {
			shifts = 1
		}
		capacity = 3600 / node.CycleTimeSeconds * float64(shifts) * 8
	}

	upstream := math.Inf(1)
	inbound := ev.graph.Inbound(node.ID)
	if len(inbound) == 0 {
		upstream = capacity
	}
	for _, e := range inbound {
		src, ok := ev.graph.Node(e.Source)
		if !ok {
			continue
		}
		// Only held stock bounds input; sources that replenish on demand
		// (suppliers, transport legs, stockless feeders) are unbounded.
		if src.Kind != model.KindInventory && src.OnHand == 0 {
			continue
		}
		if v := float64(src.OnHand); v < upstream {
			upstream = v
		}
	}

	downstream := math.Inf(1)
	for _, targetID := range ev.graph.Downstream(node.ID) {
		target, ok := ev.graph.Node(targetID)
		if !ok {
			continue
		}
		if target.Kanban.MaxStock <= 0 {
			continue
		}
		free := target.Kanban.MaxStock - float64(target.OnHand)
		if free < 0 {
			free = 0
		}
		if free < downstream {
			downstream = free
		}
	}

	cardLimit := math.Inf(1)
	if kp.ActiveProduction > 0 {
		cardLimit = float64(kp.ActiveProduction) * cardCapacity
	} else if kp.CardLimit > 0 {
		cardLimit = kp.CardLimit
	}

	out := math.Min(math.Min(capacity, upstream), math.Min(downstream, cardLimit))
	if out < 0 || math.IsInf(out, 1) {
		out = 0
		if !math.IsInf(capacity, 1) && capacity > 0 {
			out = capacity
		}
	}
	return out
}

// PropagateShortageRisk walks forward from every at-risk node, marking all
// transitively downstream nodes with the originating source and hop depth.
// A node already marked is never revisited, so the walk terminates on
// graphs containing downstream cycles and depth never decreases along a
// path.
func (ev *Evaluator) PropagateShortageRisk(states map[string]*NodeState) map[string]RiskMark {
	marks := make(map[string]RiskMark)
	type item struct {
		nodeID string
		source string
		depth  int
	}
	var queue []item

	// Seed in declaration order for deterministic source attribution.
	for _, node := range ev.graph.Nodes() {
		state, ok := states[node.ID]
		if !ok || !state.AtRisk() {
			continue
		}
		marks[node.ID] = RiskMark{Source: node.ID, Depth: 0}
		queue = append(queue, item{nodeID: node.ID, source: node.ID, depth: 0})
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, nextID := range ev.graph.Downstream(current.nodeID) {
			if _, seen := marks[nextID]; seen {
				continue
			}
			mark := RiskMark{Source: current.source, Depth: current.depth + 1}
			marks[nextID] = mark
			queue = append(queue, item{nodeID: nextID, source: current.source, depth: mark.Depth})
		}
	}

	return marks
}

// ceilSafe rounds up, clamping non-finite or non-positive input to zero.
func ceilSafe(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return int(math.Ceil(v))
}
