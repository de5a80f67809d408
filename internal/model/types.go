package model

// NodeKind identifies the role a node plays in the production network.
type NodeKind string

const (
	KindProcess   NodeKind = "process"
	KindInventory NodeKind = "inventory"
	KindSupplier  NodeKind = "supplier"
	KindTransport NodeKind = "transport"
	KindCustomer  NodeKind = "customer"
)

// Valid reports whether the kind is one of the recognized node kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindProcess, KindInventory, KindSupplier, KindTransport, KindCustomer:
		return true
	}
	return false
}

// TransportMode identifies the carrier type of a transport node.
type TransportMode string

const (
	ModeTruck TransportMode = "truck"
	ModeSea   TransportMode = "sea"
	ModeAir   TransportMode = "air"
)

// Time constants shared by the capacity and lead-time calculations.
//
// A base shift is 8 hours. Overtime, when allowed, adds 25% of one base
// shift regardless of the shift pattern.
const (
	BaseShiftSeconds = 28800
	SecondsPerDay    = 86400
	OvertimeFraction = 0.25
)

// DefaultEdgePriority is assigned to edges that declare no priority.
// Ascending priority is served first, so undeclared edges sort last.
const DefaultEdgePriority = 999

// MixVariant is one product variant in a mixed-model process.
// Ratio is the share of total volume (0..1); CycleTimeSeconds is the
// per-unit cycle time for this variant.
type MixVariant struct {
	Name             string
	Ratio            float64
	CycleTimeSeconds float64
}

// CostRates holds the normalized per-node cost parameters.
// Per-unit rates are currency per unit; holding is currency per unit per
// day; tax, duty, and insurance are percentages of the base transport cost.
type CostRates struct {
	TransportPerUnit float64 // base transport cost per unit (transport nodes)
	MaterialPerUnit  float64
	LaborPerUnit     float64
	MachinePerUnit   float64
	FOHPerUnit       float64
	HoldingPerDay    float64
	TaxPercent       float64
	DutyPercent      float64
	InsurancePercent float64
	PortFees         float64 // flat per commit
}

// KanbanParams holds the pull-system parameters of a node. All fields are
// optional in the input; a zero value disables the corresponding check.
type KanbanParams struct {
	ConsumptionRate    float64 // units per time unit
	DailyDemand        float64
	LeadTimeDays       float64
	SafetyFactor       float64
	CardCapacity       float64
	CardLimit          float64
	ActiveProduction   int
	ActiveWithdrawal   int
	RequiresActive     bool
	FIFOEnabled        bool
	FIFOQueueAges      []float64
	OpenKanbanAgeHours float64
	MaxStock           float64
	IncomingQty        int
	ReservedQty        int
	BlockedQCQty       int
}

// Node is the canonical, normalized view of a network node. It is built
// once by BuildGraph and never mutated afterwards; all per-run state lives
// in the simulation context, never on the node.
type Node struct {
	ID    string
	Kind  NodeKind
	Mode  TransportMode // transport nodes only
	Label string

	CycleTimeSeconds float64 // per unit (process), per trip (transport)
	LeadTimeDays     float64 // transport legs
	ShiftCount       int     // >= 1
	OvertimeAllowed  bool
	Capacity         int // units per trip (transport); 0 = time-based only
	Frequency        int // trips per shift (transport)

	OnHand      int
	SafetyStock int
	WIPCap      int // 0 = uncapped
	GlobalTakt  float64
	YieldPct    float64 // 0 < yield <= 100

	Costs    CostRates
	Kanban   KanbanParams
	Variants []MixVariant
}

// IsTransport reports whether the node moves material rather than
// transforming or holding it.
func (n *Node) IsTransport() bool { return n.Kind == KindTransport }

// IsProcess reports whether the node transforms material.
func (n *Node) IsProcess() bool { return n.Kind == KindProcess }

// IsInventory reports whether the node is a stock-holding buffer.
func (n *Node) IsInventory() bool { return n.Kind == KindInventory }

// EffectiveCycleTime returns the per-unit cycle time, ratio-weighted
// across product-mix variants when any are declared.
func (n *Node) EffectiveCycleTime() float64 {
	if len(n.Variants) == 0 {
		return n.CycleTimeSeconds
	}
	var weighted, ratioSum float64
	for _, v := range n.Variants {
		weighted += v.CycleTimeSeconds * v.Ratio
		ratioSum += v.Ratio
	}
	if ratioSum <= 0 {
		return n.CycleTimeSeconds
	}
	return weighted / ratioSum
}

// Edge is a directed connection between two nodes. Traversal is backward
// (target to source) during simulation; TransportTimeDays offsets the
// requested due date for the upstream node.
type Edge struct {
	ID                string
	Source            string
	Target            string
	TransportTimeDays float64
	Priority          int // ascending = served first
	TransitQty        int // in-flight stock already moving
}
