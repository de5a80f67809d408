package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance for raw records.
var validate = validator.New()

// NodeRecord is the raw, external representation of a node. The data
// payload carries the shape-varying field names of the authoring tools
// (ct vs time vs processingTime vs cycleTime, inventory vs amount);
// BuildGraph normalizes them once into the canonical Node view.
type NodeRecord struct {
	ID   string   `json:"id" yaml:"id" validate:"required"`
	Kind string   `json:"type" yaml:"type" validate:"required"`
	Data NodeData `json:"data" yaml:"data"`
}

// NodeData is the kind-specific payload of a raw node record.
// Alias fields resolve in the documented precedence order; a zero value
// means "not declared". Negative values are validation errors.
type NodeData struct {
	Label      string `json:"label,omitempty" yaml:"label,omitempty"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	SymbolType string `json:"symbolType,omitempty" yaml:"symbolType,omitempty" validate:"omitempty,oneof=truck sea air process inventory supplier customer"`

	// Cycle time aliases. Precedence: mt, ct, time, processingTime (hours),
	// cycleTime. All in seconds except processingTime.
	MT             float64 `json:"mt,omitempty" yaml:"mt,omitempty" validate:"gte=0"`
	CT             float64 `json:"ct,omitempty" yaml:"ct,omitempty" validate:"gte=0"`
	Time           float64 `json:"time,omitempty" yaml:"time,omitempty" validate:"gte=0"`
	ProcessingTime float64 `json:"processingTime,omitempty" yaml:"processingTime,omitempty" validate:"gte=0"`
	CycleTime      float64 `json:"cycleTime,omitempty" yaml:"cycleTime,omitempty" validate:"gte=0"`

	LeadTime float64 `json:"leadTime,omitempty" yaml:"leadTime,omitempty" validate:"gte=0"`

	// Stock aliases. Precedence: inventory, amount.
	Inventory float64 `json:"inventory,omitempty" yaml:"inventory,omitempty" validate:"gte=0"`
	Amount    float64 `json:"amount,omitempty" yaml:"amount,omitempty" validate:"gte=0"`

	SafetyStock     float64 `json:"safetyStock,omitempty" yaml:"safetyStock,omitempty" validate:"gte=0"`
	Capacity        float64 `json:"capacity,omitempty" yaml:"capacity,omitempty" validate:"gte=0"`
	Frequency       float64 `json:"frequency,omitempty" yaml:"frequency,omitempty" validate:"gte=0"`
	ShiftPattern    float64 `json:"shiftPattern,omitempty" yaml:"shiftPattern,omitempty" validate:"gte=0,lte=4"`
	OvertimeAllowed bool    `json:"overtimeAllowed,omitempty" yaml:"overtimeAllowed,omitempty"`

	// WIP cap aliases. Precedence: wipCap, wipLimit, maxCapacity.
	WIPCap      float64 `json:"wipCap,omitempty" yaml:"wipCap,omitempty" validate:"gte=0"`
	WIPLimit    float64 `json:"wipLimit,omitempty" yaml:"wipLimit,omitempty" validate:"gte=0"`
	MaxCapacity float64 `json:"maxCapacity,omitempty" yaml:"maxCapacity,omitempty" validate:"gte=0"`

	GlobalTakt float64 `json:"globalTakt,omitempty" yaml:"globalTakt,omitempty" validate:"gte=0"`
	Yield      float64 `json:"yield,omitempty" yaml:"yield,omitempty" validate:"gte=0,lte=100"`

	// Cost rates.
	CostPerUnit       float64 `json:"costPerUnit,omitempty" yaml:"costPerUnit,omitempty" validate:"gte=0"`
	MaterialCost      float64 `json:"materialCost,omitempty" yaml:"materialCost,omitempty" validate:"gte=0"`
	LaborCost         float64 `json:"laborCost,omitempty" yaml:"laborCost,omitempty" validate:"gte=0"`
	MachineCost       float64 `json:"machineCost,omitempty" yaml:"machineCost,omitempty" validate:"gte=0"`
	FOHCost           float64 `json:"fohCost,omitempty" yaml:"fohCost,omitempty" validate:"gte=0"`
	HoldingCostPerDay float64 `json:"holdingCostPerDay,omitempty" yaml:"holdingCostPerDay,omitempty" validate:"gte=0"`
	Taxes             float64 `json:"taxes,omitempty" yaml:"taxes,omitempty" validate:"gte=0,lte=100"`
	Duties            float64 `json:"duties,omitempty" yaml:"duties,omitempty" validate:"gte=0,lte=100"`
	Insurance         float64 `json:"insurance,omitempty" yaml:"insurance,omitempty" validate:"gte=0,lte=100"`
	PortFees          float64 `json:"portFees,omitempty" yaml:"portFees,omitempty" validate:"gte=0"`

	// Pull-system parameters.
	ConsumptionRate        float64   `json:"consumptionRate,omitempty" yaml:"consumptionRate,omitempty" validate:"gte=0"`
	DemandRate             float64   `json:"demandRate,omitempty" yaml:"demandRate,omitempty" validate:"gte=0"`
	DailyDemand            float64   `json:"dailyDemand,omitempty" yaml:"dailyDemand,omitempty" validate:"gte=0"`
	KanbanLeadTime         float64   `json:"kanbanLeadTime,omitempty" yaml:"kanbanLeadTime,omitempty" validate:"gte=0"`
	KanbanSafetyFactor     float64   `json:"kanbanSafetyFactor,omitempty" yaml:"kanbanSafetyFactor,omitempty" validate:"gte=0"`
	KanbanCardCapacity     float64   `json:"kanbanCardCapacity,omitempty" yaml:"kanbanCardCapacity,omitempty" validate:"gte=0"`
	PackSize               float64   `json:"packSize,omitempty" yaml:"packSize,omitempty" validate:"gte=0"`
	KanbanLimit            float64   `json:"kanbanLimit,omitempty" yaml:"kanbanLimit,omitempty" validate:"gte=0"`
	ActiveProductionKanban float64   `json:"activeProductionKanban,omitempty" yaml:"activeProductionKanban,omitempty" validate:"gte=0"`
	ActiveWithdrawalKanban float64   `json:"activeWithdrawalKanban,omitempty" yaml:"activeWithdrawalKanban,omitempty" validate:"gte=0"`
	RequiresActiveKanban   bool      `json:"requiresActiveKanban,omitempty" yaml:"requiresActiveKanban,omitempty"`
	FIFOEnabled            bool      `json:"fifoEnabled,omitempty" yaml:"fifoEnabled,omitempty"`
	FIFOQueueAges          []float64 `json:"fifoQueueAges,omitempty" yaml:"fifoQueueAges,omitempty" validate:"dive,gte=0"`
	OpenKanbanAgeHours     float64   `json:"openKanbanAgeHours,omitempty" yaml:"openKanbanAgeHours,omitempty" validate:"gte=0"`
	MaxStock               float64   `json:"maxStock,omitempty" yaml:"maxStock,omitempty" validate:"gte=0"`
	IncomingQty            float64   `json:"incomingQty,omitempty" yaml:"incomingQty,omitempty" validate:"gte=0"`
	ReservedQty            float64   `json:"reservedQty,omitempty" yaml:"reservedQty,omitempty" validate:"gte=0"`
	BlockedQCQty           float64   `json:"blockedQcQty,omitempty" yaml:"blockedQcQty,omitempty" validate:"gte=0"`

	Variants []VariantRecord `json:"variants,omitempty" yaml:"variants,omitempty" validate:"dive"`
}

// VariantRecord is one raw product-mix variant.
type VariantRecord struct {
	Name  string  `json:"name" yaml:"name"`
	Ratio float64 `json:"ratio" yaml:"ratio" validate:"gt=0,lte=1"`
	CT    float64 `json:"ct" yaml:"ct" validate:"gt=0"`
}

// EdgeRecord is the raw, external representation of an edge.
type EdgeRecord struct {
	ID     string   `json:"id" yaml:"id" validate:"required"`
	Source string   `json:"source" yaml:"source" validate:"required"`
	Target string   `json:"target" yaml:"target" validate:"required"`
	Data   EdgeData `json:"data" yaml:"data"`
}

// EdgeData is the optional payload of a raw edge record.
type EdgeData struct {
	TransportTime float64 `json:"transportTime,omitempty" yaml:"transportTime,omitempty" validate:"gte=0"`
	TransitQty    float64 `json:"transitQty,omitempty" yaml:"transitQty,omitempty" validate:"gte=0"`
	Priority      float64 `json:"priority,omitempty" yaml:"priority,omitempty" validate:"gte=0"`
}

// BuildGraph validates and normalizes raw records into an immutable Graph.
//
// All problems found in one pass are returned together as ValidationErrors.
// The returned graph shares no state with the input slices.
func BuildGraph(nodes []NodeRecord, edges []EdgeRecord) (*Graph, error) {
	var errs ValidationErrors

	g := &Graph{
		nodes:    make(map[string]*Node, len(nodes)),
		inbound:  make(map[string][]*Edge),
		outbound: make(map[string][]*Edge),
	}

	for i := range nodes {
		rec := &nodes[i]
		if err := validate.Struct(rec); err != nil {
			errs = append(errs, structErrors(rec.ID, "", err)...)
			continue
		}
		if _, dup := g.nodes[rec.ID]; dup {
			errs = append(errs, &ValidationError{NodeID: rec.ID, Field: "id", Message: "duplicate node id"})
			continue
		}
		node, nodeErrs := normalizeNode(rec)
		if len(nodeErrs) > 0 {
			errs = append(errs, nodeErrs...)
			continue
		}
		g.nodes[node.ID] = node
		g.order = append(g.order, node.ID)
	}

	seenEdges := make(map[string]bool, len(edges))
	for i := range edges {
		rec := &edges[i]
		if err := validate.Struct(rec); err != nil {
			errs = append(errs, structErrors("", rec.ID, err)...)
			continue
		}
		if seenEdges[rec.ID] {
			errs = append(errs, &ValidationError{EdgeID: rec.ID, Field: "id", Message: "duplicate edge id"})
			continue
		}
		seenEdges[rec.ID] = true
		if _, ok := g.nodes[rec.Source]; !ok {
			errs = append(errs, &ValidationError{EdgeID: rec.ID, Field: "source", Message: fmt.Sprintf("unknown node %q", rec.Source)})
			continue
		}
		if _, ok := g.nodes[rec.Target]; !ok {
			errs = append(errs, &ValidationError{EdgeID: rec.ID, Field: "target", Message: fmt.Sprintf("unknown node %q", rec.Target)})
			continue
		}

		priority := int(rec.Data.Priority)
		if priority == 0 {
			priority = DefaultEdgePriority
		}
		e := &Edge{
			ID:                rec.ID,
			Source:            rec.Source,
			Target:            rec.Target,
			TransportTimeDays: rec.Data.TransportTime,
			Priority:          priority,
			TransitQty:        int(rec.Data.TransitQty),
		}
		g.edges = append(g.edges, e)
		g.inbound[e.Target] = append(g.inbound[e.Target], e)
		g.outbound[e.Source] = append(g.outbound[e.Source], e)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return g, nil
}

// normalizeNode resolves aliases and defaults for one raw node record.
func normalizeNode(rec *NodeRecord) (*Node, ValidationErrors) {
	var errs ValidationErrors

	kind, mode := resolveKind(rec.Kind, rec.Data.SymbolType)
	if kind == "" {
		errs = append(errs, &ValidationError{NodeID: rec.ID, Field: "type", Message: fmt.Sprintf("unknown node kind %q", rec.Kind)})
		return nil, errs
	}

	n := &Node{
		ID:    rec.ID,
		Kind:  kind,
		Mode:  mode,
		Label: CanonicalLabel(firstString(rec.Data.Label, rec.Data.Name, rec.ID)),

		CycleTimeSeconds: resolveCycleTime(&rec.Data),
		LeadTimeDays:     rec.Data.LeadTime,
		ShiftCount:       intOr(rec.Data.ShiftPattern, 1),
		OvertimeAllowed:  rec.Data.OvertimeAllowed,
		Capacity:         int(rec.Data.Capacity),
		Frequency:        intOr(rec.Data.Frequency, 1),

		OnHand:      int(firstFloat(rec.Data.Inventory, rec.Data.Amount)),
		SafetyStock: int(rec.Data.SafetyStock),
		WIPCap:      int(firstFloat(rec.Data.WIPCap, rec.Data.WIPLimit, rec.Data.MaxCapacity)),
		GlobalTakt:  rec.Data.GlobalTakt,
		YieldPct:    floatOr(rec.Data.Yield, 100),

		Costs: CostRates{
			TransportPerUnit: rec.Data.CostPerUnit,
			MaterialPerUnit:  rec.Data.MaterialCost,
			LaborPerUnit:     rec.Data.LaborCost,
			MachinePerUnit:   rec.Data.MachineCost,
			FOHPerUnit:       rec.Data.FOHCost,
			HoldingPerDay:    rec.Data.HoldingCostPerDay,
			TaxPercent:       rec.Data.Taxes,
			DutyPercent:      rec.Data.Duties,
			InsurancePercent: rec.Data.Insurance,
			PortFees:         rec.Data.PortFees,
		},
		Kanban: KanbanParams{
			ConsumptionRate:    firstFloat(rec.Data.ConsumptionRate, rec.Data.DemandRate),
			DailyDemand:        rec.Data.DailyDemand,
			LeadTimeDays:       firstFloat(rec.Data.KanbanLeadTime, rec.Data.LeadTime),
			SafetyFactor:       rec.Data.KanbanSafetyFactor,
			CardCapacity:       firstFloat(rec.Data.KanbanCardCapacity, rec.Data.PackSize),
			CardLimit:          rec.Data.KanbanLimit,
			ActiveProduction:   int(rec.Data.ActiveProductionKanban),
			ActiveWithdrawal:   int(rec.Data.ActiveWithdrawalKanban),
			RequiresActive:     rec.Data.RequiresActiveKanban,
			FIFOEnabled:        rec.Data.FIFOEnabled,
			FIFOQueueAges:      append([]float64(nil), rec.Data.FIFOQueueAges...),
			OpenKanbanAgeHours: rec.Data.OpenKanbanAgeHours,
			MaxStock:           rec.Data.MaxStock,
			IncomingQty:        int(rec.Data.IncomingQty),
			ReservedQty:        int(rec.Data.ReservedQty),
			BlockedQCQty:       int(rec.Data.BlockedQCQty),
		},
	}

	var ratioSum float64
	for i, v := range rec.Data.Variants {
		n.Variants = append(n.Variants, MixVariant{Name: v.Name, Ratio: v.Ratio, CycleTimeSeconds: v.CT})
		ratioSum += v.Ratio
		if v.Name == "" {
			errs = append(errs, &ValidationError{NodeID: rec.ID, Field: fmt.Sprintf("variants[%d].name", i), Message: "variant name is required"})
		}
	}
	if len(rec.Data.Variants) > 0 && ratioSum > 1.0001 {
		errs = append(errs, &ValidationError{NodeID: rec.ID, Field: "variants", Message: fmt.Sprintf("mix ratios sum to %.4f, must not exceed 1", ratioSum)})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return n, nil
}

// resolveKind maps the raw type string (plus legacy symbolType aliases)
// to a canonical kind and, for transport nodes, a carrier mode.
func resolveKind(kind, symbolType string) (NodeKind, TransportMode) {
	switch kind {
	case "truck":
		return KindTransport, ModeTruck
	case "sea":
		return KindTransport, ModeSea
	case "air":
		return KindTransport, ModeAir
	case "transport":
		switch symbolType {
		case "sea":
			return KindTransport, ModeSea
		case "air":
			return KindTransport, ModeAir
		default:
			return KindTransport, ModeTruck
		}
	}
	k := NodeKind(kind)
	if k.Valid() {
		return k, ""
	}
	// Legacy records sometimes put the kind in data.symbolType only.
	if s := NodeKind(symbolType); s.Valid() {
		return s, ""
	}
	return "", ""
}

// resolveCycleTime applies the alias precedence order. processingTime is
// declared in hours and converts to seconds.
func resolveCycleTime(d *NodeData) float64 {
	switch {
	case d.MT > 0:
		return d.MT
	case d.CT > 0:
		return d.CT
	case d.Time > 0:
		return d.Time
	case d.ProcessingTime > 0:
		return d.ProcessingTime * 3600
	default:
		return d.CycleTime
	}
}

// structErrors converts validator struct errors into ValidationErrors.
func structErrors(nodeID, edgeID string, err error) ValidationErrors {
	var errs ValidationErrors
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errs = append(errs, &ValidationError{
				NodeID:  nodeID,
				EdgeID:  edgeID,
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed %q constraint (value %v)", fe.Tag(), fe.Value()),
			})
		}
		return errs
	}
	return ValidationErrors{{NodeID: nodeID, EdgeID: edgeID, Field: "record", Message: err.Error()}}
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstFloat(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func floatOr(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

func intOr(v float64, def int) int {
	if v > 0 {
		return int(v)
	}
	return def
}
