package kanban

import (
	"fmt"
	"math"
)

// Summary is the value-stream overview derived from one evaluation.
type Summary struct {
	Bottleneck            string   `json:"bottleneck,omitempty"`
	Throughput            float64  `json:"throughput"`
	LeadTimeSeconds       float64  `json:"lead_time_seconds"`
	StockoutIncidents     int      `json:"stockout_incidents"`
	StockoutIncidentNodes []string `json:"stockout_incident_nodes"`
	PropagationNodes      int      `json:"shortage_propagation_nodes"`
	KanbanAdherence       float64  `json:"kanban_adherence"`
	AlertCount            int      `json:"alert_count"`
}

// SummaryInput carries run-level figures the evaluator cannot derive from
// node states alone.
type SummaryInput struct {
	FulfilledQuantity int
	LeadTimeSeconds   float64
	AlertCount        int
}

// Summarize condenses an evaluation: the bottleneck is the process node
// with the largest WIP-over-cap gap, throughput is the minimum achievable
// process output, and adherence is the share of nodes without violations.
func (ev *Evaluator) Summarize(eval *Evaluation, in SummaryInput) Summary {
	var bottleneck string
	bottleneckGap := math.Inf(-1)
	throughput := math.Inf(1)
	processSeen := false

	var stockoutNodes []string
	violations := 0

	for _, node := range ev.graph.Nodes() {
		state, ok := eval.States[node.ID]
		if !ok {
			continue
		}
		if state.HasViolation() {
			violations++
		}
		if state.TimeToStockout != nil && *state.TimeToStockout <= 0 {
			stockoutNodes = append(stockoutNodes, state.NodeID)
		}
		if node.IsProcess() {
			processSeen = true
			// The first process node stands in when no cap is exceeded,
			// so the summary always names a bottleneck candidate.
			gap := wipGap(state)
			if gap > bottleneckGap || bottleneck == "" {
				bottleneckGap = gap
				bottleneck = state.NodeName
			}
			if state.ProcessOutput < throughput {
				throughput = state.ProcessOutput
			}
		}
	}

	if !processSeen {
		throughput = float64(in.FulfilledQuantity)
	}

	total := len(eval.States)
	if total < 1 {
		total = 1
	}
	adherence := 100 * (1 - float64(violations)/float64(total))
	if adherence < 0 {
		adherence = 0
	}

	return Summary{
		Bottleneck:            bottleneck,
		Throughput:            round2(throughput),
		LeadTimeSeconds:       in.LeadTimeSeconds,
		StockoutIncidents:     len(stockoutNodes),
		StockoutIncidentNodes: stockoutNodes,
		PropagationNodes:      len(eval.Propagation),
		KanbanAdherence:       round2(adherence),
		AlertCount:            in.AlertCount,
	}
}

// wipGap measures how far the node's WIP sits above its cap. Uncapped
// nodes rank lowest.
func wipGap(s *NodeState) float64 {
	if s.WIPCap <= 0 {
		return math.Inf(-1)
	}
	return float64(s.CurrentWIP - s.WIPCap)
}

// Analytics is the condensed adherence block consumed by playback and
// reporting surfaces.
type Analytics struct {
	KanbanAdherence       float64  `json:"kanbanAdherence"`
	StockoutIncidents     int      `json:"stockoutIncidents"`
	StockoutIncidentNodes []string `json:"stockoutIncidentNodes"`
	StockoutIncidentMode  string   `json:"stockoutIncidentMode"`
}

// AnalyticsFrom derives the analytics block from a summary. Incidents
// count unique nodes per evaluation, not repeated events.
func AnalyticsFrom(s Summary) Analytics {
	return Analytics{
		KanbanAdherence:       s.KanbanAdherence,
		StockoutIncidents:     s.StockoutIncidents,
		StockoutIncidentNodes: s.StockoutIncidentNodes,
		StockoutIncidentMode:  "unique-node-per-evaluation",
	}
}

// RotationIssue flags an inventory node whose stock rotation looks wrong:
// FIFO lane age inversions or stock held above the declared maximum.
type RotationIssue struct {
	NodeID  string `json:"nodeId"`
	Kind    string `json:"kind"` // "fifo_age_inversion" | "overstock"
	Message string `json:"message"`
}

// RotationIssues scans an evaluation for quantity-rotation anomalies.
func (ev *Evaluator) RotationIssues(eval *Evaluation) []RotationIssue {
	var issues []RotationIssue
	for _, node := range ev.graph.Nodes() {
		state, ok := eval.States[node.ID]
		if !ok {
			continue
		}
		if state.FIFOViolation {
			issues = append(issues, RotationIssue{
				NodeID:  node.ID,
				Kind:    "fifo_age_inversion",
				Message: fmt.Sprintf("%s holds newer stock ahead of older stock in its FIFO lane", state.NodeName),
			})
		}
		if node.Kanban.MaxStock > 0 && float64(node.OnHand) > node.Kanban.MaxStock {
			issues = append(issues, RotationIssue{
				NodeID:  node.ID,
				Kind:    "overstock",
				Message: fmt.Sprintf("%s holds %d units above its max stock of %.0f", state.NodeName, node.OnHand, node.Kanban.MaxStock),
			})
		}
	}
	return issues
}

func round2(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return math.Round(v*100) / 100
}
