package sim

import (
	"time"

	"github.com/roach88/takt/internal/kanban"
)

// LogLevel tags a simulation log line. Logging is audit/timeline only and
// never affects control flow.
type LogLevel string

const (
	LevelInfo    LogLevel = "info"
	LevelSuccess LogLevel = "success"
	LevelWarn    LogLevel = "warn"
	LevelError   LogLevel = "error"
)

// LogEntry is one append-only simulation log line.
type LogEntry struct {
	Seq       int64     `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
}

// EntryType classifies a schedule entry for timeline rendering.
type EntryType string

const (
	EntryProcess   EntryType = "process"
	EntrySupplier  EntryType = "supplier"
	EntryInventory EntryType = "inventory"
	EntryLogistic  EntryType = "logistic"
)

// ScheduleEntry is one booked (or attempted) execution window. Failed
// entries stay in the schedule so the timeline shows what was attempted;
// NotProcessed entries are synthetic backfills for nodes the recursion
// never touched.
type ScheduleEntry struct {
	Seq          int64     `json:"seq"`
	NodeID       string    `json:"nodeId"`
	Label        string    `json:"label"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Type         EntryType `json:"type"`
	Quantity     int       `json:"quantity"`
	Failed       bool      `json:"failed,omitempty"`
	NotProcessed bool      `json:"notProcessed,omitempty"`
}

// NodeStatus summarizes one node's stock movement over the run.
type NodeStatus struct {
	Initial  int `json:"initial"`
	Final    int `json:"final"`
	Shortage int `json:"shortage"`
}

// WIPViolation records a WIP ledger bookings that exceeded the node's cap.
type WIPViolation struct {
	NodeID   string `json:"nodeId"`
	NodeName string `json:"nodeName"`
	Limit    int    `json:"limit"`
	Actual   int    `json:"actual"`
	Excess   int    `json:"excess"`
}

// RiskSeverity grades a risk finding.
type RiskSeverity string

const (
	RiskMedium RiskSeverity = "medium"
	RiskHigh   RiskSeverity = "high"
)

// RiskNode is one finding from the network risk pass. The pass is
// diagnostic only; it never affects feasibility.
type RiskNode struct {
	NodeID   string       `json:"nodeId"`
	Type     string       `json:"type"`
	Severity RiskSeverity `json:"severity"`
	Message  string       `json:"message"`
}

// CostBreakdown accumulates landed and conversion cost into named buckets.
// The derived fields (DirectCost, IndirectCost, Total, ValueAddedCost,
// NonValueAddedCost) are computed once by finalize and obey:
//
//	DirectCost   = DirectMaterial + DirectLabor + Machine
//	IndirectCost = FOH + Inventory + Transportation + Taxes + Duties +
//	               Fees + WIP + QualityLoss
//	Total        = DirectCost + IndirectCost
type CostBreakdown struct {
	Production     float64 `json:"production"`
	Inventory      float64 `json:"inventory"`
	Transportation float64 `json:"transportation"`
	Taxes          float64 `json:"taxes"`
	Duties         float64 `json:"duties"`
	Fees           float64 `json:"fees"`
	WIP            float64 `json:"wip"`
	FOH            float64 `json:"foh"`
	DirectMaterial float64 `json:"directMaterial"`
	DirectLabor    float64 `json:"directLabor"`
	Machine        float64 `json:"machine"`
	QualityLoss    float64 `json:"qualityLoss"`

	ValueAddedCost    float64 `json:"valueAddedCost"`
	NonValueAddedCost float64 `json:"nonValueAddedCost"`
	DirectCost        float64 `json:"directCost"`
	IndirectCost      float64 `json:"indirectCost"`
	Total             float64 `json:"total"`
}

// finalize computes the derived buckets from the accumulated ones.
func (c *CostBreakdown) finalize() {
	c.DirectCost = c.DirectMaterial + c.DirectLabor + c.Machine
	c.IndirectCost = c.FOH + c.Inventory + c.Transportation + c.Taxes +
		c.Duties + c.Fees + c.WIP + c.QualityLoss
	c.Total = c.DirectCost + c.IndirectCost
	c.ValueAddedCost = c.DirectCost
	c.NonValueAddedCost = c.IndirectCost
}

// Result is the aggregated response of one Simulate call: solver output,
// kanban evaluation, and alerts merged into a single contract.
type Result struct {
	RunID             string                       `json:"runId"`
	Success           bool                         `json:"success"`
	FulfilledQuantity int                          `json:"fulfilledQuantity"`
	RootCause         string                       `json:"rootCause,omitempty"`
	FailureCode       FailureCode                  `json:"failureCode,omitempty"`
	Logs              []LogEntry                   `json:"logs"`
	Schedule          []ScheduleEntry              `json:"schedule"`
	NodeStatus        map[string]NodeStatus        `json:"nodeStatus"`
	Cost              CostBreakdown                `json:"costBreakdown"`
	WIPLevels         map[string]int               `json:"wipLevels"`
	WIPViolations     []WIPViolation               `json:"wipViolations"`
	RiskNodes         []RiskNode                   `json:"riskNodes"`
	KanbanStates      map[string]*kanban.NodeState `json:"kanbanNodeStates"`
	Propagation       map[string]kanban.RiskMark   `json:"shortagePropagation"`
	Alerts            []kanban.Alert               `json:"alerts"`
	VSMSummary        kanban.Summary               `json:"vsmSummary"`
	KanbanAnalytics   kanban.Analytics             `json:"kanbanAnalytics"`
	QtyRotationIssues []kanban.RotationIssue       `json:"qtyRotationIssues"`
}

// LeadTimeSeconds returns the span between the earliest schedule start and
// the latest schedule end.
func (r *Result) LeadTimeSeconds() float64 {
	if len(r.Schedule) == 0 {
		return 0
	}
	earliest := r.Schedule[0].Start
	latest := r.Schedule[0].End
	for _, s := range r.Schedule[1:] {
		if s.Start.Before(earliest) {
			earliest = s.Start
		}
		if s.End.After(latest) {
			latest = s.End
		}
	}
	if latest.Before(earliest) {
		return 0
	}
	return latest.Sub(earliest).Seconds()
}
