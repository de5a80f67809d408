package kanban

import "time"

// Severity orders alert urgency. Andon outranks critical: it demands an
// immediate line response rather than an escalation.
type Severity string

const (
	SeverityAndon    Severity = "andon"
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// RuleCode identifies the adherence rule that raised an alert.
type RuleCode string

const (
	RuleBelowROP                RuleCode = "TPS_BELOW_ROP"
	RuleBelowSafetyStock        RuleCode = "TPS_BELOW_SAFETY_STOCK"
	RuleNoActiveKanbanBelowROP  RuleCode = "TPS_NO_ACTIVE_KANBAN_BELOW_ROP"
	RuleStockoutTimeAndon       RuleCode = "TPS_STOCKOUT_TIME_ANDON"
	RuleStockoutTimeCritical    RuleCode = "TPS_STOCKOUT_TIME_CRITICAL"
	RuleStockoutTimeWarning     RuleCode = "TPS_STOCKOUT_TIME_WARNING"
	RuleFIFOViolation           RuleCode = "TPS_FIFO_VIOLATION"
	RuleWIPCapExceeded          RuleCode = "TPS_WIP_CAP_EXCEEDED"
	RuleKanbanOverdue           RuleCode = "TPS_KANBAN_OVERDUE"
	RuleProductionWithoutKanban RuleCode = "TPS_PRODUCTION_WITHOUT_KANBAN"
)

// Alert is one rule firing against one entity. EntityID names the node;
// SLAMinutes is the expected response window for the severity.
type Alert struct {
	Severity         Severity  `json:"severity"`
	RuleCode         RuleCode  `json:"rule_code"`
	EntityID         string    `json:"entity_id"`
	Message          string    `json:"message"`
	SuggestedActions []string  `json:"suggested_actions"`
	SLAMinutes       int       `json:"sla_minutes"`
	Timestamp        time.Time `json:"timestamp"`
}
