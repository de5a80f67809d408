package kanban

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DefaultCooldown is the window within which a (rule, entity) pair will
// not fire again.
const DefaultCooldown = 120 * time.Second

// RuleEngine turns node states into alerts. It keeps one piece of state
// across evaluations: the last firing time per (rule, entity) pair, used
// to suppress repeats inside the cooldown window.
type RuleEngine struct {
	now      func() time.Time
	cooldown time.Duration
	lastSeen map[string]time.Time
}

// RuleOption configures a RuleEngine.
type RuleOption func(*RuleEngine)

// WithRuleNow fixes the engine's time source for tests.
func WithRuleNow(now func() time.Time) RuleOption {
	return func(r *RuleEngine) {
		r.now = now
	}
}

// WithCooldown overrides the repeat-suppression window.
func WithCooldown(d time.Duration) RuleOption {
	return func(r *RuleEngine) {
		r.cooldown = d
	}
}

// NewRuleEngine creates a RuleEngine with the default cooldown.
func NewRuleEngine(opts ...RuleOption) *RuleEngine {
	r := &RuleEngine{
		now:      time.Now,
		cooldown: DefaultCooldown,
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Evaluate runs every rule against every state and returns the surviving
// alerts, in node-ID order. Within one call a (rule, entity) pair fires
// at most once; across calls a pair inside its cooldown window is
// dropped without refreshing the window.
func (r *RuleEngine) Evaluate(states map[string]*NodeState) []Alert {
	now := r.now()

	ids := make([]string, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var raw []Alert
	for _, id := range ids {
		raw = append(raw, r.rulesFor(states[id], now)...)
	}

	alerts := make([]Alert, 0, len(raw))
	inBatch := make(map[string]bool)
	for _, a := range raw {
		key := string(a.RuleCode) + ":" + a.EntityID
		if inBatch[key] {
			continue
		}
		if last, ok := r.lastSeen[key]; ok && now.Sub(last) < r.cooldown {
			continue
		}
		inBatch[key] = true
		r.lastSeen[key] = now
		alerts = append(alerts, a)
	}
	return alerts
}

func (r *RuleEngine) rulesFor(s *NodeState, now time.Time) []Alert {
	name := s.NodeName
	if name == "" {
		name = s.NodeID
	}

	var alerts []Alert
	add := func(severity Severity, code RuleCode, message string, sla int, actions ...string) {
		alerts = append(alerts, Alert{
			Severity:         severity,
			RuleCode:         code,
			EntityID:         s.NodeID,
			Message:          message,
			SuggestedActions: actions,
			SLAMinutes:       sla,
			Timestamp:        now,
		})
	}

	if s.BelowROP {
		add(SeverityWarning, RuleBelowROP,
			fmt.Sprintf("%s below reorder point (%d < %.0f).", name, s.AvailableUsableQty, s.ReorderPoint),
			120,
			"Issue withdrawal kanban", "Verify inbound replenishment", "Review demand spikes")
	}

	if s.BelowSafetyStock {
		add(SeverityCritical, RuleBelowSafetyStock,
			fmt.Sprintf("%s below safety stock (%d < %d).", name, s.AvailableUsableQty, s.SafetyStock),
			60,
			"Escalate to supervisor", "Expedite replenishment", "Activate contingency source")
	}

	if s.NoActiveKanbanBelowROP {
		add(SeverityCritical, RuleNoActiveKanbanBelowROP,
			fmt.Sprintf("%s below ROP without active withdrawal kanban.", name),
			30,
			"Create withdrawal kanban now", "Validate kanban loop ownership", "Audit kanban board sync")
	}

	if s.TimeToStockout != nil && !math.IsInf(*s.TimeToStockout, 0) {
		tts := *s.TimeToStockout
		switch {
		case tts <= 2:
			add(SeverityAndon, RuleStockoutTimeAndon,
				fmt.Sprintf("%s predicted stockout within %.2f time units (ANDON).", name, tts),
				15,
				"Trigger andon response", "Freeze non-priority consumption", "Emergency replenishment")
		case tts <= 8:
			add(SeverityCritical, RuleStockoutTimeCritical,
				fmt.Sprintf("%s predicted stockout within %.2f time units.", name, tts),
				30,
				"Pull in replenishment", "Re-prioritize production sequence")
		case tts <= 24:
			add(SeverityWarning, RuleStockoutTimeWarning,
				fmt.Sprintf("%s predicted stockout within %.2f time units.", name, tts),
				120,
				"Review incoming pipeline", "Tune kanban card release")
		}
	}

	if s.FIFOViolation {
		add(SeverityWarning, RuleFIFOViolation,
			fmt.Sprintf("%s FIFO lane sequence violation detected.", name),
			90,
			"Re-sequence FIFO lane", "Block out-of-order withdrawal")
	}

	if s.WIPCapExceeded {
		add(SeverityCritical, RuleWIPCapExceeded,
			fmt.Sprintf("%s WIP cap exceeded (%d > %d).", name, s.CurrentWIP, s.WIPCap),
			45,
			"Stop upstream feed", "Clear blocked downstream", "Re-balance workload")
	}

	if s.KanbanOverdue {
		add(SeverityWarning, RuleKanbanOverdue,
			fmt.Sprintf("%s has overdue/stuck kanban cards.", name),
			120,
			"Close stale kanban", "Re-issue card with new ETA", "Check handoff ownership")
	}

	if s.ProductionWithoutKanban {
		add(SeverityCritical, RuleProductionWithoutKanban,
			fmt.Sprintf("%s output detected without active production kanban.", name),
			20,
			"Stop unauthorized production", "Issue production kanban", "Perform root cause analysis")
	}

	return alerts
}
