package sim

import (
	"log/slog"
	"math"
	"time"

	"github.com/roach88/takt/internal/kanban"
	"github.com/roach88/takt/internal/model"
)

// Engine is the capable-to-promise solver for one production network.
//
// An Engine is cheap and stateless apart from the kanban rule engine's
// alert cooldown memory; every Simulate call builds a fresh Context, so
// stock, capacity, WIP, cost, and schedule ledgers never carry over
// between runs. Reusing one Engine for sequential runs is safe; a single
// run is strictly single-threaded.
type Engine struct {
	graph  *model.Graph
	logger *slog.Logger
	now    func() time.Time
	tokens TokenGenerator
	rules  *kanban.RuleEngine
	eval   *kanban.Evaluator
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow fixes the engine's time source. Lead-time feasibility compares
// backward-scheduled start dates against this clock; tests freeze it.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets the structured logger mirrored by the simulation log.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTokenGenerator replaces the run token generator (fixed in tests).
func WithTokenGenerator(gen TokenGenerator) Option {
	return func(e *Engine) {
		e.tokens = gen
	}
}

// WithRuleEngine replaces the kanban rule engine. The rule engine is the
// one deliberately stateful collaborator: its cooldown memory spans
// Simulate calls so repeated runs don't re-emit identical alerts.
func WithRuleEngine(rules *kanban.RuleEngine) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

// New creates an Engine over an ingested graph.
func New(g *model.Graph, opts ...Option) *Engine {
	e := &Engine{
		graph:  g,
		logger: slog.Default(),
		now:    time.Now,
		tokens: UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rules == nil {
		e.rules = kanban.NewRuleEngine(kanban.WithRuleNow(e.now))
	}
	e.eval = kanban.NewEvaluator(g, kanban.WithEvaluatorNow(e.now))
	return e
}

// Graph returns the network this engine simulates.
func (e *Engine) Graph() *model.Graph { return e.graph }

// Simulate answers whether quantity units can be produced and delivered at
// endNodeID by dueDate. Expected infeasibility (lead time, capacity,
// material, cycles, unknown end node) is reported inside the Result;
// the error return covers contract misuse only.
func (e *Engine) Simulate(endNodeID string, quantity int, dueDate time.Time) (*Result, error) {
	if quantity <= 0 {
		return nil, &RunError{Code: "INVALID_QUANTITY", Message: "demand quantity must be positive"}
	}
	if dueDate.IsZero() {
		return nil, &RunError{Code: "INVALID_DUE_DATE", Message: "due date is required"}
	}

	c := newContext(e.graph, e.tokens.Generate(), e.now(), e.logger)
	c.log(LevelInfo, "starting simulation: demand %d @ %s for node %s",
		quantity, dueDate.UTC().Format(time.RFC3339), endNodeID)

	out := e.checkOperation(c, endNodeID, quantity, dueDate)

	e.applyBottleneckShortages(c, quantity)
	e.backfillSchedule(c, quantity, dueDate)

	nodeStatus := make(map[string]NodeStatus, e.graph.NodeCount())
	for _, n := range e.graph.Nodes() {
		final := n.OnHand
		if v, ok := c.stock[n.ID]; ok {
			final = v
		}
		nodeStatus[n.ID] = NodeStatus{
			Initial:  n.OnHand,
			Final:    final,
			Shortage: c.shortages[n.ID],
		}
	}

	c.cost.finalize()

	result := &Result{
		RunID:             c.runID,
		Success:           out.feasible,
		FulfilledQuantity: out.fulfilled,
		RootCause:         out.reason,
		FailureCode:       out.code,
		Logs:              c.logs,
		Schedule:          c.schedule,
		NodeStatus:        nodeStatus,
		Cost:              c.cost,
		WIPLevels:         c.wip,
		WIPViolations:     c.wipViolations,
		RiskNodes:         e.RiskAnalysis(),
	}

	evaluation := e.eval.Evaluate(c.wip)
	result.KanbanStates = evaluation.States
	result.Propagation = evaluation.Propagation
	result.Alerts = e.rules.Evaluate(evaluation.States)
	result.QtyRotationIssues = e.eval.RotationIssues(evaluation)
	result.VSMSummary = e.eval.Summarize(evaluation, kanban.SummaryInput{
		FulfilledQuantity: result.FulfilledQuantity,
		LeadTimeSeconds:   result.LeadTimeSeconds(),
		AlertCount:        len(result.Alerts),
	})
	result.KanbanAnalytics = kanban.AnalyticsFrom(result.VSMSummary)

	if result.Success {
		c.log(LevelSuccess, "simulation complete: fulfilled %d of %d", result.FulfilledQuantity, quantity)
	} else {
		c.log(LevelError, "simulation infeasible: %s", result.RootCause)
	}
	result.Logs = c.logs

	return result, nil
}

// applyBottleneckShortages adds a takt-vs-cycle-time shortage for every
// process node slower than its takt. Runs after the recursion, so it
// accumulates on top of shortages already recorded by buffer checks.
func (e *Engine) applyBottleneckShortages(c *Context, quantity int) {
	for _, n := range e.graph.Nodes() {
		if !n.IsProcess() {
			continue
		}
		ct := n.EffectiveCycleTime()
		takt := n.GlobalTakt
		if ct <= 0 || takt <= 0 || ct <= takt {
			continue
		}
		short := int(math.Ceil(float64(quantity) * (1 - takt/ct)))
		c.addShortage(n.ID, short)
		c.log(LevelWarn, "[bottleneck] %s: ct=%.0fs > takt=%.0fs, shortage %d units",
			n.Label, ct, takt, short)
	}
}

// backfillSchedule gives every node untouched by the recursion a synthetic
// backward-dated entry so the output schedule always covers the whole
// network (parallel unconsumed branches included).
func (e *Engine) backfillSchedule(c *Context, quantity int, dueDate time.Time) {
	touched := make(map[string]bool, len(c.schedule))
	for _, s := range c.schedule {
		touched[s.NodeID] = true
	}
	for _, n := range e.graph.Nodes() {
		if touched[n.ID] {
			continue
		}
		var durationSec float64
		if n.IsProcess() {
			durationSec = n.EffectiveCycleTime() * float64(quantity)
		} else {
			durationSec = n.GlobalTakt * float64(quantity)
			if durationSec == 0 {
				durationSec = 3600
			}
		}
		c.addSchedule(ScheduleEntry{
			NodeID:       n.ID,
			Label:        n.Label,
			Start:        dueDate.Add(-durationFromSeconds(durationSec)),
			End:          dueDate,
			Type:         entryTypeFor(n),
			Quantity:     quantity,
			NotProcessed: true,
		})
	}
}

// entryTypeFor maps a node kind to its schedule entry classification.
func entryTypeFor(n *model.Node) EntryType {
	switch n.Kind {
	case model.KindTransport:
		return EntryLogistic
	case model.KindSupplier:
		return EntrySupplier
	case model.KindInventory:
		return EntryInventory
	default:
		return EntryProcess
	}
}

// durationFromSeconds converts a fractional second count to a Duration.
func durationFromSeconds(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

// durationFromDays converts fractional days to a Duration.
func durationFromDays(days float64) time.Duration {
	return time.Duration(days * model.SecondsPerDay * float64(time.Second))
}
