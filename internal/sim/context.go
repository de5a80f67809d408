package sim

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/takt/internal/model"
)

// capKey addresses one cell of the tentative capacity ledger. Process
// nodes book seconds per node per day; transport nodes book units per
// node per day (qty=true).
type capKey struct {
	nodeID string
	day    string
	qty    bool
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Context owns every piece of mutable state for exactly one run. It is
// created inside Simulate and read out at the end; a second Simulate call
// gets a fresh Context, so ledgers can never leak between runs.
type Context struct {
	runID string
	now   time.Time // frozen at run start; lead-time checks compare to this
	clock *Clock

	stock         map[string]int     // nodeID -> remaining tentative stock
	capacity      map[capKey]float64 // consumed seconds or units
	shortages     map[string]int     // nodeID -> cumulative shortage
	wip           map[string]int     // nodeID -> current WIP
	wipViolations []WIPViolation
	cost          CostBreakdown
	schedule      []ScheduleEntry
	logs          []LogEntry

	// active is the recursion path guard. Pure cycle detection: a node id
	// already on the path fails the branch immediately.
	active map[string]bool

	logger *slog.Logger
}

// newContext seeds the tentative stock ledger from the graph. Nodes with
// declared stock, and all inventory-kind nodes, get an entry; everything
// else stays absent (reads as zero).
func newContext(g *model.Graph, runID string, now time.Time, logger *slog.Logger) *Context {
	ctx := &Context{
		runID:     runID,
		now:       now,
		clock:     NewClock(),
		stock:     make(map[string]int),
		capacity:  make(map[capKey]float64),
		shortages: make(map[string]int),
		wip:       make(map[string]int),
		active:    make(map[string]bool),
		logger:    logger,
	}
	for _, n := range g.Nodes() {
		if n.OnHand > 0 || n.IsInventory() {
			ctx.stock[n.ID] = n.OnHand
		}
	}
	return ctx
}

// log appends an audit line and mirrors it to the structured logger.
// Logging never affects control flow.
func (c *Context) log(level LogLevel, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.logs = append(c.logs, LogEntry{
		Seq:       c.clock.Next(),
		Timestamp: c.now,
		Level:     level,
		Message:   msg,
	})
	switch level {
	case LevelError:
		c.logger.Error(msg, "run", c.runID)
	case LevelWarn:
		c.logger.Warn(msg, "run", c.runID)
	default:
		c.logger.Debug(msg, "run", c.runID, "outcome", string(level))
	}
}

// addSchedule appends a schedule entry stamped with the next seq.
func (c *Context) addSchedule(e ScheduleEntry) {
	e.Seq = c.clock.Next()
	c.schedule = append(c.schedule, e)
}

// stockAt returns the tentative remaining stock for a node.
func (c *Context) stockAt(id string) int {
	return c.stock[id]
}

// addShortage accumulates an irreducible shortage against a node.
func (c *Context) addShortage(id string, qty int) {
	c.shortages[id] += qty
}

// usedCapacity returns the consumed capacity for a ledger cell.
func (c *Context) usedCapacity(k capKey) float64 {
	return c.capacity[k]
}

// bookCapacity commits consumption into a ledger cell. Called only after
// the whole operation is known feasible - no partial commit on failure.
func (c *Context) bookCapacity(k capKey, amount float64) {
	c.capacity[k] += amount
}
