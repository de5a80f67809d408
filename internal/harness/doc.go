// Package harness provides a scenario testing framework for the
// capable-to-promise engine.
//
// Scenarios are YAML files that declare a network (inline records or a
// CUE directory), one demand, an expected outcome, and assertions over
// the result. The harness runs the real engine with a frozen clock and a
// fixed run token, so every execution of a scenario is byte-identical
// and can be compared against a golden snapshot.
//
// Assertion types:
//   - schedule_contains: a non-failed schedule entry exists for a node
//   - shortage_at: a node recorded a shortage (optionally an exact qty)
//   - alert_emitted: a kanban rule fired (optionally at a given node)
//   - cost_total_max: the total landed+conversion cost stays under a cap
package harness
