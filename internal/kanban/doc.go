// Package kanban derives pull-system health from a supply network and a
// finished run's ledgers.
//
// The Evaluator computes per-node states (reorder points, card counts,
// time to stockout, FIFO and WIP adherence) and propagates shortage risk
// downstream. The RuleEngine turns those states into alerts with
// per-(rule, entity) cooldown so a persistent condition does not flood
// repeated evaluations.
package kanban
