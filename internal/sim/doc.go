// Package sim implements the capable-to-promise (CTP) solver.
//
// Given an ingested production network and a demand (end node, quantity,
// due date), the engine recurses backward from the demand node and answers
// whether the demand is feasible, producing a backward schedule, a landed
// cost breakdown, a WIP ledger, and shortage diagnostics.
//
// ARCHITECTURE:
//
// Per-run Context:
// Every Simulate call creates a fresh Context owning all mutable state
// (stock, capacity, shortage, WIP, cost, schedule, log ledgers). Nothing
// carries over between runs, so an Engine can be reused sequentially
// without ledger bleed. A single run is strictly single-threaded.
//
// Recursive state machine:
// Each node visit walks cycle check -> lead time -> capacity -> material
// -> commit. checkOperation and checkBuffer are mutually recursive;
// termination is guaranteed by the active-path set, which fails any branch
// that revisits a node already being processed. The guard is the
// correctness mechanism - it catches cycles structurally rather than
// relying on stack depth.
//
// In-band failure:
// Expected infeasibility (lead time, capacity, material, cycles, unknown
// node) travels through recursive return values as outcome records and
// surfaces as Result.RootCause. No panics, no Go errors, no exception
// handling anywhere on the recursion path. Partial fulfillment is a
// first-class result.
//
// Eager booking:
// Bookings commit per recursive call once a node's whole operation is
// feasible; there is no event queue and no discrete-event time
// progression. Ordering is fully determined by graph structure and edge
// priority, and every schedule/log record is stamped with a monotonic
// logical seq for replayable output.
package sim
