// Package syncer contains the sync-cycle engine: one cycle loads the thread
// page, extracts media links and runs the bounded download pool to
// completion, and the poll scheduler repeats cycles on a fixed interval
// until a wall-clock budget is exhausted.
//
// Cycles are strictly sequential. All of cycle N's workers finish before
// cycle N+1 begins, and the dedup ledger created with the Syncer is threaded
// into every cycle so nothing is fetched twice in one run. The budget is
// checked only after a cycle completes: there is no mechanism to abort a
// cycle in flight, so the budget is a floor rather than a hard cutoff.
package syncer
