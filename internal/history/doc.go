// Package history owns the ad_history table: an append-only log of ad
// lifecycle events with date-range, per-creative and ranked-placement reads
// and a retention purge.
//
// Schema is registered with the database engine and creates or migrates
// the table. Store runs the operations; each one is a single transaction
// handed to a database.Executor.
//
// # Invalid events
//
// An event that fails ad.Event.Validate is never written and never
// returned. Save skips it and reports a diagnostic; reads drop rows that no
// longer reconstruct into a valid event and report likewise. Neither case
// fails the operation.
//
// # Ranked placements
//
// GetHighestRankedPlacementsForDateRange maps click to 1, dismiss to 2,
// view to 3 and everything else to 0, then keeps, per placement id, the
// rows at the smallest positive priority. Rows at priority 0 never appear.
package history
