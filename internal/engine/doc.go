// Package engine implements the memento review engine: the Due Selector and
// the Review Orchestrator.
//
// ARCHITECTURE:
//
// State is never stored directly. Every decision is made from the history
// log through store.Snapshot and store.ReconstructState, and the only write
// the engine performs is an append of one history entry per graded item.
//
// Review Session Flow:
//  1. Read "now" once from the Clock
//  2. Snapshot the owner's due items (SelectDue)
//  3. For each item in selector order: ask the GradeSource for a response
//  4. Normalize the grade; an invalid grade skips the item, nothing is written
//  5. Reconstruct the prior state from the log
//  6. Call the scheduling policy with (prior, rating, now)
//  7. Append the outcome as a new history entry and report the new due instant
//
// A failure on one item is recorded in that item's result and the session
// moves on. Only context cancellation or a GradeSource error ends a session
// early.
//
// The engine is single-threaded per session. Two sessions reviewing the same
// item may both append; the later review instant wins on reconstruction.
package engine
