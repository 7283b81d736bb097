// Package search runs the path and neighborhood exploration phase of a
// query: for every pair of resolved entities it enumerates bounded-length
// simple paths, and for every resolved entity it expands the surrounding
// neighborhood.
//
// The per-pair and per-entity searches share no mutable state and run
// concurrently on a worker pool bounded by the configured store connection
// budget. Candidate order is deterministic regardless of completion order:
// each search writes into a slot assigned at dispatch time.
package search
