package types

import "errors"

// Failure taxonomy. Store unavailability is fatal while resolving entities
// (ranking assumes a complete resolved set) and recoverable during path or
// neighborhood search (the affected sub-search is skipped and logged).
var (
	// ErrInvalidQuery means the query text is empty or too short to process.
	ErrInvalidQuery = errors.New("query text must be at least 3 characters")

	// ErrStoreUnavailable means the graph store could not be reached.
	ErrStoreUnavailable = errors.New("graph store unavailable")
)

// ReasonNoEntities is reported on a successful empty response when the query
// contained no recognizable entity mentions. Not an error.
const ReasonNoEntities = "No recognizable entities found in query"
