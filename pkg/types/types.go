package types

// MatchKind describes how a query span matched a stored entity name.
type MatchKind string

const (
	// MatchExact means the stored name equals the span case-insensitively.
	MatchExact MatchKind = "exact"
	// MatchPartial means the stored name contains the span case-insensitively.
	MatchPartial MatchKind = "partial"
)

// ResolvedEntity is a graph entity matched to a span of the query text.
// Multiple ResolvedEntity records may share the same QuerySpan; ambiguity is
// preserved so each candidate is explored independently downstream.
type ResolvedEntity struct {
	QuerySpan      string    `json:"query_span"`
	EntityID       string    `json:"entity_id"`
	CanonicalName  string    `json:"canonical_name"`
	EntityType     string    `json:"entity_type"`
	Centrality     float64   `json:"centrality"`
	BaseConfidence float64   `json:"base_confidence"`
	MatchKind      MatchKind `json:"match_kind"`
}

// PathCandidate is a simple directed path between two resolved entities.
// PathWeight is the product of the traversed edge weights; paths containing
// any edge at or below the minimum edge weight are discarded store-side and
// never reach this struct.
type PathCandidate struct {
	SourceID         string   `json:"source_id"`
	TargetID         string   `json:"target_id"`
	NodeSequence     []string `json:"node_sequence"`
	EdgeTypeSequence []string `json:"edge_type_sequence"`
	HopCount         int      `json:"hop_count"`
	PathWeight       float64  `json:"path_weight"`

	// EndpointCentrality is the mean of the two resolved endpoints' stored
	// centralities, captured at dispatch time for scoring.
	EndpointCentrality float64 `json:"endpoint_centrality"`
}

// NeighborCandidate is an entity reachable from an anchor within the hop
// bound. ConnectionCount is the number of distinct bounded-length paths from
// the anchor to the neighbor, a density signal distinct from path weight.
type NeighborCandidate struct {
	AnchorID        string  `json:"anchor_id"`
	AnchorName      string  `json:"anchor_name"`
	NeighborID      string  `json:"neighbor_id"`
	NeighborName    string  `json:"neighbor_name"`
	NeighborType    string  `json:"neighbor_type"`
	Centrality      float64 `json:"centrality"`
	ConnectionCount int     `json:"connection_count"`

	// AnchorConfidence is the anchor's resolution confidence, used as the
	// base-confidence term when scoring the neighbor.
	AnchorConfidence float64 `json:"anchor_confidence"`
}

// ResultKind discriminates the payload carried by a RankedResult.
type ResultKind string

const (
	PathResult     ResultKind = "path"
	NeighborResult ResultKind = "related_entity"
)

// RankedResult is a scored, ranked, explained answer candidate. Exactly one
// of Path and Neighbor is set, selected by Kind.
type RankedResult struct {
	Kind           ResultKind         `json:"result_type"`
	Confidence     float64            `json:"confidence"`
	RelevanceScore float64            `json:"relevance_score"`
	Rank           int                `json:"rank"`
	Explanation    string             `json:"explanation"`
	Path           *PathCandidate     `json:"path,omitempty"`
	Neighbor       *NeighborCandidate `json:"related_entity,omitempty"`
}

// ExecutionStats holds query-scoped counters. They exist for one query
// execution only; the engine keeps no state between invocations.
type ExecutionStats struct {
	SpansDetected    int `json:"spans_detected"`
	EntitiesResolved int `json:"entities_resolved"`
	PathSearches     int `json:"path_searches"`
	NeighborSearches int `json:"neighbor_searches"`
	SearchesFailed   int `json:"searches_failed"`
	CandidatesScored int `json:"candidates_scored"`
}

// QueryResponse is the sole externally visible artifact of a query.
type QueryResponse struct {
	QueryID     string         `json:"query_id"`
	Results     []RankedResult `json:"query_results"`
	ResultCount int            `json:"result_count"`
	// Confidence is a rank-weighted aggregate over all returned results.
	Confidence float64 `json:"confidence"`
	// Reason explains an empty result set that is not an error, e.g. no
	// recognizable entities in the query text.
	Reason string `json:"reason,omitempty"`
	// Partial is set when the query deadline expired and only the searches
	// completed by then were ranked.
	Partial bool           `json:"partial,omitempty"`
	Stats   ExecutionStats `json:"stats"`
}
