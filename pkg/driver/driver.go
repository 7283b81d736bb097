package driver

import (
	"context"
)

// EntityRecord is an entity row returned by a name lookup. Centrality is the
// store's precomputed importance score (e.g. PageRank); the engine never
// computes it.
type EntityRecord struct {
	ID             string  `json:"entity_id"`
	Name           string  `json:"canonical_name"`
	EntityType     string  `json:"entity_type"`
	BaseConfidence float64 `json:"base_confidence"`
	Centrality     float64 `json:"centrality"`
}

// PathRecord is one simple directed path between two entities. The three
// slices are aligned: len(EdgeTypes) == len(EdgeWeights) == len(NodeNames)-1.
type PathRecord struct {
	NodeNames   []string  `json:"node_names"`
	EdgeTypes   []string  `json:"edge_types"`
	EdgeWeights []float64 `json:"edge_weights"`
}

// NeighborRecord is one entity reachable from an anchor within the hop
// bound, with the number of distinct paths that reach it.
type NeighborRecord struct {
	ID              string  `json:"neighbor_id"`
	Name            string  `json:"neighbor_name"`
	EntityType      string  `json:"neighbor_type"`
	Centrality      float64 `json:"centrality"`
	ConnectionCount int     `json:"connection_count"`
}

// GraphStore is the engine's view of the property-graph database. All three
// operations are read-only and may return empty result sets; transport
// failures surface as errors wrapping types.ErrStoreUnavailable.
type GraphStore interface {
	// FindEntitiesByName returns entities whose stored name equals or
	// contains name case-insensitively, ordered by centrality descending,
	// capped at limit.
	FindEntitiesByName(ctx context.Context, name string, limit int) ([]EntityRecord, error)

	// FindPaths returns simple directed paths of exactly hopCount edges from
	// sourceID to targetID whose every edge weight exceeds minEdgeWeight,
	// capped at limit. Paths beyond the limit are never materialized.
	FindPaths(ctx context.Context, sourceID, targetID string, hopCount int, minEdgeWeight float64, limit int) ([]PathRecord, error)

	// FindNeighborhood returns entities within maxHops of anchorID grouped
	// by neighbor, each with its distinct-path count, capped at limit.
	FindNeighborhood(ctx context.Context, anchorID string, maxHops, limit int) ([]NeighborRecord, error)

	// Close releases the store's connection pool.
	Close(ctx context.Context) error
}
