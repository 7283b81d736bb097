package search

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/soundprediction/graphquery/pkg/config"
	"github.com/soundprediction/graphquery/pkg/driver"
	"github.com/soundprediction/graphquery/pkg/types"
)

// Results holds the candidates produced by one search phase, in discovery
// order: paths flattened by (pair index, hop count, store order), neighbors
// by (entity index, store order). The ranker relies on this order for its
// tie-break, so it is fixed at dispatch time, not completion time.
type Results struct {
	Paths     []types.PathCandidate
	Neighbors []types.NeighborCandidate

	PathSearches     int
	NeighborSearches int
	SearchesFailed   int

	// Partial is set when the context deadline expired before every
	// dispatched search completed.
	Partial bool
}

// entityPair is one unordered pair of distinct resolved entities.
type entityPair struct {
	a, b types.ResolvedEntity
}

// Searcher runs per-pair path searches and per-entity neighborhood
// expansions against the graph store. Searches are independent and run on a
// bounded worker pool; a store failure in one search is logged and skipped
// so the query still completes with results from the others.
type Searcher struct {
	store  driver.GraphStore
	cfg    config.QueryConfig
	logger *slog.Logger
}

// NewSearcher creates a searcher with the given query knobs.
func NewSearcher(store driver.GraphStore, cfg config.QueryConfig, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{store: store, cfg: cfg, logger: logger}
}

// Search explores all entity pairs and all entity neighborhoods. It is a
// pure read against the store and never returns an error: isolated store
// hiccups degrade the result set instead of failing the query.
func (s *Searcher) Search(ctx context.Context, entities []types.ResolvedEntity) *Results {
	pairs := buildPairs(entities)
	neighborLimit := s.neighborLimit(len(entities))

	pathSlots := make([][]types.PathCandidate, len(pairs))
	neighborSlots := make([][]types.NeighborCandidate, len(entities))
	var failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.cfg.SearchWorkers)

	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			paths, err := s.searchPair(ctx, pair)
			if err != nil {
				failed.Add(1)
				s.logger.Warn("path search failed, skipping pair",
					"source", pair.a.CanonicalName, "target", pair.b.CanonicalName, "error", err)
				return nil
			}
			pathSlots[i] = paths
			return nil
		})
	}

	for i, entity := range entities {
		i, entity := i, entity
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			neighbors, err := s.expandNeighborhood(ctx, entity, neighborLimit)
			if err != nil {
				failed.Add(1)
				s.logger.Warn("neighborhood search failed, skipping entity",
					"entity", entity.CanonicalName, "error", err)
				return nil
			}
			neighborSlots[i] = neighbors
			return nil
		})
	}

	// Tasks never return errors; Wait only joins them.
	_ = g.Wait()

	results := &Results{
		PathSearches:     len(pairs),
		NeighborSearches: len(entities),
		SearchesFailed:   int(failed.Load()),
		Partial:          ctx.Err() != nil,
	}
	for _, slot := range pathSlots {
		results.Paths = append(results.Paths, slot...)
	}
	for _, slot := range neighborSlots {
		results.Neighbors = append(results.Neighbors, slot...)
	}
	return results
}

// buildPairs returns every unordered pair of distinct resolved entities in
// resolution order. Two ResolvedEntity records for the same stored entity
// (e.g. via different spans) are not paired with each other.
func buildPairs(entities []types.ResolvedEntity) []entityPair {
	var pairs []entityPair
	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			if entities[i].EntityID == entities[j].EntityID {
				continue
			}
			pairs = append(pairs, entityPair{a: entities[i], b: entities[j]})
		}
	}
	return pairs
}

// neighborLimit distributes the result budget evenly across query entities.
func (s *Searcher) neighborLimit(entityCount int) int {
	if entityCount <= 1 {
		return s.cfg.ResultLimit
	}
	limit := s.cfg.ResultLimit / entityCount
	if limit < 1 {
		limit = 1
	}
	return limit
}

// searchPair enumerates simple directed paths between the pair for each hop
// count from 1 to MaxHops. Each (pair, hop) requests at most MaxPathsPerPair
// paths; the forward orientation is asked first and the reverse orientation
// only for whatever budget remains. Paths beyond the cap are never
// materialized.
func (s *Searcher) searchPair(ctx context.Context, pair entityPair) ([]types.PathCandidate, error) {
	endpointCentrality := (pair.a.Centrality + pair.b.Centrality) / 2

	var candidates []types.PathCandidate
	for hop := 1; hop <= s.cfg.MaxHops; hop++ {
		records, err := s.store.FindPaths(ctx, pair.a.EntityID, pair.b.EntityID, hop, s.cfg.MinEdgeWeight, s.cfg.MaxPathsPerPair)
		if err != nil {
			return nil, err
		}
		if remaining := s.cfg.MaxPathsPerPair - len(records); remaining > 0 {
			reversed, err := s.store.FindPaths(ctx, pair.b.EntityID, pair.a.EntityID, hop, s.cfg.MinEdgeWeight, remaining)
			if err != nil {
				return nil, err
			}
			records = append(records, reversed...)
		}

		for _, rec := range records {
			candidate, ok := buildPathCandidate(pair, rec, hop, endpointCentrality, s.cfg.MinEdgeWeight)
			if ok {
				candidates = append(candidates, candidate)
			}
		}
	}
	return candidates, nil
}

// buildPathCandidate validates a store path row and computes its weight as
// the product of edge weights. Rows with malformed shape or an edge at or
// below the cutoff are dropped; the cutoff check is repeated here so a
// lenient store cannot smuggle in near-zero edges compensated by strong ones
// elsewhere on the path.
func buildPathCandidate(pair entityPair, rec driver.PathRecord, hop int, endpointCentrality, minEdgeWeight float64) (types.PathCandidate, bool) {
	if len(rec.NodeNames) != hop+1 || len(rec.EdgeTypes) != hop || len(rec.EdgeWeights) != hop {
		return types.PathCandidate{}, false
	}

	weight := 1.0
	for _, w := range rec.EdgeWeights {
		if w <= minEdgeWeight {
			return types.PathCandidate{}, false
		}
		weight *= w
	}

	return types.PathCandidate{
		SourceID:           pair.a.EntityID,
		TargetID:           pair.b.EntityID,
		NodeSequence:       rec.NodeNames,
		EdgeTypeSequence:   rec.EdgeTypes,
		HopCount:           hop,
		PathWeight:         weight,
		EndpointCentrality: endpointCentrality,
	}, true
}

// expandNeighborhood requests the bounded-radius neighborhood of one
// resolved entity, carrying the anchor's resolution confidence onto each
// neighbor for scoring.
func (s *Searcher) expandNeighborhood(ctx context.Context, entity types.ResolvedEntity, limit int) ([]types.NeighborCandidate, error) {
	records, err := s.store.FindNeighborhood(ctx, entity.EntityID, s.cfg.MaxHops, limit)
	if err != nil {
		return nil, err
	}

	candidates := make([]types.NeighborCandidate, 0, len(records))
	for _, rec := range records {
		if rec.ConnectionCount < 1 {
			continue
		}
		candidates = append(candidates, types.NeighborCandidate{
			AnchorID:         entity.EntityID,
			AnchorName:       entity.CanonicalName,
			NeighborID:       rec.ID,
			NeighborName:     rec.Name,
			NeighborType:     rec.EntityType,
			Centrality:       rec.Centrality,
			ConnectionCount:  rec.ConnectionCount,
			AnchorConfidence: entity.BaseConfidence,
		})
	}
	return candidates, nil
}
