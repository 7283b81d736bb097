// Package resolve maps candidate query spans to graph entities.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/soundprediction/graphquery/pkg/driver"
	"github.com/soundprediction/graphquery/pkg/types"
)

// Resolver turns candidate spans into ResolvedEntity records via the graph
// store. Resolution must be complete or not at all: any store failure aborts
// the whole query, since downstream ranking assumes a complete resolved set.
type Resolver struct {
	store  driver.GraphStore
	logger *slog.Logger

	// limit caps entities returned per span, bounding the pairwise search
	// fan-out downstream.
	limit int
}

// NewResolver creates a resolver. limitPerSpan caps matches per span.
func NewResolver(store driver.GraphStore, limitPerSpan int, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, logger: logger, limit: limitPerSpan}
}

// Resolve looks up every span and returns all matches in span order. A span
// matching several stored entities yields one ResolvedEntity per match;
// ambiguity is preserved, not collapsed. The returned count is the number of
// entities resolved, reported on the query's execution stats.
func (r *Resolver) Resolve(ctx context.Context, spans []string) ([]types.ResolvedEntity, error) {
	var resolved []types.ResolvedEntity

	for _, span := range spans {
		records, err := r.store.FindEntitiesByName(ctx, span, r.limit)
		if err != nil {
			return nil, fmt.Errorf("resolving span %q: %w", span, err)
		}

		for _, rec := range records {
			kind := types.MatchPartial
			if strings.EqualFold(rec.Name, span) {
				kind = types.MatchExact
			}
			resolved = append(resolved, types.ResolvedEntity{
				QuerySpan:      span,
				EntityID:       rec.ID,
				CanonicalName:  rec.Name,
				EntityType:     rec.EntityType,
				Centrality:     rec.Centrality,
				BaseConfidence: rec.BaseConfidence,
				MatchKind:      kind,
			})
		}

		r.logger.Debug("resolved span", "span", span, "matches", len(records))
	}

	return resolved, nil
}
