package graphquery

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/soundprediction/graphquery/pkg/rank"
	"github.com/soundprediction/graphquery/pkg/telemetry"
	"github.com/soundprediction/graphquery/pkg/types"
)

// ReasonNoGraphMatches is reported on a successful empty response when the
// query contained recognizable mentions but none matched a stored entity.
const ReasonNoGraphMatches = "No matching entities found in knowledge graph"

// Query runs the full pipeline: mention extraction, entity resolution, path
// and neighborhood search, ranking, and evidence composition.
//
// Failure policy is two-tier. Resolution either completes or aborts the
// query (types.ErrStoreUnavailable): a partially resolved entity set would
// make the ranking meaningless. Search failures are recoverable; the query
// completes with whatever the other searches found. If the configured
// timeout expires mid-search, the completed searches are ranked and the
// response is flagged partial rather than failing.
func (c *Client) Query(ctx context.Context, question string) (*types.QueryResponse, error) {
	queryID := uuid.New().String()
	ctx = telemetry.WithQueryID(ctx, queryID)
	logger := c.logger.With("query_id", queryID)

	spans, err := c.extractor.Extract(question)
	if err != nil {
		return nil, err
	}

	response := &types.QueryResponse{
		QueryID: queryID,
		Results: []types.RankedResult{},
		Stats:   types.ExecutionStats{SpansDetected: len(spans)},
	}

	if len(spans) == 0 {
		response.Reason = types.ReasonNoEntities
		logger.Info("no entity mentions detected", "question", question)
		return response, nil
	}

	// Resolution is deliberately shielded from the query deadline: it is
	// either complete or the query aborts, never partial.
	resolved, err := c.resolver.Resolve(context.WithoutCancel(ctx), spans)
	if err != nil {
		return nil, fmt.Errorf("entity resolution aborted: %w", err)
	}
	response.Stats.EntitiesResolved = len(resolved)

	if len(resolved) == 0 {
		response.Reason = ReasonNoGraphMatches
		logger.Info("no spans matched stored entities", "spans", spans)
		return response, nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	found := c.searcher.Search(searchCtx, resolved)
	response.Stats.PathSearches = found.PathSearches
	response.Stats.NeighborSearches = found.NeighborSearches
	response.Stats.SearchesFailed = found.SearchesFailed
	response.Stats.CandidatesScored = len(found.Paths) + len(found.Neighbors)
	response.Partial = found.Partial

	response.Results = c.ranker.Rank(found.Paths, found.Neighbors)
	response.ResultCount = len(response.Results)
	response.Confidence = rank.AggregateConfidence(response.Results)

	logger.Info("query complete",
		"results", response.ResultCount,
		"confidence", response.Confidence,
		"partial", response.Partial,
		"failed_searches", response.Stats.SearchesFailed)
	return response, nil
}
