package graphquery

import (
	"context"
	"log/slog"

	"github.com/soundprediction/graphquery/pkg/config"
	"github.com/soundprediction/graphquery/pkg/driver"
	"github.com/soundprediction/graphquery/pkg/mention"
	"github.com/soundprediction/graphquery/pkg/rank"
	"github.com/soundprediction/graphquery/pkg/resolve"
	"github.com/soundprediction/graphquery/pkg/search"
	"github.com/soundprediction/graphquery/pkg/types"
)

// Engine is the main interface for querying the knowledge graph.
type Engine interface {
	// Query answers a natural-language question with a ranked, explained
	// result list. It always returns a well-formed response unless the
	// query text itself is invalid or the store is unreachable during
	// entity resolution.
	Query(ctx context.Context, question string) (*types.QueryResponse, error)

	// Close releases the underlying store connections.
	Close(ctx context.Context) error
}

// Client is the main implementation of the Engine interface. It owns no
// long-lived mutable state; every Query call builds its working set fresh
// and discards it when the response is returned.
type Client struct {
	store     driver.GraphStore
	cfg       config.QueryConfig
	logger    *slog.Logger
	extractor *mention.Extractor
	resolver  *resolve.Resolver
	searcher  *search.Searcher
	ranker    *rank.Ranker
}

// NewClient creates a query engine over the given store. The store handle is
// injected and caller-owned; the engine issues only read queries against it.
// Out-of-range knobs in cfg are clamped to their documented bounds.
func NewClient(store driver.GraphStore, cfg config.QueryConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.Clamped()

	return &Client{
		store:     store,
		cfg:       cfg,
		logger:    logger,
		extractor: mention.NewExtractor(),
		resolver:  resolve.NewResolver(store, cfg.MaxEntitiesPerSpan, logger),
		searcher:  search.NewSearcher(store, cfg, logger),
		ranker:    rank.NewRanker(cfg),
	}
}

// Close releases the store's connection pool.
func (c *Client) Close(ctx context.Context) error {
	return c.store.Close(ctx)
}

var _ Engine = (*Client)(nil)
