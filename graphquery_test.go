package graphquery

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphquery/pkg/config"
	"github.com/soundprediction/graphquery/pkg/driver"
	"github.com/soundprediction/graphquery/pkg/types"
)

// mockStore implements driver.GraphStore over fixture data.
type mockStore struct {
	entities  map[string][]driver.EntityRecord
	paths     map[string][]driver.PathRecord
	neighbors map[string][]driver.NeighborRecord

	entityErr error
	pathErr   error
}

func pathKey(sourceID, targetID string, hopCount int) string {
	return fmt.Sprintf("%s->%s@%d", sourceID, targetID, hopCount)
}

func (m *mockStore) FindEntitiesByName(ctx context.Context, name string, limit int) ([]driver.EntityRecord, error) {
	if m.entityErr != nil {
		return nil, m.entityErr
	}
	return m.entities[strings.ToLower(name)], nil
}

func (m *mockStore) FindPaths(ctx context.Context, sourceID, targetID string, hopCount int, minEdgeWeight float64, limit int) ([]driver.PathRecord, error) {
	if m.pathErr != nil {
		return nil, m.pathErr
	}
	return m.paths[pathKey(sourceID, targetID, hopCount)], nil
}

func (m *mockStore) FindNeighborhood(ctx context.Context, anchorID string, maxHops, limit int) ([]driver.NeighborRecord, error) {
	return m.neighbors[anchorID], nil
}

func (m *mockStore) Close(ctx context.Context) error { return nil }

// partnershipFixture wires the two-company scenario: Acme Corp and Globex
// Inc joined through a shared joint venture.
func partnershipFixture() *mockStore {
	return &mockStore{
		entities: map[string][]driver.EntityRecord{
			"acme corp": {
				{ID: "e1", Name: "Acme Corp", EntityType: "Organization", Centrality: 0.001, BaseConfidence: 0.95},
			},
			"globex inc": {
				{ID: "e2", Name: "Globex Inc", EntityType: "Organization", Centrality: 0.0008, BaseConfidence: 0.9},
			},
		},
		paths: map[string][]driver.PathRecord{
			pathKey("e1", "e2", 2): {{
				NodeNames:   []string{"Acme Corp", "JointVenture", "Globex Inc"},
				EdgeTypes:   []string{"PARTNERS_WITH", "PARTNERS_WITH"},
				EdgeWeights: []float64{0.8, 0.6},
			}},
		},
	}
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultQueryConfig()

	t.Run("answers a two-entity question with a connecting path", func(t *testing.T) {
		client := NewClient(partnershipFixture(), cfg, nil)

		response, err := client.Query(ctx, "How is Acme Corp related to Globex Inc?")
		require.NoError(t, err)
		require.NotNil(t, response)
		assert.NotEmpty(t, response.QueryID)
		assert.False(t, response.Partial)
		assert.Empty(t, response.Reason)

		require.Equal(t, 1, response.ResultCount)
		res := response.Results[0]
		assert.Equal(t, types.PathResult, res.Kind)
		assert.Equal(t, 1, res.Rank)
		assert.InDelta(t, 0.8333, res.Confidence, 1e-4)
		assert.InDelta(t, 0.48, res.Path.PathWeight, 1e-9)
		assert.Equal(t, "Acme Corp partners with JointVenture; JointVenture partners with Globex Inc", res.Explanation)

		// A single result's aggregate confidence is its own confidence.
		assert.InDelta(t, res.Confidence, response.Confidence, 1e-9)

		assert.Equal(t, 2, response.Stats.SpansDetected)
		assert.Equal(t, 2, response.Stats.EntitiesResolved)
		assert.Equal(t, 1, response.Stats.PathSearches)
		assert.Equal(t, 2, response.Stats.NeighborSearches)
		assert.Zero(t, response.Stats.SearchesFailed)
	})

	t.Run("query without recognizable mentions succeeds with a reason", func(t *testing.T) {
		client := NewClient(partnershipFixture(), cfg, nil)

		response, err := client.Query(ctx, "hello there")
		require.NoError(t, err)
		assert.Equal(t, types.ReasonNoEntities, response.Reason)
		assert.Empty(t, response.Results)
		assert.Zero(t, response.ResultCount)
		assert.Zero(t, response.Confidence)
	})

	t.Run("mentions that match nothing stored succeed with a reason", func(t *testing.T) {
		store := partnershipFixture()
		store.entities = map[string][]driver.EntityRecord{}
		client := NewClient(store, cfg, nil)

		response, err := client.Query(ctx, "Tell me about Vandelay Industries")
		require.NoError(t, err)
		assert.Equal(t, ReasonNoGraphMatches, response.Reason)
		assert.Empty(t, response.Results)
		assert.Equal(t, 1, response.Stats.SpansDetected)
		assert.Zero(t, response.Stats.EntitiesResolved)
	})

	t.Run("too-short query is rejected", func(t *testing.T) {
		client := NewClient(partnershipFixture(), cfg, nil)

		_, err := client.Query(ctx, "hi")
		require.ErrorIs(t, err, types.ErrInvalidQuery)
	})

	t.Run("store failure during resolution aborts the query", func(t *testing.T) {
		store := partnershipFixture()
		store.entityErr = fmt.Errorf("connection refused: %w", types.ErrStoreUnavailable)
		client := NewClient(store, cfg, nil)

		_, err := client.Query(ctx, "How is Acme Corp related to Globex Inc?")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrStoreUnavailable)
	})

	t.Run("store failure during search degrades instead of failing", func(t *testing.T) {
		store := partnershipFixture()
		store.pathErr = fmt.Errorf("socket reset: %w", types.ErrStoreUnavailable)
		store.neighbors = map[string][]driver.NeighborRecord{
			"e1": {{ID: "n1", Name: "Initech", EntityType: "Organization", Centrality: 0.0005, ConnectionCount: 4}},
		}
		client := NewClient(store, cfg, nil)

		response, err := client.Query(ctx, "How is Acme Corp related to Globex Inc?")
		require.NoError(t, err)
		assert.Equal(t, 1, response.Stats.SearchesFailed)
		require.Equal(t, 1, response.ResultCount)
		assert.Equal(t, types.NeighborResult, response.Results[0].Kind)
		assert.Equal(t, "Acme Corp is connected to Initech through 4 connection(s)", response.Results[0].Explanation)
	})

	t.Run("repeated runs produce identical results", func(t *testing.T) {
		client := NewClient(partnershipFixture(), cfg, nil)

		first, err := client.Query(ctx, "How is Acme Corp related to Globex Inc?")
		require.NoError(t, err)
		second, err := client.Query(ctx, "How is Acme Corp related to Globex Inc?")
		require.NoError(t, err)

		assert.NotEqual(t, first.QueryID, second.QueryID)
		assert.Equal(t, first.Results, second.Results)
		assert.Equal(t, first.Confidence, second.Confidence)
		assert.Equal(t, first.Stats, second.Stats)
	})

	t.Run("out-of-range knobs are clamped at construction", func(t *testing.T) {
		wild := cfg
		wild.MaxHops = 99
		wild.ResultLimit = -5
		client := NewClient(partnershipFixture(), wild, nil)

		assert.Equal(t, 5, client.cfg.MaxHops)
		assert.Equal(t, 1, client.cfg.ResultLimit)
	})
}
