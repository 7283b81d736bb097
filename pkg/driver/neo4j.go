package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/soundprediction/graphquery/pkg/types"
)

// Neo4jStore implements GraphStore against a Neo4j database. Each call opens
// a session from the driver's pool and closes it before returning, so one
// pooled connection is held per in-flight search and released on every exit
// path.
type Neo4jStore struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore connects to a Neo4j instance. database defaults to "neo4j".
func NewNeo4jStore(uri, username, password, database string) (*Neo4jStore, error) {
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Neo4jStore{client: client, database: database}, nil
}

// Close releases the driver's connection pool.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func (s *Neo4jStore) read(ctx context.Context, query string, params map[string]any) ([]*db.Record, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrStoreUnavailable, err)
	}

	records, err := MustRecordSlice(result, "read")
	if err != nil {
		return nil, err
	}
	return records, nil
}

const findEntitiesQuery = `
	MATCH (e:Entity)
	WHERE toLower(e.name) CONTAINS toLower($name)
	RETURN e.id AS entity_id,
	       e.name AS canonical_name,
	       e.entity_type AS entity_type,
	       e.confidence AS base_confidence,
	       e.centrality AS centrality
	ORDER BY e.centrality DESC
	LIMIT $limit
`

// FindEntitiesByName looks up entities by exact or substring name match,
// highest centrality first.
func (s *Neo4jStore) FindEntitiesByName(ctx context.Context, name string, limit int) ([]EntityRecord, error) {
	records, err := s.read(ctx, findEntitiesQuery, map[string]any{
		"name":  name,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	entities := make([]EntityRecord, 0, len(records))
	for _, record := range records {
		e := EntityRecord{}
		if v, ok := record.Get("entity_id"); ok {
			e.ID, _ = AsString(v)
		}
		if v, ok := record.Get("canonical_name"); ok {
			e.Name, _ = AsString(v)
		}
		if v, ok := record.Get("entity_type"); ok {
			e.EntityType, _ = AsString(v)
		}
		if v, ok := record.Get("base_confidence"); ok {
			e.BaseConfidence = AsNumber(v)
		}
		if v, ok := record.Get("centrality"); ok {
			e.Centrality = AsNumber(v)
		}
		if e.ID == "" {
			continue
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// findPathsQuery builds the fixed-length path query. Cypher cannot
// parameterize variable-length bounds, so the hop count is formatted into
// the pattern; all other values stay parameterized.
func findPathsQuery(hopCount int) string {
	return fmt.Sprintf(`
	MATCH p = (a:Entity {id: $source_id})-[*%d..%d]->(b:Entity {id: $target_id})
	WHERE ALL(r IN relationships(p) WHERE r.weight > $min_edge_weight)
	  AND ALL(n IN nodes(p) WHERE single(m IN nodes(p) WHERE m = n))
	RETURN [n IN nodes(p) | n.name] AS node_names,
	       [r IN relationships(p) | type(r)] AS edge_types,
	       [r IN relationships(p) | r.weight] AS edge_weights
	LIMIT $limit
`, hopCount, hopCount)
}

// FindPaths enumerates simple directed paths of exactly hopCount edges whose
// every edge weight exceeds minEdgeWeight.
func (s *Neo4jStore) FindPaths(ctx context.Context, sourceID, targetID string, hopCount int, minEdgeWeight float64, limit int) ([]PathRecord, error) {
	records, err := s.read(ctx, findPathsQuery(hopCount), map[string]any{
		"source_id":       sourceID,
		"target_id":       targetID,
		"min_edge_weight": minEdgeWeight,
		"limit":           limit,
	})
	if err != nil {
		return nil, err
	}

	paths := make([]PathRecord, 0, len(records))
	for _, record := range records {
		p := PathRecord{}
		if v, ok := record.Get("node_names"); ok {
			p.NodeNames = AsStringValues(v)
		}
		if v, ok := record.Get("edge_types"); ok {
			p.EdgeTypes = AsStringValues(v)
		}
		if v, ok := record.Get("edge_weights"); ok {
			p.EdgeWeights = AsNumberValues(v)
		}
		if len(p.NodeNames) != hopCount+1 || len(p.EdgeWeights) != hopCount {
			continue
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// findNeighborhoodQuery groups bounded-length paths by reached neighbor so
// the path count doubles as the connection-density signal.
func findNeighborhoodQuery(maxHops int) string {
	return fmt.Sprintf(`
	MATCH p = (a:Entity {id: $anchor_id})-[*1..%d]-(n:Entity)
	WHERE n.id <> $anchor_id
	RETURN n.id AS neighbor_id,
	       n.name AS neighbor_name,
	       n.entity_type AS neighbor_type,
	       n.centrality AS centrality,
	       count(p) AS connection_count
	ORDER BY connection_count DESC, centrality DESC
	LIMIT $limit
`, maxHops)
}

// FindNeighborhood enumerates entities within maxHops of the anchor, densest
// first.
func (s *Neo4jStore) FindNeighborhood(ctx context.Context, anchorID string, maxHops, limit int) ([]NeighborRecord, error) {
	records, err := s.read(ctx, findNeighborhoodQuery(maxHops), map[string]any{
		"anchor_id": anchorID,
		"limit":     limit,
	})
	if err != nil {
		return nil, err
	}

	neighbors := make([]NeighborRecord, 0, len(records))
	for _, record := range records {
		n := NeighborRecord{}
		if v, ok := record.Get("neighbor_id"); ok {
			n.ID, _ = AsString(v)
		}
		if v, ok := record.Get("neighbor_name"); ok {
			n.Name, _ = AsString(v)
		}
		if v, ok := record.Get("neighbor_type"); ok {
			n.EntityType, _ = AsString(v)
		}
		if v, ok := record.Get("centrality"); ok {
			n.Centrality = AsNumber(v)
		}
		if v, ok := record.Get("connection_count"); ok {
			if c, ok := AsInt64(v); ok {
				n.ConnectionCount = int(c)
			}
		}
		if n.ID == "" || n.ConnectionCount < 1 {
			continue
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, nil
}
