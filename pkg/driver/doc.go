// Package driver defines the GraphStore interface the query engine consumes
// and provides the Neo4j implementation.
//
// The engine issues three declarative traversal queries: entity lookup by
// name, bounded-length path enumeration between two entities, and
// bounded-radius neighborhood expansion. All operations are read-only; the
// engine never mutates the graph.
//
// # Usage
//
//	store, err := driver.NewNeo4jStore(uri, username, password, database)
//
// Wrap the store with NewBreakerStore to fail fast when the database is
// flapping.
//
// # Thread safety
//
// Neo4jStore is safe for concurrent use; each call checks a session out of
// the underlying driver's pool and returns it before the call completes.
package driver
