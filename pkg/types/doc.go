// Package types defines the data model shared across the query engine:
// resolved entities, path and neighbor candidates, ranked results, the
// response envelope, and the error taxonomy.
//
// All values are created fresh for one query execution and discarded once
// the ranked list is returned; nothing in this package is persisted.
package types
