// Package graphquery answers natural-language research questions by
// traversing a previously constructed knowledge graph and returning ranked,
// explainable answers.
//
// The engine is read-only and stateless between invocations: it resolves
// free-text mentions to graph entities, searches bounded-depth paths and
// neighborhoods, scores candidates under uncertainty, and composes
// human-readable evidence for each ranked result. Populating the graph
// (extraction, centrality computation, storage) is the job of upstream
// systems; this package only consumes the store through the
// pkg/driver.GraphStore interface.
//
// # Usage
//
//	store, err := driver.NewNeo4jStore(uri, username, password, database)
//	if err != nil { ... }
//	engine := graphquery.NewClient(store, config.DefaultQueryConfig(), logger)
//	response, err := engine.Query(ctx, "What partnerships exist between Acme Corp and Globex Inc?")
package graphquery
