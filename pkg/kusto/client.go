package kusto

import "context"

// Client executes queries against one engine endpoint.
//
// Execute must honor ctx cancellation: a cancelled context aborts the
// in-flight request and returns ctx.Err.
type Client interface {
	// Execute runs a query against a database and returns the raw tabular
	// response, already normalized.
	Execute(ctx context.Context, database, query string) (*TabularResponse, error)

	// Schema fetches the cluster schema (databases, tables, columns).
	Schema(ctx context.Context) (*ClusterSchema, error)
}
