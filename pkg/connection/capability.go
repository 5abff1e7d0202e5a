package connection

import (
	"context"

	"github.com/txn2/kusto-notebook/pkg/kusto"
)

// SchemaOptions controls schema fetch behavior.
type SchemaOptions struct {
	// IgnoreCache forces a fetch even when a cached schema exists.
	IgnoreCache bool
	// HideProgress suppresses host progress reporting during the fetch.
	HideProgress bool
}

// Capability provides the per-connection operations every variant must
// satisfy.
type Capability interface {
	// Info returns the connection identity this capability serves.
	Info() Info

	// Schema returns the connection's schema, cached per connection
	// identity unless opts.IgnoreCache. Fetch failures wrap
	// ErrSchemaFetch. Cache entries are invalidated explicitly, never
	// by age.
	Schema(ctx context.Context, opts SchemaOptions) (*kusto.ClusterSchema, error)

	// Save persists the connection, keyed by its encoded token.
	Save(ctx context.Context) error

	// Delete removes the persisted connection. Deleting a connection
	// that was never saved is a no-op, not an error.
	Delete(ctx context.Context) error

	// Client obtains or mints an authenticated client handle.
	Client(ctx context.Context) (kusto.Client, error)
}
