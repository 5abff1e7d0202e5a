// Package azauth implements the bearer-token cluster connection
// capability.
package azauth

import (
	"context"
	"fmt"

	"github.com/txn2/kusto-notebook/pkg/connection"
	"github.com/txn2/kusto-notebook/pkg/kusto"
	"github.com/txn2/kusto-notebook/pkg/store"
)

// TokenResolver yields a bearer token for one cluster, typically an
// auth.Chain.
type TokenResolver interface {
	Token(ctx context.Context) (string, error)
}

// Deps bundles the collaborators a capability instance needs. The token
// resolver is minted per cluster because the bearer token's audience is
// the cluster URL.
type Deps struct {
	Store     store.Store
	Cache     *connection.SchemaCache
	Tokens    func(cluster string) TokenResolver
	NewClient func(cfg kusto.Config) (kusto.Client, error)
}

// Capability serves one AzAuth connection.
type Capability struct {
	info connection.AzAuth
	deps Deps
}

// New constructs a capability for a recognized Info.
func New(info connection.Info, deps Deps) (*Capability, error) {
	az, ok := info.(connection.AzAuth)
	if !ok {
		return nil, fmt.Errorf("azauth: unexpected connection kind %s", info.Kind())
	}
	if deps.NewClient == nil {
		deps.NewClient = func(cfg kusto.Config) (kusto.Client, error) {
			return kusto.NewRESTClient(cfg)
		}
	}
	return &Capability{info: az, deps: deps}, nil
}

// Recognize reports whether info belongs to this capability.
func Recognize(info connection.Info) bool {
	_, ok := info.(connection.AzAuth)
	return ok
}

// Register binds this capability into the registry.
func Register(r *connection.Registry, deps Deps) {
	r.Register(connection.KindAzAuth, func(info connection.Info) (connection.Capability, error) {
		return New(info, deps)
	}, Recognize)
}

// Info implements connection.Capability.
func (c *Capability) Info() connection.Info { return c.info }

// Schema implements connection.Capability. One cache entry per
// connection identity, invalidated explicitly on Delete.
func (c *Capability) Schema(ctx context.Context, opts connection.SchemaOptions) (*kusto.ClusterSchema, error) {
	token := connection.Encode(c.info)
	if !opts.IgnoreCache {
		if schema, ok := c.deps.Cache.Get(token); ok {
			return schema, nil
		}
	}

	client, err := c.Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", connection.ErrSchemaFetch, err)
	}
	schema, err := client.Schema(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", connection.ErrSchemaFetch, err)
	}

	c.deps.Cache.Put(token, schema)
	return schema, nil
}

// Save implements connection.Capability.
func (c *Capability) Save(ctx context.Context) error {
	return c.deps.Store.Save(ctx, connection.Encode(c.info), c.info)
}

// Delete implements connection.Capability. Idempotent.
func (c *Capability) Delete(ctx context.Context) error {
	token := connection.Encode(c.info)
	c.deps.Cache.Invalidate(token)
	return c.deps.Store.Delete(ctx, token)
}

// Client implements connection.Capability. The bearer token is resolved
// through the fallback chain and attached directly; nothing is cached at
// this layer.
func (c *Capability) Client(ctx context.Context) (kusto.Client, error) {
	bearer, err := c.deps.Tokens(c.info.Cluster).Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving bearer token: %w", err)
	}
	return c.deps.NewClient(kusto.Config{
		Endpoint:    c.info.Cluster,
		BearerToken: bearer,
	})
}

// Verify interface compliance.
var _ connection.Capability = (*Capability)(nil)
