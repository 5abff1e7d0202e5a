// Package appinsights implements the Application Insights connection
// capability.
package appinsights

import (
	"context"
	"fmt"

	"github.com/txn2/kusto-notebook/pkg/auth"
	"github.com/txn2/kusto-notebook/pkg/connection"
	"github.com/txn2/kusto-notebook/pkg/kusto"
	"github.com/txn2/kusto-notebook/pkg/store"
)

const endpointFormat = "https://api.applicationinsights.io/v1/apps/%s"

// Deps bundles the collaborators a capability instance needs. The
// prompter supplies the app's API key; app-insights clients authenticate
// with a key, not a bearer token.
type Deps struct {
	Store     store.Store
	Cache     *connection.SchemaCache
	Prompter  auth.Prompter
	NewClient func(cfg kusto.Config) (kusto.Client, error)
}

// Capability serves one AppInsights connection.
type Capability struct {
	info connection.AppInsights
	deps Deps
}

// New constructs a capability for a recognized Info.
func New(info connection.Info, deps Deps) (*Capability, error) {
	ai, ok := info.(connection.AppInsights)
	if !ok {
		return nil, fmt.Errorf("appinsights: unexpected connection kind %s", info.Kind())
	}
	if deps.NewClient == nil {
		deps.NewClient = func(cfg kusto.Config) (kusto.Client, error) {
			return kusto.NewRESTClient(cfg)
		}
	}
	return &Capability{info: ai, deps: deps}, nil
}

// Recognize reports whether info belongs to this capability.
func Recognize(info connection.Info) bool {
	_, ok := info.(connection.AppInsights)
	return ok
}

// Register binds this capability into the registry.
func Register(r *connection.Registry, deps Deps) {
	r.Register(connection.KindAppInsights, func(info connection.Info) (connection.Capability, error) {
		return New(info, deps)
	}, Recognize)
}

// Info implements connection.Capability.
func (c *Capability) Info() connection.Info { return c.info }

// Schema implements connection.Capability.
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

// Client implements connection.Capability.
func (c *Capability) Client(ctx context.Context) (kusto.Client, error) {
	key, err := c.deps.Prompter.Prompt(ctx, fmt.Sprintf("API key for app %s", c.info.DisplayName()))
	if err != nil {
		return nil, fmt.Errorf("resolving api key: %w", err)
	}
	return c.deps.NewClient(kusto.Config{
		Endpoint: fmt.Sprintf(endpointFormat, c.info.ID()),
		APIKey:   key,
	})
}

// Verify interface compliance.
var _ connection.Capability = (*Capability)(nil)
