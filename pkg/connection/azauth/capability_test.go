package azauth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txn2/kusto-notebook/pkg/connection"
	"github.com/txn2/kusto-notebook/pkg/kusto"
	"github.com/txn2/kusto-notebook/pkg/store"
)

type staticResolver struct {
	token string
	err   error
	calls int
}

func (r *staticResolver) Token(context.Context) (string, error) {
	r.calls++
	return r.token, r.err
}

type countingClient struct {
	schemaCalls int
	schema      *kusto.ClusterSchema
	schemaErr   error
}

func (c *countingClient) Execute(context.Context, string, string) (*kusto.TabularResponse, error) {
	return &kusto.TabularResponse{}, nil
}

func (c *countingClient) Schema(context.Context) (*kusto.ClusterSchema, error) {
	c.schemaCalls++
	return c.schema, c.schemaErr
}

func testInfo() connection.AzAuth {
	return connection.AzAuth{
		ConnID:   "c1",
		Name:     "prod",
		Cluster:  "https://help.kusto.windows.net",
		Database: "Samples",
	}
}

func testDeps(client *countingClient, resolver *staticResolver) (Deps, *captureConfig) {
	capture := &captureConfig{}
	return Deps{
		Store:  store.NewMemoryStore(),
		Cache:  connection.NewSchemaCache(),
		Tokens: func(string) TokenResolver { return resolver },
		NewClient: func(cfg kusto.Config) (kusto.Client, error) {
			capture.cfg = cfg
			return client, nil
		},
	}, capture
}

type captureConfig struct {
	cfg kusto.Config
}

func TestNewRejectsWrongKind(t *testing.T) {
	_, err := New(connection.AppInsights{ConnID: "a"}, Deps{})
	assert.Error(t, err)
}

func TestClientAttachesResolvedBearer(t *testing.T) {
	resolver := &staticResolver{token: "bearer-123"}
	deps, capture := testDeps(&countingClient{schema: &kusto.ClusterSchema{}}, resolver)

	capability, err := New(testInfo(), deps)
	require.NoError(t, err)

	_, err = capability.Client(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://help.kusto.windows.net", capture.cfg.Endpoint)
	assert.Equal(t, "bearer-123", capture.cfg.BearerToken)
	assert.Empty(t, capture.cfg.APIKey)
}

func TestClientTokenResolutionFailure(t *testing.T) {
	resolver := &staticResolver{err: errors.New("no credential")}
	deps, _ := testDeps(&countingClient{}, resolver)

	capability, err := New(testInfo(), deps)
	require.NoError(t, err)

	_, err = capability.Client(context.Background())
	assert.Error(t, err)
}

func TestSchemaCaching(t *testing.T) {
	client := &countingClient{schema: &kusto.ClusterSchema{Databases: map[string]kusto.DatabaseSchema{}}}
	deps, _ := testDeps(client, &staticResolver{token: "t"})

	capability, err := New(testInfo(), deps)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := capability.Schema(ctx, connection.SchemaOptions{})
	require.NoError(t, err)
	second, err := capability.Schema(ctx, connection.SchemaOptions{})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, client.schemaCalls)
}

func TestSchemaIgnoreCacheRefetches(t *testing.T) {
	client := &countingClient{schema: &kusto.ClusterSchema{}}
	deps, _ := testDeps(client, &staticResolver{token: "t"})

	capability, err := New(testInfo(), deps)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = capability.Schema(ctx, connection.SchemaOptions{})
	require.NoError(t, err)
	_, err = capability.Schema(ctx, connection.SchemaOptions{IgnoreCache: true})
	require.NoError(t, err)

	assert.Equal(t, 2, client.schemaCalls)
}

func TestSchemaFetchFailureWrapped(t *testing.T) {
	client := &countingClient{schemaErr: errors.New("cluster unreachable")}
	deps, _ := testDeps(client, &staticResolver{token: "t"})

	capability, err := New(testInfo(), deps)
	require.NoError(t, err)

	_, err = capability.Schema(context.Background(), connection.SchemaOptions{})
	assert.ErrorIs(t, err, connection.ErrSchemaFetch)
}

func TestDeleteInvalidatesCacheAndStore(t *testing.T) {
	client := &countingClient{schema: &kusto.ClusterSchema{}}
	deps, _ := testDeps(client, &staticResolver{token: "t"})

	capability, err := New(testInfo(), deps)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, capability.Save(ctx))
	_, err = capability.Schema(ctx, connection.SchemaOptions{})
	require.NoError(t, err)

	require.NoError(t, capability.Delete(ctx))

	// The cache entry is gone: the next fetch goes back to the cluster.
	_, err = capability.Schema(ctx, connection.SchemaOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, client.schemaCalls)

	infos, err := deps.Store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestRegisterResolvesThroughRegistry(t *testing.T) {
	deps, _ := testDeps(&countingClient{}, &staticResolver{token: "t"})
	reg := connection.NewRegistry()
	Register(reg, deps)

	capability, err := reg.Resolve(testInfo())
	require.NoError(t, err)
	assert.Equal(t, testInfo(), capability.Info())

	_, err = reg.Resolve(connection.AppInsights{ConnID: "a"})
	assert.ErrorIs(t, err, connection.ErrUnknownConnectionType)
}
