package connection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txn2/kusto-notebook/pkg/kusto"
)

// stubCapability satisfies Capability for registry tests.
type stubCapability struct {
	info Info
	tag  string
}

func (s *stubCapability) Info() Info { return s.info }
func (s *stubCapability) Schema(context.Context, SchemaOptions) (*kusto.ClusterSchema, error) {
	return nil, nil
}
func (s *stubCapability) Save(context.Context) error   { return nil }
func (s *stubCapability) Delete(context.Context) error { return nil }
func (s *stubCapability) Client(context.Context) (kusto.Client, error) {
	return nil, nil
}

func azAuthOnly(info Info) bool {
	_, ok := info.(AzAuth)
	return ok
}

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()
	reg.Register(KindAzAuth, func(info Info) (Capability, error) {
		return &stubCapability{info: info, tag: "first"}, nil
	}, azAuthOnly)

	capability, err := reg.Resolve(AzAuth{ConnID: "c", Cluster: "https://x"})
	require.NoError(t, err)
	assert.Equal(t, "first", capability.(*stubCapability).tag)
}

func TestRegistryResolveUnknownKind(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve(AppInsights{ConnID: "a"})
	assert.ErrorIs(t, err, ErrUnknownConnectionType)
}

func TestRegistryResolveRecognizerRejects(t *testing.T) {
	reg := NewRegistry()
	reg.Register(KindAppInsights, func(info Info) (Capability, error) {
		return &stubCapability{info: info}, nil
	}, func(Info) bool { return false })

	_, err := reg.Resolve(AppInsights{ConnID: "a"})
	assert.ErrorIs(t, err, ErrUnknownConnectionType)
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register(KindAzAuth, func(info Info) (Capability, error) {
		return &stubCapability{info: info, tag: "first"}, nil
	}, azAuthOnly)
	reg.Register(KindAzAuth, func(info Info) (Capability, error) {
		return &stubCapability{info: info, tag: "second"}, nil
	}, azAuthOnly)

	capability, err := reg.Resolve(AzAuth{ConnID: "c", Cluster: "https://x"})
	require.NoError(t, err)
	assert.Equal(t, "second", capability.(*stubCapability).tag)
}

func TestSchemaCache(t *testing.T) {
	cache := NewSchemaCache()
	token := Encode(AppInsights{ConnID: "a", Name: "n"})

	_, ok := cache.Get(token)
	assert.False(t, ok)

	schema := &kusto.ClusterSchema{Databases: map[string]kusto.DatabaseSchema{}}
	cache.Put(token, schema)
	got, ok := cache.Get(token)
	require.True(t, ok)
	assert.Same(t, schema, got)

	cache.Invalidate(token)
	_, ok = cache.Get(token)
	assert.False(t, ok)
}
