package connection

import (
	"sync"

	"github.com/txn2/kusto-notebook/pkg/kusto"
)

// SchemaCache holds one schema per connection identity. Entries are
// replaced or invalidated whole (read/replace, no partial mutation), so
// concurrent tasks never observe a half-updated schema.
type SchemaCache struct {
	mu      sync.RWMutex
	entries map[Token]*kusto.ClusterSchema
}

// NewSchemaCache creates an empty schema cache.
func NewSchemaCache() *SchemaCache {
	return &SchemaCache{entries: make(map[Token]*kusto.ClusterSchema)}
}

// Get returns the cached schema for a connection, if any.
func (c *SchemaCache) Get(token Token) (*kusto.ClusterSchema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	schema, ok := c.entries[token]
	return schema, ok
}

// Put stores a schema for a connection, replacing any prior entry.
func (c *SchemaCache) Put(token Token, schema *kusto.ClusterSchema) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = schema
}

// Invalidate drops the cached schema for a connection.
func (c *SchemaCache) Invalidate(token Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
}
