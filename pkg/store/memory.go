package store

import (
	"context"
	"sync"

	"github.com/txn2/kusto-notebook/pkg/connection"
)

// MemoryStore implements Store with in-process maps. It backs tests and
// standalone runs without a database.
type MemoryStore struct {
	mu          sync.RWMutex
	connections map[connection.Token]struct{}
	bindings    map[string]connection.Token
	lastUsed    map[string][]connection.Token
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		connections: make(map[connection.Token]struct{}),
		bindings:    make(map[string]connection.Token),
		lastUsed:    make(map[string][]connection.Token),
	}
}

// Save persists a connection.
func (s *MemoryStore) Save(_ context.Context, token connection.Token, _ connection.Info) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[token] = struct{}{}
	return nil
}

// Delete removes a connection and its dependent records. Absent tokens
// are a no-op.
func (s *MemoryStore) Delete(_ context.Context, token connection.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.connections, token)
	for doc, bound := range s.bindings {
		if bound == token {
			delete(s.bindings, doc)
		}
	}
	for docType, tokens := range s.lastUsed {
		s.lastUsed[docType] = removeToken(tokens, token)
	}
	return nil
}

// List returns all stored connections.
func (s *MemoryStore) List(_ context.Context) ([]connection.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]connection.Info, 0, len(s.connections))
	for token := range s.connections {
		info, err := connection.Decode(token)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// BindDocument records a document's bound connection.
func (s *MemoryStore) BindDocument(_ context.Context, documentID string, token connection.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[documentID] = token
	return nil
}

// SetLastUsed moves a connection to the front of the MRU record.
func (s *MemoryStore) SetLastUsed(_ context.Context, docType string, token connection.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed[docType] = append([]connection.Token{token}, removeToken(s.lastUsed[docType], token)...)
	return nil
}

// ListLastUsed returns last-used connections, most recent first.
func (s *MemoryStore) ListLastUsed(_ context.Context, docType string) ([]connection.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens := s.lastUsed[docType]
	infos := make([]connection.Info, 0, len(tokens))
	for _, token := range tokens {
		info, err := connection.Decode(token)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func removeToken(tokens []connection.Token, token connection.Token) []connection.Token {
	out := tokens[:0]
	for _, t := range tokens {
		if t != token {
			out = append(out, t)
		}
	}
	return out
}

// Verify interface compliance.
var _ Store = (*MemoryStore)(nil)
