// Package store persists the connection set, document bindings, and the
// last-used kernel records. It is the narrow persistence collaborator of
// the connection capabilities and the controller manager.
package store

import (
	"context"

	"github.com/txn2/kusto-notebook/pkg/connection"
)

// Store persists connections keyed by their encoded token.
type Store interface {
	// Save persists a connection. Saving an already-saved token replaces it.
	Save(ctx context.Context, token connection.Token, info connection.Info) error

	// Delete removes a stored connection and every record keyed by it.
	// Deleting an absent token is a no-op, not an error.
	Delete(ctx context.Context, token connection.Token) error

	// List returns all stored connections.
	List(ctx context.Context) ([]connection.Info, error)

	// BindDocument records which connection a document is bound to.
	BindDocument(ctx context.Context, documentID string, token connection.Token) error

	// SetLastUsed moves a connection to the front of the most-recently-used
	// record for a document type.
	SetLastUsed(ctx context.Context, docType string, token connection.Token) error

	// ListLastUsed returns the connections last used for a document type,
	// most recent first.
	ListLastUsed(ctx context.Context, docType string) ([]connection.Info, error)
}
