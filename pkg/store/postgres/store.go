// Package postgres provides PostgreSQL persistence for connections,
// document bindings, and kernel selection records.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/txn2/kusto-notebook/pkg/connection"
	"github.com/txn2/kusto-notebook/pkg/store"
)

// psq is the PostgreSQL statement builder with dollar placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store implements store.Store on PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a store over an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save persists a connection, replacing any prior row for the token.
func (s *Store) Save(ctx context.Context, token connection.Token, info connection.Info) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO connections (token, kind, display_name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (token) DO UPDATE SET kind = $2, display_name = $3`,
		string(token), string(info.Kind()), info.DisplayName(),
	)
	if err != nil {
		return fmt.Errorf("saving connection: %w", err)
	}
	return nil
}

// Delete removes a connection and its dependent records. Absent tokens
// are a no-op.
func (s *Store) Delete(ctx context.Context, token connection.Token) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"kernel_selections", "document_bindings", "connections"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE token = $1`, table), string(token),
		); err != nil {
			return fmt.Errorf("deleting from %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// List returns all stored connections.
func (s *Store) List(ctx context.Context) ([]connection.Info, error) {
	query, args, err := psq.Select("token").From("connections").OrderBy("created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return s.queryInfos(ctx, query, args...)
}

// BindDocument records a document's bound connection.
func (s *Store) BindDocument(ctx context.Context, documentID string, token connection.Token) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO document_bindings (document_id, token)
		 VALUES ($1, $2)
		 ON CONFLICT (document_id) DO UPDATE SET token = $2, bound_at = NOW()`,
		documentID, string(token),
	)
	if err != nil {
		return fmt.Errorf("binding document: %w", err)
	}
	return nil
}

// SetLastUsed records the selection, refreshing its recency.
func (s *Store) SetLastUsed(ctx context.Context, docType string, token connection.Token) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kernel_selections (doc_type, token)
		 VALUES ($1, $2)
		 ON CONFLICT (doc_type, token) DO UPDATE SET selected_at = NOW()`,
		docType, string(token),
	)
	if err != nil {
		return fmt.Errorf("recording kernel selection: %w", err)
	}
	return nil
}

// ListLastUsed returns last-used connections, most recent first.
func (s *Store) ListLastUsed(ctx context.Context, docType string) ([]connection.Info, error) {
	query, args, err := psq.Select("token").
		From("kernel_selections").
		Where(sq.Eq{"doc_type": docType}).
		OrderBy("selected_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return s.queryInfos(ctx, query, args...)
}

func (s *Store) queryInfos(ctx context.Context, query string, args ...any) ([]connection.Info, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying connections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var infos []connection.Info
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scanning token: %w", err)
		}
		info, err := connection.Decode(connection.Token(token))
		if err != nil {
			return nil, fmt.Errorf("decoding stored token: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating connections: %w", err)
	}
	return infos, nil
}

// Verify interface compliance.
var _ store.Store = (*Store)(nil)
