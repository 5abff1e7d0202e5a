package platform

import (
	"database/sql"

	"github.com/txn2/kusto-notebook/pkg/auth"
	"github.com/txn2/kusto-notebook/pkg/controller"
	"github.com/txn2/kusto-notebook/pkg/kusto"
	"github.com/txn2/kusto-notebook/pkg/store"
)

// Options configures the platform.
type Options struct {
	// Config is the platform configuration.
	Config *Config

	// DB is the database handle backing the PostgreSQL store. Required
	// when the config enables the database.
	DB *sql.DB

	// Store overrides the persistence backend entirely.
	Store store.Store

	// Host is the kernel host integration (optional; defaults to a
	// log-only host for standalone runs).
	Host controller.KernelHost

	// Prompter handles manual token/key entry (optional).
	Prompter auth.Prompter

	// Sessions is the host-integrated interactive auth session
	// (optional; the auth chain skips this step when absent).
	Sessions auth.SessionProvider

	// NewClient overrides engine client construction, for tests.
	NewClient func(cfg kusto.Config) (kusto.Client, error)
}

// Option is a functional option for configuring the platform.
type Option func(*Options)

// WithConfig sets the configuration.
func WithConfig(cfg *Config) Option {
	return func(o *Options) { o.Config = cfg }
}

// WithDB sets the database handle.
func WithDB(db *sql.DB) Option {
	return func(o *Options) { o.DB = db }
}

// WithStore sets the persistence backend.
func WithStore(s store.Store) Option {
	return func(o *Options) { o.Store = s }
}

// WithHost sets the kernel host integration.
func WithHost(h controller.KernelHost) Option {
	return func(o *Options) { o.Host = h }
}

// WithPrompter sets the interactive prompter.
func WithPrompter(p auth.Prompter) Option {
	return func(o *Options) { o.Prompter = p }
}

// WithSessions sets the host auth session provider.
func WithSessions(s auth.SessionProvider) Option {
	return func(o *Options) { o.Sessions = s }
}

// WithNewClient overrides engine client construction.
func WithNewClient(fn func(cfg kusto.Config) (kusto.Client, error)) Option {
	return func(o *Options) { o.NewClient = fn }
}
