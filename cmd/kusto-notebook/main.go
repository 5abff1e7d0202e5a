// Package main provides the entry point for the kusto-notebook kernel
// server.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/txn2/kusto-notebook/pkg/platform"
	storepg "github.com/txn2/kusto-notebook/pkg/store/postgres"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serverOptions struct {
	configPath  string
	showVersion bool
}

func parseFlags() serverOptions {
	opts := serverOptions{}
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	flag.Parse()
	return opts
}

func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx
}

func run() error {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("kusto-notebook version %s\n", Version)
		return nil
	}

	cfg := platform.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := platform.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Server.Version = Version

	ctx := setupSignalHandler()

	platformOpts := []platform.Option{platform.WithConfig(cfg)}
	var db *sql.DB
	if cfg.Database.Enabled {
		opened, err := openDatabase(cfg.Database.DSN)
		if err != nil {
			return err
		}
		db = opened
		platformOpts = append(platformOpts, platform.WithDB(db))
	}

	p, err := platform.New(platformOpts...)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return fmt.Errorf("creating platform: %w", err)
	}
	if db != nil {
		// The database outlives every component that uses it, so it
		// closes last, on lifecycle shutdown.
		p.Lifecycle().RegisterCloser(db)
	}

	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("starting platform: %w", err)
	}
	defer func() { _ = p.Close(context.Background()) }()

	return p.Run(ctx)
}

func openDatabase(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if err := storepg.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating store: %w", err)
	}
	return db, nil
}
