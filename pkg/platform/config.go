// Package platform wires the process-scoped components: configuration,
// store, capability registry, controller manager, and the MCP tool
// surface the host layer drives.
package platform

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/txn2/kusto-notebook/pkg/connection"
)

// Default supported document type tags.
const (
	DocTypeNotebook    = "kusto-notebook"
	DocTypeInteractive = "kusto-interactive"
)

// Config holds the complete platform configuration.
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Database      DatabaseConfig     `yaml:"database"`
	DocumentTypes []string           `yaml:"document_types"`
	Connections   []ConnectionConfig `yaml:"connections"`
}

// ServerConfig configures the MCP server surface.
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// DatabaseConfig configures the optional PostgreSQL store. When disabled
// the platform runs on the in-memory store.
type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// ConnectionConfig declares a pre-provisioned connection.
type ConnectionConfig struct {
	Kind     string `yaml:"kind"`
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Cluster  string `yaml:"cluster"`
	Database string `yaml:"database"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig returns a runnable configuration with no connections.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Name == "" {
		c.Server.Name = "kusto-notebook"
	}
	if c.Server.Version == "" {
		c.Server.Version = "dev"
	}
	if len(c.DocumentTypes) == 0 {
		c.DocumentTypes = []string{DocTypeNotebook, DocTypeInteractive}
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Database.Enabled && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required when database.enabled")
	}
	for i, cc := range c.Connections {
		if _, err := cc.Info(); err != nil {
			return fmt.Errorf("connections[%d]: %w", i, err)
		}
	}
	return nil
}

// Info converts a declared connection into its identity value.
func (c ConnectionConfig) Info() (connection.Info, error) {
	if c.ID == "" {
		return nil, fmt.Errorf("connection id is required")
	}
	switch connection.Kind(c.Kind) {
	case connection.KindAzAuth:
		if c.Cluster == "" {
			return nil, fmt.Errorf("cluster is required for %s connections", c.Kind)
		}
		return connection.AzAuth{
			ConnID:   c.ID,
			Name:     c.Name,
			Cluster:  c.Cluster,
			Database: c.Database,
		}, nil
	case connection.KindAppInsights:
		return connection.AppInsights{ConnID: c.ID, Name: c.Name}, nil
	default:
		return nil, fmt.Errorf("unknown connection kind %q", c.Kind)
	}
}
