package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txn2/kusto-notebook/pkg/connection"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  name: test-server
  version: 1.2.3
database:
  enabled: true
  dsn: postgres://localhost/kusto?sslmode=disable
connections:
  - kind: azauth
    id: c1
    name: prod
    cluster: https://help.kusto.windows.net
    database: Samples
  - kind: appinsights
    id: app-1
    name: web
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "test-server", cfg.Server.Name)
	assert.Equal(t, "1.2.3", cfg.Server.Version)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, []string{DocTypeNotebook, DocTypeInteractive}, cfg.DocumentTypes)
	require.Len(t, cfg.Connections, 2)

	info, err := cfg.Connections[0].Info()
	require.NoError(t, err)
	assert.Equal(t, connection.AzAuth{
		ConnID:   "c1",
		Name:     "prod",
		Cluster:  "https://help.kusto.windows.net",
		Database: "Samples",
	}, info)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidateDatabaseRequiresDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Enabled = true
	assert.Error(t, cfg.Validate())

	cfg.Database.DSN = "postgres://localhost/x"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadConnection(t *testing.T) {
	path := writeConfig(t, `
connections:
  - kind: azauth
    id: c1
    name: missing-cluster
`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "kusto-notebook", cfg.Server.Name)
	assert.Equal(t, "dev", cfg.Server.Version)
	assert.False(t, cfg.Database.Enabled)
	assert.NotEmpty(t, cfg.DocumentTypes)
}

func TestConnectionConfigInfo(t *testing.T) {
	_, err := ConnectionConfig{Kind: "azauth", Cluster: "https://x"}.Info()
	assert.Error(t, err, "missing id")

	_, err = ConnectionConfig{Kind: "mystery", ID: "x"}.Info()
	assert.Error(t, err, "unknown kind")

	info, err := ConnectionConfig{Kind: "appinsights", ID: "a", Name: "n"}.Info()
	require.NoError(t, err)
	assert.Equal(t, connection.AppInsights{ConnID: "a", Name: "n"}, info)
}
