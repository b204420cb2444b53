package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dd0wney/cluso-attackmap/pkg/visualization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 800.0, cfg.Layout.Width)
	assert.Equal(t, 600.0, cfg.Layout.Height)
	assert.Equal(t, 150.0, cfg.Layout.Padding)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, ":8080", cfg.Server.Addr())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "attackmap.yaml")
	content := `
log:
  level: DEBUG
  format: console
layout:
  width: 1000
server:
  port: 9090
  read_timeout: 5s
  cors_origins:
    - https://soc.example.com
data:
  graph_file: graph.json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 1000.0, cfg.Layout.Width)
	assert.Equal(t, 600.0, cfg.Layout.Height, "unset keys keep defaults")
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://soc.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 6, cfg.Server.GraphQLMaxDepth)
	assert.Equal(t, "graph.json", cfg.Data.GraphFile)
}

func TestLoadZeroPadding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attackmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layout:\n  padding: 0\n"), 0o600))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.Layout.Padding)
	assert.Equal(t, 300.0, visualization.NewCircularLayout(cfg.Layout).Radius())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("ATTACKMAP_SERVER_PORT", "7070")
	t.Setenv("ATTACKMAP_LOG_LEVEL", "warn")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	cfg.Log.Format = "xml"
	cfg.Layout.Padding = 300

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "log.format")
	assert.Contains(t, err.Error(), "non-positive radius")
}
