package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 20, cfg.Render.ColumnWidth)
	assert.Equal(t, 2, cfg.Render.RowSpacing)
	assert.False(t, cfg.Persist.DurableWrites)
	assert.Equal(t, 7777, cfg.MCP.DefaultHTTPPort)
}

func TestLoadFromFile(t *testing.T) {
	tomlContent := `
[render]
column_width = 24
show_notes = true

[persist]
durable_writes = true
catalog_path = "/tmp/nereid/catalog.db"

[mcp]
default_http_port = 9001
`
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(tomlContent), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Render.ColumnWidth)
	assert.True(t, cfg.Render.ShowNotes)
	// row_spacing was not in the file, so the default survives the decode.
	assert.Equal(t, 2, cfg.Render.RowSpacing)
	assert.True(t, cfg.Persist.DurableWrites)
	assert.Equal(t, "/tmp/nereid/catalog.db", cfg.Persist.CatalogPath)
	assert.Equal(t, 9001, cfg.MCP.DefaultHTTPPort)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
}
