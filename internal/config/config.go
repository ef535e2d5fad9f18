// Package config loads workspace-wide defaults for nereidcore: render and
// layout tunables, persistence mode, and the session catalog path.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the top-level workspace configuration.
type Config struct {
	Render  RenderConfig  `toml:"render"`
	Persist PersistConfig `toml:"persist"`
	MCP     MCPConfig     `toml:"mcp"`
}

// RenderConfig holds layout/render geometry tunables.
type RenderConfig struct {
	ColumnWidth int  `toml:"column_width"`
	RowSpacing  int  `toml:"row_spacing"`
	ShowNotes   bool `toml:"show_notes"`
}

// PersistConfig controls how a session is written to disk.
type PersistConfig struct {
	DurableWrites bool   `toml:"durable_writes"`
	CatalogPath   string `toml:"catalog_path"`
}

// MCPConfig holds the default port an external MCP transport should bind,
// if the caller chooses to run one; nereid-core itself never listens.
type MCPConfig struct {
	DefaultHTTPPort int `toml:"default_http_port"`
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			ColumnWidth: 20,
			RowSpacing:  2,
		},
		Persist: PersistConfig{
			DurableWrites: false,
			CatalogPath:   "~/.config/nereid/catalog.db",
		},
		MCP: MCPConfig{
			DefaultHTTPPort: 7777,
		},
	}
}

// Load reads and decodes a TOML config file at path, starting from
// DefaultConfig so any field the file omits keeps its default value.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}
