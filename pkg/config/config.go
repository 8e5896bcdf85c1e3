// Package config handles loading and saving gv configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/gv/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DatasetConfig sizes the dataset and its loading cadence.
type DatasetConfig struct {
	// TotalRows is the generated dataset size when no data file is used.
	TotalRows int `yaml:"total_rows,omitempty"`
	// InitialLoad is how many records load before the first paint.
	InitialLoad int `yaml:"initial_load,omitempty"`
	// ChunkSize is how many records each infinite-scroll load appends.
	ChunkSize int `yaml:"chunk_size,omitempty"`
	// LoadDelayMS simulates fetch latency, in milliseconds.
	LoadDelayMS int `yaml:"load_delay_ms,omitempty"`
	// Path points at a records file (.db or .jsonl). Empty uses the
	// generated dataset.
	Path string `yaml:"path,omitempty"`
}

// GridConfig holds windowing geometry.
type GridConfig struct {
	// RowHeight is the height of one row in geometry units.
	RowHeight int `yaml:"row_height,omitempty"`
	// ViewportHeight fixes the visible height; 0 follows the terminal.
	ViewportHeight int `yaml:"viewport_height,omitempty"`
	// Overscan is the extra-row margin rendered beyond the visible range.
	Overscan int `yaml:"overscan,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	// FilterDebounceMS is the quiescence window for filter input.
	FilterDebounceMS int `yaml:"filter_debounce_ms,omitempty"`
	// ShowStats toggles the summary statistics line. Serialized without
	// omitempty so an explicit false survives a save/load round trip.
	ShowStats bool `yaml:"show_stats"`
}

// Config is the top-level configuration for gv.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset,omitempty"`
	Grid    GridConfig    `yaml:"grid,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Dataset: DatasetConfig{
			TotalRows:   10000,
			InitialLoad: 500,
			ChunkSize:   500,
			LoadDelayMS: 600,
		},
		Grid: GridConfig{
			RowHeight: 1,
			Overscan:  5,
		},
		UI: UIConfig{
			FilterDebounceMS: 300,
			ShowStats:        true,
		},
	}
}

// FilterDebounce returns the filter quiescence window as a duration.
func (c Config) FilterDebounce() time.Duration {
	return time.Duration(c.UI.FilterDebounceMS) * time.Millisecond
}

// LoadDelay returns the simulated fetch latency as a duration.
func (c Config) LoadDelay() time.Duration {
	return time.Duration(c.Dataset.LoadDelayMS) * time.Millisecond
}

// ConfigDir returns the XDG config directory for gv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gv")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Dataset.Path = expandHome(cfg.Dataset.Path)
	return cfg.normalized(), nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// normalized clamps nonsensical values back to defaults so a
// hand-edited config cannot wedge the UI.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Dataset.TotalRows <= 0 {
		c.Dataset.TotalRows = def.Dataset.TotalRows
	}
	if c.Dataset.InitialLoad <= 0 {
		c.Dataset.InitialLoad = def.Dataset.InitialLoad
	}
	if c.Dataset.ChunkSize <= 0 {
		c.Dataset.ChunkSize = def.Dataset.ChunkSize
	}
	if c.Dataset.LoadDelayMS < 0 {
		c.Dataset.LoadDelayMS = def.Dataset.LoadDelayMS
	}
	if c.Grid.RowHeight <= 0 {
		c.Grid.RowHeight = def.Grid.RowHeight
	}
	if c.Grid.ViewportHeight < 0 {
		c.Grid.ViewportHeight = 0
	}
	if c.Grid.Overscan < 0 {
		c.Grid.Overscan = def.Grid.Overscan
	}
	if c.UI.FilterDebounceMS <= 0 {
		c.UI.FilterDebounceMS = def.UI.FilterDebounceMS
	}
	return c
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
