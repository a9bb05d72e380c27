// Package config handles loading and saving larch configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/larch/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/larch/pkg/fstree"
)

// UIConfig holds view preference settings applied at startup.
type UIConfig struct {
	ShowHidden     bool   `yaml:"show_hidden,omitempty"` // Show dotfiles
	Sort           string `yaml:"sort,omitempty"`        // name, size, mtime
	SortDescending bool   `yaml:"sort_descending,omitempty"`
	MaxDepth       int    `yaml:"max_depth,omitempty"` // Initial expansion depth
}

// Config is the top-level configuration for larch.
type Config struct {
	UI UIConfig `yaml:"ui,omitempty"`

	// Bookmarks maps number keys (1-9) to directory paths for one-press
	// jumps. Paths may use a leading ~.
	Bookmarks map[int]string `yaml:"bookmarks,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			Sort:     "name",
			MaxDepth: 1,
		},
		Bookmarks: make(map[int]string),
	}
}

// ConfigDir returns the XDG config directory for larch.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "larch")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "larch")
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

	if cfg.Bookmarks == nil {
		cfg.Bookmarks = make(map[int]string)
	}
	for n, p := range cfg.Bookmarks {
		cfg.Bookmarks[n] = expandHome(p)
	}

	return cfg, nil
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

// SortField resolves the configured sort string, falling back to by-name.
func (c Config) SortField() fstree.SortField {
	field, _ := fstree.ParseSortField(c.UI.Sort)
	return field
}

// SortDirection resolves the configured direction.
func (c Config) SortDirection() fstree.SortDirection {
	if c.UI.SortDescending {
		return fstree.SortDescending
	}
	return fstree.SortAscending
}

// Bookmark returns the path bound to number key n (1-9), or "".
func (c Config) Bookmark(n int) string {
	return c.Bookmarks[n]
}

// SetBookmark binds a path to a number key; an empty path removes the
// binding.
func (c *Config) SetBookmark(n int, path string) {
	if c.Bookmarks == nil {
		c.Bookmarks = make(map[int]string)
	}
	if path == "" {
		delete(c.Bookmarks, n)
	} else {
		c.Bookmarks[n] = path
	}
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
