// pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config holds stationctl configuration.
type Config struct {
	// DefaultBackend overrides auto-detection when set.
	DefaultBackend string `yaml:"default_backend"`

	// ProbeEndpoints are the network reachability probe targets.
	ProbeEndpoints []string `yaml:"probe_endpoints"`

	// DotfilesDir is the source tree the dotfiles command deploys.
	DotfilesDir string `yaml:"dotfiles_dir"`

	// NoColor disables colored console output.
	NoColor bool `yaml:"no_color"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DefaultBackend: "", // auto-detect
		ProbeEndpoints: nil,
		DotfilesDir:    filepath.Join(home, ".dotfiles"),
		NoColor:        false,
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	path, err := xdg.ConfigFile(filepath.Join("stationctl", "config.yaml"))
	if err != nil {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "stationctl", "config.yaml")
	}
	return path
}

// Load loads configuration from path, or from the default location when
// path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path, or to the default location when
// path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
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
