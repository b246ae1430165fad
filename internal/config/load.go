package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load reads configuration with priority: defaults < config file < flags.
// If path is empty, well-known locations are searched. A missing file is
// not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	return cfg, nil
}

// findConfigFile looks for a config file in well-known locations.
func findConfigFile() string {
	candidates := []string{
		"rigbake.yaml",
		filepath.Join(ConfigDir(), "rigbake.yaml"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// ConfigDir returns the per-user configuration directory.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "rigbake")
		}
		return filepath.Join(home, "rigbake")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "rigbake")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "rigbake")
		}
		return filepath.Join(home, ".config", "rigbake")
	}
}
