package config

import (
	"os"
	"path/filepath"
)

// AppName names the configuration and cache directories.
const AppName = "teamtree"

// Path returns the configuration file location. TEAMTREE_CONFIG wins,
// then $XDG_CONFIG_HOME/teamtree/config.toml, then ~/.config/teamtree.
func Path() (string, error) {
	if p := os.Getenv("TEAMTREE_CONFIG"); p != "" {
		return p, nil
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/teamtree/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
