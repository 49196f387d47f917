package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	APIBase         string `toml:"api_base"`
	DBPath          string `toml:"db_path"`
	CredsPath       string `toml:"creds_path"`
	Player          string `toml:"player"`
	CatalogTTLHours int    `toml:"catalog_ttl_hours"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBase:         "https://api.rewind.tv",
		DBPath:          filepath.Join(home, ".config", "rtv", "channels.db"),
		CredsPath:       filepath.Join(home, ".config", "rtv", "credentials.toml"),
		Player:          "mpv",
		CatalogTTLHours: 24,
	}

	cfgPath := filepath.Join(home, ".config", "rtv", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.CredsPath = expandHome(cfg.CredsPath, home)

	if cfg.CatalogTTLHours <= 0 {
		cfg.CatalogTTLHours = 24
	}

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
