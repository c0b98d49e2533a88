// Package config resolves pathsentry's on-disk layout: catalog path, packs
// directory, audit log path, all rooted under ~/.pathsentry by default.
package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultConfigDir   = ".pathsentry"
	DefaultCatalogFile = "catalog.yaml"
	DefaultPacksDir    = "packs"
	DefaultLogFile     = "audit.jsonl"
)

// Config is the resolved set of paths a Filter and Logger are built from.
type Config struct {
	CatalogPath string
	PacksDir    string
	LogPath     string
	Mode        string
	ConfigDir   string
}

// Load resolves a Config, creating ~/.pathsentry (and its packs
// subdirectory) if they don't already exist. Any of catalogPath, logPath,
// or packsDir may be empty to take the default location under ConfigDir.
func Load(catalogPath, packsDir, logPath, mode string) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configDir := filepath.Join(homeDir, DefaultConfigDir)
	if err := ensureDir(configDir); err != nil {
		return nil, err
	}

	cfg := &Config{ConfigDir: configDir, Mode: mode}

	if catalogPath != "" {
		cfg.CatalogPath = catalogPath
	} else {
		cfg.CatalogPath = filepath.Join(configDir, DefaultCatalogFile)
	}

	if packsDir != "" {
		cfg.PacksDir = packsDir
	} else {
		cfg.PacksDir = filepath.Join(configDir, DefaultPacksDir)
	}
	if err := ensureDir(cfg.PacksDir); err != nil {
		return nil, err
	}

	if logPath != "" {
		cfg.LogPath = logPath
	} else {
		cfg.LogPath = filepath.Join(configDir, DefaultLogFile)
	}

	return cfg, nil
}

func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0700)
	}
	return nil
}
