package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// AppConfig stores settings for the client application itself
type AppConfig struct {
	// LedgerDir is the directory holding the local ledger tables.
	LedgerDir string `yaml:"ledger_dir"`

	// QRBaseURL is the URL prefix embedded in generated QR payloads; the
	// product id is appended as the productId query parameter.
	QRBaseURL string `yaml:"qr_base_url"`
}

// LoadAppConfig loads application configuration from the specified YAML file path
func LoadAppConfig(path string) (*AppConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path of config file: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", absPath, err)
	}

	var cfg AppConfig
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
	}

	if cfg.LedgerDir == "" {
		cfg.LedgerDir = "./data"
	}
	if cfg.QRBaseURL == "" {
		cfg.QRBaseURL = "http://localhost:3000/verify"
	}
	return &cfg, nil
}
