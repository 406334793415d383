package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the complete application configuration
type Config struct {
	App   *AppConfig
	Chain *ChainConfig
}

// LoadConfig loads all configuration files from a directory
func LoadConfig(configDir string) (*Config, error) {
	absDir, err := filepath.Abs(configDir)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path of config directory: %w", err)
	}

	config := &Config{}

	// Load app config
	appPath := filepath.Join(absDir, "app.yml")
	if _, err := os.Stat(appPath); err == nil {
		appCfg, err := LoadAppConfig(appPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load app config: %w", err)
		}
		config.App = appCfg
	} else {
		config.App = &AppConfig{LedgerDir: "./data", QRBaseURL: "http://localhost:3000/verify"}
	}

	// Load chain config
	chainPath := filepath.Join(absDir, "client_config.yml")
	if _, err := os.Stat(chainPath); err == nil {
		chainCfg, err := LoadChainConfig(chainPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load chain config: %w", err)
		}
		config.Chain = chainCfg
	} else {
		// No chain file means the in-process simulator.
		config.Chain = &ChainConfig{ChainType: "memory", TimeoutSeconds: 30}
	}

	return config, nil
}
