package blockchain

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/rahulpokala13/PandoraBox/blockchain/client/ethereum"
	"github.com/rahulpokala13/PandoraBox/config"
)

// ChainType represents the type of chain client
type ChainType string

const (
	Ethereum ChainType = "ethereum"
	// Memory runs the in-process contract simulator instead of a node.
	Memory ChainType = "memory"
)

// LoadChainSpecificConfig loads chain-specific configuration based on chain type
func LoadChainSpecificConfig(chainType string, configDir string) (any, error) {
	switch ChainType(chainType) {
	case Ethereum, "":
		// Default to Ethereum if not specified
		ethereumConfigPath := filepath.Join(configDir, "clients", "ethereum.yml")
		return ethereum.LoadEthereumConfig(ethereumConfigPath)
	case Memory:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported chain type: %s", chainType)
	}
}

// NewChainClient creates a chain client based on the configuration
func NewChainClient(cfg *config.ChainConfig, logger *log.Logger) (ChainClient, error) {
	switch ChainType(cfg.ChainType) {
	case Ethereum, "":
		// Default to Ethereum if not specified
		return ethereum.NewEthereumClient(cfg, logger)
	case Memory:
		return NewMemoryClient(logger), nil
	default:
		return nil, fmt.Errorf("unsupported chain type: %s", cfg.ChainType)
	}
}

// NewChainClientFromFile creates a chain client from configuration files
func NewChainClientFromFile(configPath string, logger *log.Logger) (ChainClient, error) {
	// Load common configuration
	cfg, err := config.LoadChainConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load common config from file '%s': %w", configPath, err)
	}

	// Load chain-specific configuration
	configDir := filepath.Dir(configPath)
	chainSpecificCfg, err := LoadChainSpecificConfig(cfg.ChainType, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load chain-specific config: %w", err)
	}

	cfg.ChainSpecific = chainSpecificCfg
	return NewChainClient(cfg, logger)
}
