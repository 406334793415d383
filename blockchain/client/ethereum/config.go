package ethereum

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// EthereumConfig stores Ethereum-specific configuration
type EthereumConfig struct {
	// --- Provider Connection Required ---
	RPCURL  string `yaml:"rpc_url"`
	ChainID int64  `yaml:"chain_id"`

	// Transaction Signing Credential
	// Raw hex private key, as handed out by a dev node. This is a
	// convenience credential for a local deployment, not a custody scheme.
	PrivateKey string `yaml:"private_key"`

	// --- Business Logic Required ---
	ContractAddress string `yaml:"contract_address"`
}

// LoadEthereumConfig loads Ethereum configuration from the specified YAML file path
func LoadEthereumConfig(path string) (*EthereumConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path of Ethereum config file: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read Ethereum config file '%s': %w", absPath, err)
	}

	var cfg EthereumConfig
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Ethereum YAML config file: %w", err)
	}

	if cfg.RPCURL == "" {
		cfg.RPCURL = "http://127.0.0.1:8545"
	}
	if cfg.ContractAddress == "" {
		return nil, fmt.Errorf("contract_address is required in Ethereum config")
	}
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private_key is required in Ethereum config")
	}
	return &cfg, nil
}
