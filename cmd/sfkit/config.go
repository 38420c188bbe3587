package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/branched-services/go-superfluid/chains"
	"github.com/branched-services/go-superfluid/networks"
	"github.com/branched-services/go-superfluid/subgraph"
)

// Config is the sfkit configuration file.
type Config struct {
	Chain      uint64 `yaml:"chain"`
	RPCURL     string `yaml:"rpc_url"`
	PrivateKey string `yaml:"private_key"`
	Keystore   string `yaml:"keystore"`

	// ChainsFile overlays the built-in chain registry.
	ChainsFile  string `yaml:"chains_file"`
	NetworksURL string `yaml:"networks_url"`

	Subgraph SubgraphConfig `yaml:"subgraph"`
}

// SubgraphConfig configures the balance command.
type SubgraphConfig struct {
	Endpoint string `yaml:"endpoint"`
	RPCURL   string `yaml:"rpc_url"`
	Token    string `yaml:"token"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		NetworksURL: networks.DefaultListURL,
		Subgraph: SubgraphConfig{
			Endpoint: subgraph.DefaultEndpoint,
			RPCURL:   subgraph.DefaultRPC,
			Token:    subgraph.DefaultToken.Hex(),
		},
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "sfkit.yaml"
	}
	return filepath.Join(dir, "sfkit", "config.yaml")
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults. Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies SFKIT_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("SFKIT_PRIVATE_KEY"); v != "" {
		c.PrivateKey = v
	}
	if v := os.Getenv("SFKIT_KEYSTORE"); v != "" {
		c.Keystore = v
	}
	if v := os.Getenv("SFKIT_RPC_URL"); v != "" {
		c.RPCURL = v
	}
	if v := os.Getenv("SFKIT_CHAIN"); v != "" {
		id, err := chains.ParseChainID(v)
		if err != nil {
			return fmt.Errorf("invalid SFKIT_CHAIN: %w", err)
		}
		c.Chain = id
	}
	if v := os.Getenv("SFKIT_SUBGRAPH"); v != "" {
		c.Subgraph.Endpoint = v
	}
	return nil
}
