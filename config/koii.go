package config

import (
	"fmt"
	"os"
	"path/filepath"

	solchain "github.com/chinmay1088/ktools/chains/solana"
	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// KoiiCLIFallbackRPC is used when the Koii CLI config names no RPC
const KoiiCLIFallbackRPC = "https://testnet.koii.live/"

// KoiiCLIConfig is the part of the Koii CLI config.yml the toolkit reads
type KoiiCLIConfig struct {
	JSONRPCURL  string `yaml:"json_rpc_url"`
	KeypairPath string `yaml:"keypair_path"`
	Commitment  string `yaml:"commitment"`
}

// KoiiCLIConfigPath returns ~/.config/koii/cli/config.yml
func KoiiCLIConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "koii", "cli", "config.yml"), nil
}

// LoadKoiiCLIConfig parses a Koii CLI config file
func LoadKoiiCLIConfig(path string) (*KoiiCLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read koii config: %w", err)
	}

	var cfg KoiiCLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse koii config: %w", err)
	}
	return &cfg, nil
}

// KoiiRPCURL returns the RPC of the Koii CLI config at path, falling back
// to the K2 testnet
func KoiiRPCURL(path string) string {
	cfg, err := LoadKoiiCLIConfig(path)
	if err == nil && cfg.JSONRPCURL != "" {
		return cfg.JSONRPCURL
	}
	log.WithError(err).Debug("failed to read RPC url from koii config, falling back to testnet")
	return KoiiCLIFallbackRPC
}

// KoiiPayer loads the keypair named by the Koii CLI config at path
func KoiiPayer(path string) (solana.PrivateKey, error) {
	cfg, err := LoadKoiiCLIConfig(path)
	if err != nil {
		return nil, err
	}
	if cfg.KeypairPath == "" {
		return nil, fmt.Errorf("koii config %s has no keypair_path", path)
	}
	return solchain.LoadKeypairFile(cfg.KeypairPath)
}
