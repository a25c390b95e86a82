package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/chinmay1088/ktools/api"
	solchain "github.com/chinmay1088/ktools/chains/solana"
	"github.com/chinmay1088/ktools/wallet"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// NetworkKey selects the network profile. Either "mainnet" or "testnet"
	NetworkKey = "NETWORK"
	// SolanaRPCKey overrides the Solana RPC endpoint of the profile
	SolanaRPCKey = "SOLANA_RPC"
	// K2RPCKey overrides the K2 RPC endpoint of the profile
	K2RPCKey = "K2_RPC"
	// EthereumRPCKey overrides the Ethereum RPC endpoint of the profile
	EthereumRPCKey = "ETHEREUM_RPC"
	// RecoveryRPCKey is the Solana endpoint queried while recovering a
	// wallet from its mnemonic
	RecoveryRPCKey = "RECOVERY_RPC"
	// ArweaveGatewayKey is the Arweave gateway
	ArweaveGatewayKey = "ARWEAVE_GATEWAY"
	// BundlerURLKey is the Koii bundler serving contract state
	BundlerURLKey = "BUNDLER_URL"
	// KoiiContractIDKey is the Koii SmartWeave contract
	KoiiContractIDKey = "KOII_CONTRACT_ID"
	// TaskProgramIDKey is the K2 task program
	TaskProgramIDKey = "TASK_PROGRAM_ID"
	// DatadirKey is the local data directory holding the vault, session
	// and config file
	DatadirKey = "DATA_DIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// RequestTimeoutKey are the milliseconds to wait for HTTP responses before timeouts
	RequestTimeoutKey = "REQUEST_TIMEOUT"
	// GatewayRateLimitKey is the number of gateway requests per second
	GatewayRateLimitKey = "GATEWAY_RATE_LIMIT"

	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"

	// DefaultTaskProgramID is the task program deployed on K2
	DefaultTaskProgramID = "Koiitask22222222222222222222222222222222222"
	// DefaultKoiiContractID is the Koii SmartWeave contract on Arweave
	DefaultKoiiContractID = "QA7AIFVx1KBBmzC7WUNhJbDsHlSJArUT0jWrhZMZPS8"
	// K2MainnetURL is the public RPC of K2 mainnet
	K2MainnetURL = "https://mainnet.koii.network"

	configFileName = "config"
	configFileType = "yaml"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("ktools", false)

func init() {
	vip = viper.New()
	setDefaults(vip)
}

func setDefaults(v *viper.Viper) {
	v.SetEnvPrefix("KTOOLS")
	v.AutomaticEnv()

	v.SetDefault(NetworkKey, NetworkMainnet)
	v.SetDefault(ArweaveGatewayKey, api.DefaultGateway)
	v.SetDefault(BundlerURLKey, api.DefaultBundler)
	v.SetDefault(KoiiContractIDKey, DefaultKoiiContractID)
	v.SetDefault(TaskProgramIDKey, DefaultTaskProgramID)
	v.SetDefault(DatadirKey, defaultDatadir)
	v.SetDefault(LogLevelKey, 4)
	v.SetDefault(RequestTimeoutKey, 30000)
	v.SetDefault(GatewayRateLimitKey, api.DefaultRateLimit)
}

// Load reads the optional config file in the data directory, validates
// the resulting configuration and creates the data directory
func Load() error {
	datadir := GetDatadir()
	vip.SetConfigName(configFileName)
	vip.SetConfigType(configFileType)
	vip.AddConfigPath(datadir)

	if err := vip.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := validate(); err != nil {
		return err
	}
	return makeDirectoryIfNotExists(GetDatadir())
}

// GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

// GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

// GetDuration ...
func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// IsSet returns whether the give key is set
func IsSet(key string) bool {
	return vip.IsSet(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetLogLevel() log.Level {
	return log.Level(GetInt(LogLevelKey))
}

// GetNetwork returns the selected network profile
func GetNetwork() string {
	if strings.ToLower(GetString(NetworkKey)) == NetworkTestnet {
		return NetworkTestnet
	}
	return NetworkMainnet
}

func IsTestnet() bool {
	return GetNetwork() == NetworkTestnet
}

// SetNetwork switches the network profile and persists it to the config
// file in the data directory
func SetNetwork(network string) error {
	network = strings.ToLower(strings.TrimSpace(network))
	if network != NetworkMainnet && network != NetworkTestnet {
		return fmt.Errorf("network must be either '%s' or '%s'", NetworkMainnet, NetworkTestnet)
	}

	if err := makeDirectoryIfNotExists(GetDatadir()); err != nil {
		return err
	}

	// only persist the network, env overrides stay out of the file
	file := viper.New()
	path := filepath.Join(GetDatadir(), configFileName+"."+configFileType)
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.WithError(err).Warn("rewriting unreadable config file")
		}
	}
	file.Set(NetworkKey, network)
	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	vip.Set(NetworkKey, network)
	return nil
}

// GetChainNetwork returns the network name understood by the wallet tool
// of kind under the selected profile
func GetChainNetwork(kind wallet.Kind) string {
	testnet := IsTestnet()
	switch kind {
	case wallet.KindSolana:
		if testnet {
			return solchain.Devnet
		}
		return solchain.MainnetBeta
	case wallet.KindK2:
		if testnet {
			return solchain.Testnet
		}
		return K2MainnetURL
	case wallet.KindEthereum:
		if testnet {
			return wallet.EthereumSepolia
		}
		return wallet.EthereumMainnet
	default:
		return NetworkMainnet
	}
}

// GetEndpoint returns the RPC override configured for kind, if any
func GetEndpoint(kind wallet.Kind) string {
	switch kind {
	case wallet.KindSolana:
		return GetString(SolanaRPCKey)
	case wallet.KindK2:
		return GetString(K2RPCKey)
	case wallet.KindEthereum:
		return GetString(EthereumRPCKey)
	default:
		return ""
	}
}

// GetRequestTimeout returns the timeout of single remote calls
func GetRequestTimeout() time.Duration {
	return time.Duration(GetInt(RequestTimeoutKey)) * time.Millisecond
}

// GetAPIConfig returns the gateway client configuration
func GetAPIConfig() api.Config {
	cfg := api.DefaultConfig()
	cfg.Gateway = GetString(ArweaveGatewayKey)
	cfg.Bundler = GetString(BundlerURLKey)
	cfg.Timeout = GetRequestTimeout()
	cfg.RateLimit = GetInt(GatewayRateLimitKey)
	return cfg
}

// GetToolOptions returns the options for the wallet tool of kind
func GetToolOptions(kind wallet.Kind, creds *wallet.Credentials) wallet.Options {
	opts := wallet.Options{
		Network:     GetChainNetwork(kind),
		Endpoint:    GetEndpoint(kind),
		Credentials: creds,
	}
	switch kind {
	case wallet.KindSolana:
		opts.RecoveryEndpoint = GetString(RecoveryRPCKey)
	case wallet.KindArweave:
		opts.Gateway = api.NewClient(GetAPIConfig())
	}
	return opts
}

func validate() error {
	datadir := GetDatadir()
	if len(datadir) <= 0 {
		return fmt.Errorf("datadir must not be null")
	}

	networkName := strings.ToLower(GetString(NetworkKey))
	if networkName != NetworkMainnet && networkName != NetworkTestnet {
		return fmt.Errorf(
			"network must be either '%s' or '%s'", NetworkMainnet, NetworkTestnet,
		)
	}

	for _, key := range []string{
		ArweaveGatewayKey, BundlerURLKey, SolanaRPCKey, K2RPCKey, EthereumRPCKey, RecoveryRPCKey,
	} {
		endpoint := GetString(key)
		if endpoint == "" {
			continue
		}
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return fmt.Errorf("%s is not a valid url: %s", key, err)
		}
	}

	if level := GetInt(LogLevelKey); level < int(log.PanicLevel) || level > int(log.TraceLevel) {
		return fmt.Errorf("log level must be in range [%d, %d]", log.PanicLevel, log.TraceLevel)
	}
	if GetInt(RequestTimeoutKey) <= 0 {
		return fmt.Errorf("request timeout must be a positive number of milliseconds")
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0700)
	}
	return nil
}
