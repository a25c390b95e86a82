package api

import "time"

// Default endpoints
const (
	DefaultGateway  = "https://arweave.net"
	DefaultBundler  = "https://mainnet.koii.live"
	DefaultPriceAPI = "https://api.coingecko.com/api/v3"
)

const (
	DefaultTimeout = 30 * time.Second
	// DefaultRateLimit is the number of gateway requests allowed per second
	DefaultRateLimit = 10
)

// Config selects the remote services used by Client
type Config struct {
	Gateway   string
	Bundler   string
	PriceAPI  string
	Timeout   time.Duration
	RateLimit int
}

func DefaultConfig() Config {
	return Config{
		Gateway:   DefaultGateway,
		Bundler:   DefaultBundler,
		PriceAPI:  DefaultPriceAPI,
		Timeout:   DefaultTimeout,
		RateLimit: DefaultRateLimit,
	}
}
