package config

import "time"

// Network names.
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

// Public liteserver config documents.
const (
	MainnetConfigURL = "https://ton.org/global.config.json"
	TestnetConfigURL = "https://ton.org/testnet-global.config.json"
)

// Funding wait timings.
const (
	DefaultPollInterval = 2 * time.Second
	DefaultRecheckDelay = 120 * time.Second
)

// DefaultNodeURL returns the liteserver config URL for a network name.
// Anything other than mainnet falls back to testnet.
func DefaultNodeURL(network string) string {
	if network == NetworkMainnet {
		return MainnetConfigURL
	}
	return TestnetConfigURL
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.beacon",
		Network: NetworkConfig{
			Name:           NetworkTestnet,
			NodeURL:        TestnetConfigURL,
			LiteServerPort: 4443,
			RateLimit:      5,
			RateBurst:      10,
		},
		Wallet: WalletConfig{
			KeyPairFile: ".data/keypair.json",
		},
		Funding: FundingConfig{
			PollInterval: DefaultPollInterval,
			RecheckDelay: DefaultRecheckDelay,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.beacon/beacon.log",
		},
	}
}
