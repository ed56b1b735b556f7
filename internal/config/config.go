// Package config provides configuration management for beacon.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version int           `yaml:"version"`
	Home    string        `yaml:"home"`
	Network NetworkConfig `yaml:"network"`
	Wallet  WalletConfig  `yaml:"wallet"`
	Funding FundingConfig `yaml:"funding"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// NetworkConfig defines how the ledger node is reached.
type NetworkConfig struct {
	// Name is mainnet or testnet.
	Name string `yaml:"name"`
	// NodeURL points at a liteserver global config document.
	NodeURL string `yaml:"node_url"`
	// LiteServerHost, LiteServerPort and LiteServerKey pin a single liteserver
	// instead of the ones listed in NodeURL.
	LiteServerHost string `yaml:"liteserver_host,omitempty"`
	LiteServerPort int    `yaml:"liteserver_port,omitempty"`
	LiteServerKey  string `yaml:"liteserver_key,omitempty"`
	// RateLimit and RateBurst bound name queries per second.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// WalletConfig defines key pair settings.
type WalletConfig struct {
	KeyPairFile string `yaml:"keypair_file"`
}

// FundingConfig defines the funding wait timings.
type FundingConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	RecheckDelay time.Duration `yaml:"recheck_delay"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file. Fields the file omits
// keep their defaults. A missing file yields ErrConfigNotFound and a file
// that cannot be parsed yields ErrConfigInvalid.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return nil, beaconerr.WithDetails(beaconerr.ErrConfigNotFound, map[string]string{"path": path})
		case errors.Is(err, os.ErrPermission):
			return nil, beaconerr.WithDetails(beaconerr.ErrPermission, map[string]string{"path": path})
		default:
			return nil, beaconerr.Wrap(beaconerr.ErrConfigInvalid, "reading %s: %v", path, err)
		}
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, beaconerr.Wrap(beaconerr.ErrConfigInvalid, "parsing %s: %v", path, err)
	}

	return cfg, nil
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// GetHome returns the beacon home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetNodeURL returns the ledger node endpoint.
func (c *Config) GetNodeURL() string {
	return c.Network.NodeURL
}

// GetNetwork returns the network settings.
func (c *Config) GetNetwork() NetworkConfig {
	return c.Network
}

// GetFunding returns the funding wait timings.
func (c *Config) GetFunding() FundingConfig {
	return c.Funding
}

// KeyPairPath returns the key pair file path. Relative paths resolve against
// the home directory.
func (c *Config) KeyPairPath() string {
	p := ExpandHome(c.Wallet.KeyPairFile)
	if p == "" {
		p = filepath.Join(".data", "keypair.json")
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(ExpandHome(c.Home), p)
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// IsMainnet reports whether the configured network is mainnet.
func (c *Config) IsMainnet() bool {
	return strings.EqualFold(c.Network.Name, NetworkMainnet)
}

// DefaultHome returns the default beacon home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".beacon"
	}
	return filepath.Join(home, ".beacon")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
