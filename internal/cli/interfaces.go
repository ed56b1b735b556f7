package cli

import (
	"github.com/mrz1836/beacon/internal/config"
	"github.com/mrz1836/beacon/internal/output"
)

// Compile-time interface checks.
var (
	_ ConfigProvider = (*config.Config)(nil)
	_ LogWriter      = (*config.Logger)(nil)
	_ FormatProvider = (*output.Formatter)(nil)
)

// ConfigProvider provides read access to configuration values.
type ConfigProvider interface {
	// GetNodeURL returns the liteserver config URL.
	GetNodeURL() string

	// GetNetwork returns the network settings.
	GetNetwork() config.NetworkConfig

	// GetFunding returns the funding wait timings.
	GetFunding() config.FundingConfig

	// KeyPairPath returns the resolved key pair file path.
	KeyPairPath() string

	// IsMainnet reports whether the wallet lives on mainnet.
	IsMainnet() bool
}

// LogWriter provides logging capabilities.
type LogWriter interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// FormatProvider provides output format information.
type FormatProvider interface {
	Format() output.Format
	IsJSON() bool
}
