package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mrz1836/go-sanitize"

	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

// Environment variable names.
const (
	EnvHome         = "BEACON_HOME"
	EnvNodeURL      = "BEACON_NODE_URL"
	EnvLegacyNode   = "NODE_URL"
	EnvNetwork      = "BEACON_NETWORK"
	EnvKeyPair      = "BEACON_KEYPAIR"
	EnvOutputFormat = "BEACON_OUTPUT_FORMAT"
	EnvVerbose      = "BEACON_VERBOSE"
	EnvLogLevel     = "BEACON_LOG_LEVEL"
	EnvNoColor      = "NO_COLOR"
)

// LoadDotEnv loads variables from .env files into the process environment.
// Variables already set are left untouched and a missing file is skipped.
// A file that cannot be parsed yields ErrConfigInvalid.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return beaconerr.Wrap(beaconerr.ErrConfigInvalid, "loading %s: %v", f, err)
		}
	}
	return nil
}

// ApplyEnvironment applies environment variable overrides to the configuration.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	// Switching network resets the node URL to that network's default; an
	// explicit node URL below still wins.
	if v := os.Getenv(EnvNetwork); v != "" {
		cfg.Network.Name = strings.ToLower(strings.TrimSpace(v))
		cfg.Network.NodeURL = DefaultNodeURL(cfg.Network.Name)
	}

	if v := os.Getenv(EnvLegacyNode); v != "" {
		cfg.Network.NodeURL = SanitizeURL(v)
	}
	if v := os.Getenv(EnvNodeURL); v != "" {
		cfg.Network.NodeURL = SanitizeURL(v)
	}

	if v := os.Getenv(EnvKeyPair); v != "" {
		cfg.Wallet.KeyPairFile = v
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// SanitizeURL cleans a URL string by removing invalid characters and trimming whitespace.
// This is useful for cleaning user-provided node URLs that may contain copy-paste artifacts.
func SanitizeURL(url string) string {
	return sanitize.URL(strings.TrimSpace(url))
}
