// Package cli implements the beacon command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/beacon/internal/config"
	"github.com/mrz1836/beacon/internal/metrics"
	"github.com/mrz1836/beacon/internal/output"
	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool
	nodeURL      string
	keyPairFile  string

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "beacon",
	Short: "A TON wallet shim that waits for funding and resolves names",
	Long: `Beacon manages a single TON wallet key pair. It can block until the
wallet has been funded past a threshold and resolve TON DNS names to wallet
addresses.

The key pair is read from <home>/.data/keypair.json and generated on first use.

Example:
  beacon address --qr
  beacon fund --amount 2.5
  beacon resolve alice.ton bob.ton`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initGlobals(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx as the command context.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		format := output.FormatText
		if formatter != nil {
			format = formatter.Format()
		}
		_ = output.FormatError(rootCmd.ErrOrStderr(), err, format)
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return beaconerr.ExitCode(err)
}

// initGlobals initializes global configuration, logger, and formatter.
func initGlobals(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	var err error
	cfg, err = config.Load(config.Path(home))
	if err != nil {
		if !errors.Is(err, beaconerr.ErrConfigNotFound) {
			return err
		}
		cfg = config.Defaults()
		cfg.Home = home
	}

	config.ApplyEnvironment(cfg)

	// Command-line flags win over file and environment
	if homeDir != "" {
		cfg.Home = homeDir
	}
	if nodeURL != "" {
		cfg.Network.NodeURL = config.SanitizeURL(nodeURL)
	}
	if keyPairFile != "" {
		cfg.Wallet.KeyPairFile = keyPairFile
	}
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != string(output.FormatAuto) {
		cfg.Output.DefaultFormat = outputFormat
	}

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.Logging.File)
	if err != nil {
		logger = config.NullLogger()
	}

	formatter = output.NewFormatter(output.ParseFormat(cfg.Output.DefaultFormat), cmd.OutOrStdout())
	return nil
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		snap := metrics.Global.Snapshot()
		if snap.QueriesTotal > 0 {
			logger.Debug("ledger queries: %d (%d failed, avg %.1fms), funding polls: %d, names resolved: %d",
				snap.QueriesTotal, snap.QueryErrors, snap.LatencyAvgMs(), snap.FundingPolls, snap.NamesResolved)
		}
		_ = logger.Close()
	}
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "beacon data directory (default: ~/.beacon)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&nodeURL, "node", "", "liteserver config URL (overrides BEACON_NODE_URL)")
	rootCmd.PersistentFlags().StringVar(&keyPairFile, "keypair", "", "key pair file, relative to the home directory unless absolute")
}
