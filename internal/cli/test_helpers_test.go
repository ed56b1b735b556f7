package cli

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mrz1836/beacon/internal/chain"
	"github.com/mrz1836/beacon/internal/config"
	"github.com/mrz1836/beacon/internal/keypair"
)

const fakeAddress = "0QfakeWalletAddressForTests"

type fakeLedger struct {
	balance *big.Int
	records map[string]*chain.NameRecord
	nameErr error
}

func (f *fakeLedger) Address() string { return fakeAddress }

func (f *fakeLedger) Balance(_ context.Context, _ string) (*big.Int, error) {
	if f.balance == nil {
		return new(big.Int), nil
	}
	return new(big.Int).Set(f.balance), nil
}

func (f *fakeLedger) ResolveName(_ context.Context, name string) (*chain.NameRecord, error) {
	if f.nameErr != nil {
		return nil, f.nameErr
	}
	if rec, ok := f.records[name]; ok {
		return rec, nil
	}
	return nil, chain.ErrNameNotFound
}

func (f *fakeLedger) Close() error { return nil }

// withFakeLedger routes every dial to ledger and restores the real dialer on cleanup.
func withFakeLedger(t *testing.T, ledger chain.Ledger) {
	t.Helper()
	orig := newDialer
	t.Cleanup(func() { newDialer = orig })
	newDialer = func(_ ConfigProvider, _ LogWriter) chain.Dialer {
		return func(_ context.Context, _ string, _ *keypair.KeyPair) (chain.Ledger, error) {
			return ledger, nil
		}
	}
}

// resetFlags restores every flag to its default so commands do not leak
// state between tests.
func resetFlags() {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
	}
}

// runCLI executes the root command with a temporary home and returns stdout
// and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIWithHome(t, t.TempDir(), args...)
}

// runCLIWithHome is runCLI against a prepared home directory.
func runCLIWithHome(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvLogLevel, "off")

	resetFlags()
	t.Cleanup(resetFlags)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--home", home}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// subcommand finds a registered command by name.
func subcommand(name string) *cobra.Command {
	for _, c := range rootCmd.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
