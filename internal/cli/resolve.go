package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrz1836/beacon/internal/batch"
	"github.com/mrz1836/beacon/internal/output"
	"github.com/mrz1836/beacon/internal/service/wallet"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var resolveSequential bool

// resolveCmd resolves TON DNS names.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var resolveCmd = &cobra.Command{
	Use:   "resolve <name>...",
	Short: "Resolve TON DNS names to wallet addresses",
	Long: `Resolve TON DNS names to wallet addresses. Names without a record are
skipped. A name without a zone gets ".ton" appended. Output order may differ
from the input order.

With --sequential names are queried one at a time in input order, output keeps
that order, and a failing name is reported and skipped instead of failing the
whole batch.

Example:
  beacon resolve alice.ton bob
  beacon resolve --sequential alice.ton bob.ton carol.ton`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	resolveCmd.Flags().BoolVar(&resolveSequential, "sequential", false, "query one name at a time and skip failures")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx, cancel := contextWithTimeout(cmd, defaultQueryTimeout)
	defer cancel()

	svc, err := openWallet(ctx, walletOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	var addrs []string
	if resolveSequential {
		addrs, err = resolveEach(ctx, svc, args)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			output.Warnf(cmd.ErrOrStderr(), "some names were skipped: %v", err)
		}
	} else {
		addrs, err = svc.ResolveNames(ctx, args)
		if err != nil {
			return err
		}
	}
	logger.Debug("resolved %d of %d names", len(addrs), len(args))

	return formatter.Lines(addrs, addrs)
}

// resolveEach resolves names in order, skipping and collecting failures.
func resolveEach(ctx context.Context, svc *wallet.Service, names []string) ([]string, error) {
	return batch.FoldMap(ctx, names, func(ctx context.Context, name string) ([]string, error) {
		return svc.ResolveNames(ctx, []string{name})
	}, logger)
}
