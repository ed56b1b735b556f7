package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/beacon/internal/chain"
	"github.com/mrz1836/beacon/internal/output"
	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var (
	fundAmount    string
	fundNoRecheck bool
	fundTimeout   time.Duration
)

// fundCmd blocks until the wallet is funded.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var fundCmd = &cobra.Command{
	Use:   "fund",
	Short: "Wait until the wallet holds the requested amount",
	Long: `Wait until the wallet holds at least --amount TON.

When the balance is below half of the amount, the address is shown with
funding instructions and the balance is polled until the full amount arrives.
Afterwards the balance is rechecked periodically until interrupted, unless
--no-recheck is given.

Example:
  beacon fund --amount 2.5
  beacon fund --amount 1 --no-recheck --timeout 10m`,
	Args: cobra.NoArgs,
	RunE: runFund,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	fundCmd.Flags().StringVar(&fundAmount, "amount", "", "amount in TON to wait for (required)")
	fundCmd.Flags().BoolVar(&fundNoRecheck, "no-recheck", false, "exit once funded instead of rechecking")
	fundCmd.Flags().DurationVar(&fundTimeout, "timeout", 0, "give up waiting after this long (0 waits forever)")
	_ = fundCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(fundCmd)
}

type fundResult struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Balance string `json:"balance"`
	Funded  bool   `json:"funded"`
}

func runFund(cmd *cobra.Command, _ []string) error {
	amount, err := chain.ParseTON(fundAmount)
	if err != nil {
		return beaconerr.WithSuggestion(err, "pass the amount in TON, e.g. --amount 2.5")
	}

	ctx, cancel := contextWithTimeout(cmd, fundTimeout)
	defer cancel()

	svc, err := openWallet(ctx, walletOptions{
		qrWriter:  cmd.ErrOrStderr(),
		onFunding: fundingPrinter(cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	if fundNoRecheck {
		svc.StopAwaitFundingCheck()
	}

	if err := svc.AwaitFunding(ctx, amount); err != nil {
		return err
	}

	addr, err := svc.Address()
	if err != nil {
		return err
	}
	bal, err := svc.Balance(ctx)
	if err != nil {
		return err
	}

	if !formatter.IsJSON() {
		output.Successf(cmd.OutOrStdout(), "Wallet %s holds %s TON", addr, chain.FormatTON(bal))
	} else if err := formatter.Emit("", fundResult{
		Address: addr,
		Amount:  chain.FormatTON(amount),
		Balance: chain.FormatTON(bal),
		Funded:  true,
	}); err != nil {
		return err
	}

	if fundNoRecheck {
		return nil
	}

	logger.Debug("funded, rechecking until interrupted")
	<-ctx.Done()
	return nil
}
