package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/beacon/internal/chain"
)

// balanceCmd prints the wallet balance.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the wallet balance",
	Args:  cobra.NoArgs,
	RunE:  runBalance,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(balanceCmd)
}

type balanceResult struct {
	Address  string `json:"address"`
	Balance  string `json:"balance"`
	Nanotons string `json:"nanotons"`
}

func runBalance(cmd *cobra.Command, _ []string) error {
	ctx, cancel := contextWithTimeout(cmd, defaultQueryTimeout)
	defer cancel()

	svc, err := openWallet(ctx, walletOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	addr, err := svc.Address()
	if err != nil {
		return err
	}
	bal, err := svc.Balance(ctx)
	if err != nil {
		return err
	}

	ton := chain.FormatTON(bal)
	return formatter.Emit(ton+" TON", balanceResult{
		Address:  addr,
		Balance:  ton,
		Nanotons: bal.String(),
	})
}
