package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/beacon/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var addressQR bool

// addressCmd prints the wallet address.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Show the wallet address",
	Long: `Show the wallet address to fund. The key pair is generated on first use.

Example:
  beacon address
  beacon address --qr`,
	Args: cobra.NoArgs,
	RunE: runAddress,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	addressCmd.Flags().BoolVar(&addressQR, "qr", false, "also draw the address as a QR code")
	rootCmd.AddCommand(addressCmd)
}

type addressResult struct {
	Address string `json:"address"`
	Network string `json:"network"`
}

func runAddress(cmd *cobra.Command, _ []string) error {
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

	if err := formatter.Emit(addr, addressResult{Address: addr, Network: cfg.Network.Name}); err != nil {
		return err
	}

	if addressQR && !formatter.IsJSON() {
		return output.RenderQR(cmd.OutOrStdout(), output.TransferLink(addr, nil), output.DefaultQRConfig())
	}
	return nil
}
