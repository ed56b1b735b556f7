package cli

import (
	"context"
	"io"
	"math/big"

	"github.com/mrz1836/beacon/internal/chain"
	"github.com/mrz1836/beacon/internal/chain/ton"
	"github.com/mrz1836/beacon/internal/output"
	"github.com/mrz1836/beacon/internal/service/wallet"
)

// newDialer builds the ledger dialer. Tests replace it with a fake.
//
//nolint:gochecknoglobals // Test seam
var newDialer = func(c ConfigProvider, log LogWriter) chain.Dialer {
	network := c.GetNetwork()
	return ton.NewDialer(ton.Options{
		Network:        network.Name,
		LiteServerHost: network.LiteServerHost,
		LiteServerPort: network.LiteServerPort,
		LiteServerKey:  network.LiteServerKey,
		RateLimiter:    chain.NewRateLimiter(network.RateLimit, network.RateBurst),
		Logger:         log,
	})
}

// walletOptions tweaks the service built by openWallet.
type walletOptions struct {
	qrWriter  io.Writer
	onFunding wallet.FundingNotifier
}

// openWallet builds the wallet service from the global config and connects it.
// The caller must Close the returned service.
func openWallet(ctx context.Context, opts walletOptions) (*wallet.Service, error) {
	svc := newWalletService(cfg, logger, opts)
	if err := svc.Init(ctx, nil, cfg.GetNodeURL()); err != nil {
		_ = svc.Close()
		return nil, err
	}
	return svc, nil
}

func newWalletService(c ConfigProvider, log LogWriter, opts walletOptions) *wallet.Service {
	funding := c.GetFunding()
	return wallet.NewService(&wallet.Config{
		Dialer:           newDialer(c, log),
		NodeURL:          c.GetNodeURL(),
		KeyPairPath:      c.KeyPairPath(),
		PollInterval:     funding.PollInterval,
		RecheckDelay:     funding.RecheckDelay,
		QRWriter:         opts.qrWriter,
		OnFundingRequest: opts.onFunding,
		Logger:           log,
	})
}

// fundingPrinter writes funding instructions to w.
func fundingPrinter(w io.Writer) wallet.FundingNotifier {
	return func(address string, amount *big.Int) {
		output.FundingRequest(w, address, chain.FormatTON(amount))
	}
}
