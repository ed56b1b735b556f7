package chain

import (
	"context"

	"github.com/mrz1836/beacon/internal/keypair"
)

// Dialer opens a Ledger at nodeURL bound to kp. Implementations live in
// sub-packages so this package stays free of SDK imports.
type Dialer func(ctx context.Context, nodeURL string, kp *keypair.KeyPair) (Ledger, error)

// DialWithRetry calls dial with backoff, retrying errors accepted by IsRetryable.
func DialWithRetry(ctx context.Context, cfg RetryConfig, dial Dialer, nodeURL string, kp *keypair.KeyPair) (Ledger, error) {
	return RetryWithConfig(ctx, cfg, func() (Ledger, error) {
		return dial(ctx, nodeURL, kp)
	})
}
