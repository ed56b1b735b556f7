package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// defaultQueryTimeout bounds one-shot ledger commands.
const defaultQueryTimeout = 60 * time.Second

// contextWithTimeout returns a context rooted in the command context. A
// non-positive d means no deadline.
func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(base)
	}
	return context.WithTimeout(base, d)
}
