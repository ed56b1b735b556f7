package output

import (
	"fmt"
	"io"
)

// Infof writes an informational line with an info prefix.
func Infof(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, "ℹ️  "+fmt.Sprintf(format, args...))
}

// Warnf writes a warning line with a warning prefix.
func Warnf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, "⚠️  "+fmt.Sprintf(format, args...))
}

// Successf writes a success line with a success prefix.
func Successf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, "✅ "+fmt.Sprintf(format, args...))
}

// FundingRequest writes the instructions shown while waiting for funds.
func FundingRequest(w io.Writer, address, amountTON string) {
	Infof(w, "Fund wallet %s with %s TON", address, amountTON)
	_, _ = fmt.Fprintln(w, "   Waiting for the balance to reach the requested amount (Ctrl+C to stop)...")
}
