// Package wallet provides the beacon wallet facade: a connect-once ledger
// handle bound to one key pair, funding waits and batch name resolution.
package wallet

import (
	"io"
	"math/big"
)

// LogWriter provides logging capabilities.
type LogWriter interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// QRRenderer draws data as a scannable code on w.
type QRRenderer func(w io.Writer, data string) error

// FundingNotifier is told which address needs how many nanotons.
type FundingNotifier func(address string, amount *big.Int)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
