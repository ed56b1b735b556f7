// Package chain defines the ledger-facing interfaces used by beacon and the
// helpers shared by ledger implementations.
package chain

import (
	"context"
	"math/big"

	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

// ErrNameNotFound is returned by NameResolver when a name has no record.
var ErrNameNotFound = beaconerr.ErrNameNotFound

// BalanceReader provides balance querying capabilities.
type BalanceReader interface {
	// Balance retrieves the native balance for an address in the smallest
	// unit (nanotons).
	Balance(ctx context.Context, address string) (*big.Int, error)
}

// NameResolver looks up human-readable names.
type NameResolver interface {
	// ResolveName returns the record stored for name, or ErrNameNotFound.
	ResolveName(ctx context.Context, name string) (*NameRecord, error)
}

// Ledger is a connection to the ledger bound to one wallet.
type Ledger interface {
	BalanceReader
	NameResolver

	// Address returns the wallet address the connection is bound to.
	Address() string

	// Close releases the connection.
	Close() error
}

// Pointer is one target stored in a name record.
type Pointer struct {
	Key string `json:"key"` // Record kind, e.g. "wallet"
	ID  string `json:"id"`  // Target address
}

// NameRecord is the result of a name query.
type NameRecord struct {
	Name     string    `json:"name"`
	Pointers []Pointer `json:"pointers"`
}

// FirstPointer returns the ID of the first pointer, or "" when there is none.
func (r *NameRecord) FirstPointer() string {
	if r == nil || len(r.Pointers) == 0 {
		return ""
	}
	return r.Pointers[0].ID
}
