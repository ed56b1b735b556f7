package wallet

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/beacon/internal/chain"
)

// ResolveNames queries every name concurrently and returns the first pointer
// address of each record found. Names without a record or without pointers
// contribute nothing. Any other query error cancels the batch and is returned
// unchanged. Result order is not guaranteed.
func (s *Service) ResolveNames(ctx context.Context, names []string) ([]string, error) {
	ledger, err := s.handle()
	if err != nil {
		return nil, err
	}

	found := make([]string, len(names))
	g, gctx := errgroup.WithContext(ctx)

	for i, name := range names {
		g.Go(func() error {
			record, err := ledger.ResolveName(gctx, name)
			if errors.Is(err, chain.ErrNameNotFound) {
				s.logger.Debug("name %q not found", name)
				return nil
			}
			if err != nil {
				return err
			}
			found[i] = record.FirstPointer()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(found))
	for _, addr := range found {
		if addr != "" {
			out = append(out, addr)
		}
	}
	s.metrics.RecordResolved(len(out))
	return out, nil
}
