// Package batch holds small collection helpers for processing names and
// numeric ranges without letting one bad element abort the whole batch.
package batch

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"

	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

// MaxRangeLen bounds how many integers Range will materialize.
const MaxRangeLen = 1 << 24

// Logger receives per-item failures.
type Logger interface {
	Error(format string, args ...any)
}

// Range returns the integers start..end inclusive. It is empty when end < start.
// Spans longer than MaxRangeLen fail with ErrInvalidInput.
func Range(start, end int) ([]int, error) {
	if end < start {
		return []int{}, nil
	}

	// Two's complement subtraction gives the exact distance even when
	// end-start overflows int.
	span := uint64(end) - uint64(start) //nolint:gosec // G115: wraparound is intended
	if span >= MaxRangeLen {
		return nil, beaconerr.WithDetails(beaconerr.ErrInvalidInput, map[string]string{
			"start": strconv.Itoa(start),
			"end":   strconv.Itoa(end),
			"limit": strconv.Itoa(MaxRangeLen),
		})
	}

	n := int(span) + 1
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out, nil
}

// ItemError records a skipped item.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// FoldMap applies fn to each item in order, one at a time, and concatenates
// the results. A failing item is logged and skipped; zero values are dropped.
// The second return value lists the skipped items as a *multierror.Error, or
// is nil when every item succeeded. Cancelling ctx stops the fold and returns
// the results gathered so far with ctx.Err().
func FoldMap[T any, R comparable](ctx context.Context, items []T, fn func(context.Context, T) ([]R, error), log Logger) ([]R, error) {
	var (
		zero    R
		out     = make([]R, 0, len(items))
		skipped *multierror.Error
	)

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		results, err := fn(ctx, item)
		if err != nil {
			if log != nil {
				log.Error("batch item %d skipped: %v", i, err)
			}
			skipped = multierror.Append(skipped, &ItemError{Index: i, Err: err})
			continue
		}

		for _, r := range results {
			if r != zero {
				out = append(out, r)
			}
		}
	}

	return out, skipped.ErrorOrNil()
}

// MapOne adapts a single-result function for FoldMap.
func MapOne[T, R any](fn func(context.Context, T) (R, error)) func(context.Context, T) ([]R, error) {
	return func(ctx context.Context, item T) ([]R, error) {
		r, err := fn(ctx, item)
		if err != nil {
			return nil, err
		}
		return []R{r}, nil
	}
}
