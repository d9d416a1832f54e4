package collector

import (
	"context"
	"fmt"

	"OptionSentinel/internal/model"
)

// Fetcher defines the interface for fetching option-chain snapshots.
// An empty expiry asks the source for its default page.
type Fetcher interface {
	Fetch(ctx context.Context, symbol, expiry string) (*model.Snapshot, error)
	Name() string
}

// FetchError wraps any network or parse failure from a Fetcher.
type FetchError struct {
	Symbol string
	Expiry string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Expiry != "" {
		return fmt.Sprintf("fetch %s (expiry %s): %v", e.Symbol, e.Expiry, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
