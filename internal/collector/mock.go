package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"OptionSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Snapshots map[string]*model.Snapshot // keyed by "symbol" or "symbol|expiry"
	Errors    map[string]error
	Calls     []string

	mu sync.Mutex
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context, symbol, expiry string) (*model.Snapshot, error) {
	key := symbol
	if expiry != "" {
		key += "|" + expiry
	}
	m.mu.Lock()
	m.Calls = append(m.Calls, key)
	m.mu.Unlock()
	if err, ok := m.Errors[key]; ok {
		return nil, &FetchError{Symbol: symbol, Expiry: expiry, Err: err}
	}
	if s, ok := m.Snapshots[key]; ok {
		return s, nil
	}
	if m.Snapshots == nil {
		return GenerateMockSnapshot(symbol, 1000, 50), nil
	}
	return nil, &FetchError{Symbol: symbol, Expiry: expiry, Err: fmt.Errorf("no mock data")}
}

// GenerateMockSnapshot builds a chain of strikes every 2% around ltp for the
// next weekly expiry, with premiums falling off away from the money.
func GenerateMockSnapshot(symbol string, ltp float64, lotSize int) *model.Snapshot {
	expiry := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 7)
	price := decimal.NewFromFloat(ltp)
	lot := 2 * lotSize
	step := price.Mul(decimal.RequireFromString("0.02")).Round(0)
	if step.IsZero() {
		step = decimal.NewFromInt(1)
	}

	var entries []model.OptionChainEntry
	for i := -10; i <= 10; i++ {
		strike := price.Round(0).Add(step.Mul(decimal.NewFromInt(int64(i))))
		if !strike.IsPositive() {
			continue
		}
		for _, side := range []model.OptionType{model.OptionPut, model.OptionCall} {
			intrinsic := price.Sub(strike)
			if side == model.OptionPut {
				intrinsic = intrinsic.Neg()
			}
			optPrice := decimal.Max(intrinsic, decimal.Zero).Add(price.Mul(decimal.RequireFromString("0.01")))
			entries = append(entries, model.OptionChainEntry{
				StrikePrice:  strike,
				OptionType:   side,
				Premium:      optPrice.Mul(decimal.NewFromInt(int64(lot))),
				OpenInterest: int64(1000 - 80*abs(i)),
				ExpiryDate:   expiry,
				OptionPrice:  optPrice,
				LotQuantity:  lot,
				DisplayName:  fmt.Sprintf("%s %s %s", symbol, strike, side),
			})
		}
	}
	return &model.Snapshot{
		Underlying: model.Underlying{Symbol: symbol, Name: symbol, LastTradedPrice: price, LotSize: lotSize},
		Entries:    entries,
		Expiries:   []time.Time{expiry},
		SourceURL:  "mock://" + symbol,
		FetchedAt:  time.Now(),
	}
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
