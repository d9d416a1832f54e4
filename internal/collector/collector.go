package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"OptionSentinel/internal/model"
)

// ExpiryMode selects which expiries of a symbol are evaluated.
type ExpiryMode string

const (
	ExpiryNearest ExpiryMode = "nearest"
	ExpiryAll     ExpiryMode = "all"
)

// Result is everything collected for one symbol.
type Result struct {
	Underlying model.Underlying
	Groups     []model.ExpiryGroup
	SourceURL  string
}

// Collector fetches a symbol's default page and then the chains of the
// expiries selected by Mode.
type Collector struct {
	Fetcher     Fetcher
	Mode        ExpiryMode
	MaxExpiries int // 0 means no cap
	Log         zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, mode ExpiryMode, maxExpiries int, log zerolog.Logger) *Collector {
	if mode == "" {
		mode = ExpiryNearest
	}
	return &Collector{Fetcher: fetcher, Mode: mode, MaxExpiries: maxExpiries, Log: log}
}

// Collect fetches the underlying and the selected expiry groups for symbol.
// A failed expiry fetch is logged and skipped; a failed default page fails the symbol.
func (c *Collector) Collect(ctx context.Context, symbol string) (*Result, error) {
	base, err := c.Fetcher.Fetch(ctx, symbol, "")
	if err != nil {
		return nil, err
	}
	log := c.Log.With().Str("symbol", symbol).Logger()
	log.Info().
		Str("name", base.Underlying.Name).
		Str("ltp", base.Underlying.LastTradedPrice.String()).
		Int("lot_size", base.Underlying.LotSize).
		Int("expiries", len(base.Expiries)).
		Msg("initialized stock data")

	res := &Result{Underlying: base.Underlying, SourceURL: base.SourceURL}
	expiries := c.selectExpiries(base.Expiries)
	if len(expiries) == 0 {
		// Source lists no expiries; the default page is the only chain we have.
		if len(base.Entries) > 0 {
			res.Groups = groupByExpiry(base.Entries)
		}
		return res, nil
	}

	for i, exp := range expiries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// The default page already carries the nearest expiry's chain.
		if i == 0 && len(base.Entries) > 0 && sameDay(exp, base.Entries[0].ExpiryDate) {
			res.Groups = append(res.Groups, model.ExpiryGroup{ExpiryDate: exp, Entries: base.Entries})
			continue
		}
		snap, err := c.Fetcher.Fetch(ctx, symbol, exp.Format(model.ExpiryLayout))
		if err != nil {
			log.Warn().Err(err).Str("expiry", exp.Format(model.ExpiryLayout)).Msg("skipping expiry")
			continue
		}
		res.Groups = append(res.Groups, model.ExpiryGroup{ExpiryDate: exp, Entries: snap.Entries})
		if snap.SourceURL != "" && res.SourceURL == "" {
			res.SourceURL = snap.SourceURL
		}
	}
	if len(res.Groups) == 0 {
		return nil, &FetchError{Symbol: symbol, Err: fmt.Errorf("no expiry chain could be fetched")}
	}
	return res, nil
}

func (c *Collector) selectExpiries(all []time.Time) []time.Time {
	if len(all) == 0 {
		return nil
	}
	switch c.Mode {
	case ExpiryAll:
		if c.MaxExpiries > 0 && len(all) > c.MaxExpiries {
			return all[:c.MaxExpiries]
		}
		return all
	default:
		return all[:1]
	}
}

func groupByExpiry(entries []model.OptionChainEntry) []model.ExpiryGroup {
	var groups []model.ExpiryGroup
	index := make(map[string]int)
	for _, e := range entries {
		key := e.ExpiryDate.Format(model.ExpiryLayout)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.ExpiryGroup{ExpiryDate: e.ExpiryDate})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

func sameDay(a, b time.Time) bool {
	return a.Format(model.ExpiryLayout) == b.Format(model.ExpiryLayout)
}
