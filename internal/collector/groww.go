package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"OptionSentinel/internal/model"
)

// GrowwFetcher implements Fetcher by reading the JSON that Groww embeds in its
// option-chain pages.
type GrowwFetcher struct {
	BaseURL string
	Client  *http.Client
	// LotQuantity returns the premium lot size for a symbol; 0 means 2x the exchange lot.
	LotQuantity func(symbol string) int
}

// NewGrowwFetcher creates a new fetcher with optional proxy support.
func NewGrowwFetcher(baseURL, proxyURL string, timeout time.Duration) *GrowwFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &GrowwFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *GrowwFetcher) Name() string { return "groww" }

// growwPage is the subset of __NEXT_DATA__ we read.
type growwPage struct {
	Props struct {
		PageProps struct {
			Data struct {
				Company struct {
					Name     string `json:"name"`
					LiveData struct {
						LTP float64 `json:"ltp"`
					} `json:"liveData"`
				} `json:"company"`
				OptionChain struct {
					AggregatedDetails struct {
						LotSize     int      `json:"lotSize"`
						ExpiryDates []string `json:"expiryDates"`
					} `json:"aggregatedDetails"`
					OptionContracts []growwContract `json:"optionContracts"`
				} `json:"optionChain"`
			} `json:"data"`
		} `json:"pageProps"`
	} `json:"props"`
}

type growwContract struct {
	StrikePrice float64   `json:"strikePrice"` // x100
	CE          *growwLeg `json:"ce"`
	PE          *growwLeg `json:"pe"`
}

type growwLeg struct {
	LongDisplayName string `json:"longDisplayName"`
	LiveData        struct {
		LTP float64 `json:"ltp"`
		OI  float64 `json:"oi"`
	} `json:"liveData"`
}

// PageURL returns the option-chain page for a symbol and optional expiry.
func (f *GrowwFetcher) PageURL(symbol, expiry string) string {
	u := f.BaseURL + "/" + url.PathEscape(symbol)
	if expiry != "" {
		u += "?expiry=" + url.QueryEscape(expiry)
	}
	return u
}

func (f *GrowwFetcher) Fetch(ctx context.Context, symbol, expiry string) (*model.Snapshot, error) {
	pageURL := f.PageURL(symbol, expiry)
	snap, err := f.fetch(ctx, symbol, expiry, pageURL)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Expiry: expiry, Err: err}
	}
	return snap, nil
}

func (f *GrowwFetcher) fetch(ctx context.Context, symbol, expiry, pageURL string) (*model.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("groww request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("groww: status %d, body: %s", resp.StatusCode, string(body))
	}

	raw, err := extractNextData(resp.Body)
	if err != nil {
		return nil, err
	}
	var page growwPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("groww decode: %w", err)
	}
	return f.toSnapshot(symbol, expiry, pageURL, &page)
}

// extractNextData returns the body of <script id="__NEXT_DATA__">.
func extractNextData(r io.Reader) ([]byte, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("groww parse html: %w", err)
	}
	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" {
			for _, a := range n.Attr {
				if a.Key == "id" && a.Val == "__NEXT_DATA__" {
					found = n
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if found == nil || found.FirstChild == nil {
		return nil, errors.New("groww: __NEXT_DATA__ script not found")
	}
	return []byte(found.FirstChild.Data), nil
}

func (f *GrowwFetcher) toSnapshot(symbol, expiry, pageURL string, page *growwPage) (*model.Snapshot, error) {
	data := page.Props.PageProps.Data
	if data.Company.LiveData.LTP == 0 && data.Company.Name == "" {
		return nil, errors.New("groww: company data missing")
	}

	under := model.Underlying{
		Symbol:          symbol,
		Name:            data.Company.Name,
		LastTradedPrice: decimal.NewFromFloat(data.Company.LiveData.LTP),
		LotSize:         data.OptionChain.AggregatedDetails.LotSize,
	}

	var expiries []time.Time
	for _, s := range data.OptionChain.AggregatedDetails.ExpiryDates {
		t, err := time.Parse(model.ExpiryLayout, s)
		if err != nil {
			return nil, fmt.Errorf("groww: bad expiry %q: %w", s, err)
		}
		expiries = append(expiries, t)
	}
	sort.Slice(expiries, func(i, j int) bool { return expiries[i].Before(expiries[j]) })

	// Contracts belong to the requested expiry, or the nearest one on the default page.
	var chainExpiry time.Time
	if expiry != "" {
		t, err := time.Parse(model.ExpiryLayout, expiry)
		if err != nil {
			return nil, fmt.Errorf("groww: bad expiry %q: %w", expiry, err)
		}
		chainExpiry = t
	} else if len(expiries) > 0 {
		chainExpiry = expiries[0]
	}

	lot := 0
	if f.LotQuantity != nil {
		lot = f.LotQuantity(symbol)
	}
	if lot <= 0 {
		lot = 2 * under.LotSize
	}

	entries := make([]model.OptionChainEntry, 0, 2*len(data.OptionChain.OptionContracts))
	for _, c := range data.OptionChain.OptionContracts {
		strike := decimal.NewFromFloat(c.StrikePrice).Div(decimal.NewFromInt(100))
		if c.PE != nil {
			entries = append(entries, legEntry(c.PE, model.OptionPut, strike, chainExpiry, lot))
		}
		if c.CE != nil {
			entries = append(entries, legEntry(c.CE, model.OptionCall, strike, chainExpiry, lot))
		}
	}

	return &model.Snapshot{
		Underlying: under,
		Entries:    entries,
		Expiries:   expiries,
		SourceURL:  pageURL,
		FetchedAt:  time.Now(),
	}, nil
}

func legEntry(leg *growwLeg, side model.OptionType, strike decimal.Decimal, expiry time.Time, lot int) model.OptionChainEntry {
	price := decimal.NewFromFloat(leg.LiveData.LTP)
	return model.OptionChainEntry{
		StrikePrice:  strike,
		OptionType:   side,
		Premium:      price.Mul(decimal.NewFromInt(int64(lot))),
		OpenInterest: int64(leg.LiveData.OI),
		ExpiryDate:   expiry,
		OptionPrice:  price,
		LotQuantity:  lot,
		DisplayName:  leg.LongDisplayName,
	}
}
