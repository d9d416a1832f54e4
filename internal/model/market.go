package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OptionType distinguishes call and put contracts.
type OptionType string

const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// Underlying is the stock an option chain is written on.
type Underlying struct {
	Symbol          string
	Name            string
	LastTradedPrice decimal.Decimal
	LotSize         int
}

// DisplayName returns the human name, falling back to the symbol.
func (u Underlying) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Symbol
}

// OptionChainEntry is a single contract of an option chain.
type OptionChainEntry struct {
	StrikePrice  decimal.Decimal
	OptionType   OptionType
	Premium      decimal.Decimal // OptionPrice x LotQuantity
	OpenInterest int64
	ExpiryDate   time.Time

	OptionPrice decimal.Decimal
	LotQuantity int
	DisplayName string
}

// ExpiryGroup holds the chain entries for one expiry date.
type ExpiryGroup struct {
	ExpiryDate time.Time
	Entries    []OptionChainEntry
}

// Snapshot is the result of a single fetch from a data source.
type Snapshot struct {
	Underlying Underlying
	Entries    []OptionChainEntry
	Expiries   []time.Time // expiries listed by the source, ascending
	SourceURL  string
	FetchedAt  time.Time
}

// ExpiryLayout is the calendar-date format used for expiries everywhere.
const ExpiryLayout = "2006-01-02"
