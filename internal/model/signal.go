package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertThresholds configures strike targets and the alert gate.
type AlertThresholds struct {
	MinPremium      decimal.Decimal
	MinOpenInterest int64
	PutTargetRatio  decimal.Decimal
	CallTargetRatio decimal.Decimal
}

// DefaultThresholds returns 4000 premium, 50 OI, 0.9 put and 1.1 call ratios.
func DefaultThresholds() AlertThresholds {
	return AlertThresholds{
		MinPremium:      decimal.NewFromInt(4000),
		MinOpenInterest: 50,
		PutTargetRatio:  decimal.RequireFromString("0.9"),
		CallTargetRatio: decimal.RequireFromString("1.1"),
	}
}

// AlertCandidate is the nearest-strike contract selected for one side.
type AlertCandidate struct {
	Symbol       string
	ExpiryDate   time.Time
	OptionType   OptionType
	StrikePrice  decimal.Decimal
	Premium      decimal.Decimal
	OpenInterest int64

	DisplayName string
	OptionPrice decimal.Decimal
	LotQuantity int
	Reason      string // empty when the candidate qualifies
}

// Qualified reports whether the candidate cleared the thresholds.
func (c AlertCandidate) Qualified() bool { return c.Reason == "" }

// Evaluation is the detailed result for one chain.
type Evaluation struct {
	Selected []AlertCandidate // every nearest-strike candidate, PUT first
	Alerts   []AlertCandidate // the qualifying subset, PUT first
}
