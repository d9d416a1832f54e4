package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"OptionSentinel/internal/model"
)

// Evaluate selects the nearest PUT and CALL strikes for the chain and returns
// the candidates that clear the thresholds, PUT first.
func Evaluate(u model.Underlying, chain []model.OptionChainEntry, th model.AlertThresholds) ([]model.AlertCandidate, error) {
	ev, err := EvaluateDetailed(u, chain, th)
	if err != nil {
		return nil, err
	}
	return ev.Alerts, nil
}

// EvaluateDetailed is Evaluate that also returns rejected candidates with the
// reason they were dropped.
func EvaluateDetailed(u model.Underlying, chain []model.OptionChainEntry, th model.AlertThresholds) (*model.Evaluation, error) {
	if !u.LastTradedPrice.IsPositive() {
		return nil, &InvalidInputError{Symbol: u.Symbol, Reason: fmt.Sprintf("last traded price %s is not positive", u.LastTradedPrice)}
	}
	if len(chain) == 0 {
		return nil, &InvalidInputError{Symbol: u.Symbol, Reason: "empty option chain"}
	}

	putTarget, callTarget := Targets(u.LastTradedPrice, th)
	sides := []struct {
		side   model.OptionType
		target decimal.Decimal
	}{
		{model.OptionPut, putTarget},
		{model.OptionCall, callTarget},
	}

	ev := &model.Evaluation{Selected: []model.AlertCandidate{}, Alerts: []model.AlertCandidate{}}
	for _, s := range sides {
		entry, ok := SelectNearest(chain, s.side, s.target)
		if !ok {
			continue
		}
		c := newCandidate(u.Symbol, entry)
		c.Reason = rejectReason(entry, th)
		ev.Selected = append(ev.Selected, c)
		if c.Qualified() {
			ev.Alerts = append(ev.Alerts, c)
		}
	}
	return ev, nil
}

func newCandidate(symbol string, e model.OptionChainEntry) model.AlertCandidate {
	return model.AlertCandidate{
		Symbol:       symbol,
		ExpiryDate:   e.ExpiryDate,
		OptionType:   e.OptionType,
		StrikePrice:  e.StrikePrice,
		Premium:      e.Premium,
		OpenInterest: e.OpenInterest,
		DisplayName:  e.DisplayName,
		OptionPrice:  e.OptionPrice,
		LotQuantity:  e.LotQuantity,
	}
}

// rejectReason returns "" when both premium and OI strictly exceed their minimums.
func rejectReason(e model.OptionChainEntry, th model.AlertThresholds) string {
	if !e.Premium.GreaterThan(th.MinPremium) {
		return fmt.Sprintf("premium %s <= %s", e.Premium, th.MinPremium)
	}
	if e.OpenInterest <= th.MinOpenInterest {
		return fmt.Sprintf("open interest %d <= %d", e.OpenInterest, th.MinOpenInterest)
	}
	return ""
}
