package strategy

import (
	"github.com/shopspring/decimal"

	"OptionSentinel/internal/model"
)

// SelectNearest returns the entry of the given type whose strike is closest to
// target. Equidistant strikes resolve to the lower one. ok is false when the
// chain has no entry of that type.
func SelectNearest(chain []model.OptionChainEntry, side model.OptionType, target decimal.Decimal) (best model.OptionChainEntry, ok bool) {
	var bestDist decimal.Decimal
	for _, e := range chain {
		if e.OptionType != side {
			continue
		}
		dist := e.StrikePrice.Sub(target).Abs()
		if !ok {
			best, bestDist, ok = e, dist, true
			continue
		}
		switch dist.Cmp(bestDist) {
		case -1:
			best, bestDist = e, dist
		case 0:
			if e.StrikePrice.LessThan(best.StrikePrice) {
				best = e
			}
		}
	}
	return best, ok
}

// Targets returns the put and call strike targets for an underlying price.
func Targets(ltp decimal.Decimal, th model.AlertThresholds) (put, call decimal.Decimal) {
	return ltp.Mul(th.PutTargetRatio), ltp.Mul(th.CallTargetRatio)
}
