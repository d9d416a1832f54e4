package strategy

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"OptionSentinel/internal/model"
)

// chainGen generates put chains with unique strikes on a 5-point grid.
func chainGen() gopter.Gen {
	return gen.SliceOfN(20, gen.IntRange(1, 400)).Map(func(steps []int) []model.OptionChainEntry {
		seen := make(map[int]bool)
		var chain []model.OptionChainEntry
		for _, s := range steps {
			if seen[s] {
				continue
			}
			seen[s] = true
			chain = append(chain, entry(model.OptionPut, decimal.NewFromInt(int64(s*5)).String(), "5000", 100))
		}
		return chain
	}).SuchThat(func(c []model.OptionChainEntry) bool { return len(c) > 0 })
}

func properties(t *testing.T) *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return gopter.NewProperties(parameters)
}

func TestProperty_NearestStrikeIsClosest(t *testing.T) {
	props := properties(t)
	props.Property("no put strike is strictly closer than the selected one", prop.ForAll(
		func(chain []model.OptionChainEntry, target int) bool {
			tgt := decimal.NewFromInt(int64(target))
			got, ok := SelectNearest(chain, model.OptionPut, tgt)
			if !ok {
				return false
			}
			best := got.StrikePrice.Sub(tgt).Abs()
			for _, e := range chain {
				dist := e.StrikePrice.Sub(tgt).Abs()
				if dist.LessThan(best) {
					return false
				}
				if dist.Equal(best) && e.StrikePrice.LessThan(got.StrikePrice) {
					return false
				}
			}
			return true
		},
		chainGen(),
		gen.IntRange(1, 2100),
	))
	props.TestingRun(t)
}

func TestProperty_OrderIndependent(t *testing.T) {
	props := properties(t)
	props.Property("reversing the chain does not change the result", prop.ForAll(
		func(chain []model.OptionChainEntry, ltp int) bool {
			reversed := make([]model.OptionChainEntry, len(chain))
			for i, e := range chain {
				reversed[len(chain)-1-i] = e
			}
			u := model.Underlying{Symbol: "x", LastTradedPrice: decimal.NewFromInt(int64(ltp))}
			a, errA := EvaluateDetailed(u, chain, model.DefaultThresholds())
			b, errB := EvaluateDetailed(u, reversed, model.DefaultThresholds())
			if errA != nil || errB != nil {
				return false
			}
			if len(a.Selected) != len(b.Selected) {
				return false
			}
			for i := range a.Selected {
				if !a.Selected[i].StrikePrice.Equal(b.Selected[i].StrikePrice) {
					return false
				}
			}
			return true
		},
		chainGen(),
		gen.IntRange(1, 2500),
	))
	props.TestingRun(t)
}

func TestProperty_AtMostOnePerSide(t *testing.T) {
	props := properties(t)
	props.Property("a put-only chain yields exactly one selected put", prop.ForAll(
		func(chain []model.OptionChainEntry, ltp int) bool {
			u := model.Underlying{Symbol: "x", LastTradedPrice: decimal.NewFromInt(int64(ltp))}
			ev, err := EvaluateDetailed(u, chain, model.DefaultThresholds())
			if err != nil {
				return false
			}
			return len(ev.Selected) == 1 && ev.Selected[0].OptionType == model.OptionPut
		},
		chainGen(),
		gen.IntRange(1, 2500),
	))
	props.TestingRun(t)
}
