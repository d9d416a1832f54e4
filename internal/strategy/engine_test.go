package strategy

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OptionSentinel/internal/model"
)

var expiry = time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func entry(side model.OptionType, strike, premium string, oi int64) model.OptionChainEntry {
	return model.OptionChainEntry{
		StrikePrice:  d(strike),
		OptionType:   side,
		Premium:      d(premium),
		OpenInterest: oi,
		ExpiryDate:   expiry,
	}
}

func underlying(ltp string) model.Underlying {
	return model.Underlying{Symbol: "infosys-ltd", LastTradedPrice: d(ltp)}
}

func TestEvaluate_EndToEndExample(t *testing.T) {
	chain := []model.OptionChainEntry{
		entry(model.OptionPut, "1500", "8000", 600),
		entry(model.OptionCall, "1800", "100", 10),
	}
	ev, err := EvaluateDetailed(underlying("1666"), chain, model.DefaultThresholds())
	require.NoError(t, err)

	require.Len(t, ev.Selected, 2)
	assert.Equal(t, model.OptionCall, ev.Selected[1].OptionType)
	assert.True(t, ev.Selected[1].StrikePrice.Equal(d("1800")))
	assert.Contains(t, ev.Selected[1].Reason, "premium")

	require.Len(t, ev.Alerts, 1)
	a := ev.Alerts[0]
	assert.Equal(t, model.OptionPut, a.OptionType)
	assert.True(t, a.StrikePrice.Equal(d("1500")))
	assert.True(t, a.Premium.Equal(d("8000")))
	assert.EqualValues(t, 600, a.OpenInterest)
	assert.Equal(t, "infosys-ltd", a.Symbol)
	assert.Equal(t, expiry, a.ExpiryDate)
}

func TestTargets_Exact(t *testing.T) {
	put, call := Targets(d("1666"), model.DefaultThresholds())
	assert.True(t, put.Equal(d("1499.4")), "put target %s", put)
	assert.True(t, call.Equal(d("1832.6")), "call target %s", call)
}

func TestSelectNearest(t *testing.T) {
	chain := []model.OptionChainEntry{
		entry(model.OptionPut, "1400", "1", 1),
		entry(model.OptionPut, "1450", "1", 1),
		entry(model.OptionPut, "1500", "1", 1),
		entry(model.OptionPut, "1550", "1", 1),
		entry(model.OptionCall, "1495", "1", 1),
	}
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"exact", "1450", "1450"},
		{"between closer upper", "1490", "1500"},
		{"between closer lower", "1460", "1450"},
		{"tie picks lower", "1475", "1450"},
		{"below range", "100", "1400"},
		{"above range", "9000", "1550"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectNearest(chain, model.OptionPut, d(tt.target))
			require.True(t, ok)
			assert.True(t, got.StrikePrice.Equal(d(tt.want)), "target %s: got %s, want %s", tt.target, got.StrikePrice, tt.want)
			assert.Equal(t, model.OptionPut, got.OptionType)
		})
	}
}

func TestSelectNearest_TieIndependentOfOrder(t *testing.T) {
	lower := entry(model.OptionPut, "95", "1", 1)
	upper := entry(model.OptionPut, "105", "1", 1)

	for _, chain := range [][]model.OptionChainEntry{{lower, upper}, {upper, lower}} {
		got, ok := SelectNearest(chain, model.OptionPut, d("100"))
		require.True(t, ok)
		assert.True(t, got.StrikePrice.Equal(d("95")))
	}
}

func TestEvaluate_ThresholdBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		premium string
		oi      int64
		alert   bool
	}{
		{"premium equal", "4000", 600, false},
		{"premium just above", "4000.01", 600, true},
		{"premium plus one", "4001", 51, true},
		{"oi equal", "8000", 50, false},
		{"oi above", "8000", 51, true},
		{"both equal", "4000", 50, false},
		{"zero", "0", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := []model.OptionChainEntry{entry(model.OptionPut, "900", tt.premium, tt.oi)}
			got, err := Evaluate(underlying("1000"), chain, model.DefaultThresholds())
			require.NoError(t, err)
			if tt.alert {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestEvaluate_OnlyCalls(t *testing.T) {
	chain := []model.OptionChainEntry{
		entry(model.OptionCall, "1100", "9000", 100),
		entry(model.OptionCall, "1200", "9000", 100),
	}
	ev, err := EvaluateDetailed(underlying("1000"), chain, model.DefaultThresholds())
	require.NoError(t, err)
	require.Len(t, ev.Selected, 1)
	assert.Equal(t, model.OptionCall, ev.Selected[0].OptionType)
	for _, c := range ev.Alerts {
		assert.NotEqual(t, model.OptionPut, c.OptionType)
	}
}

func TestEvaluate_BothSidesOrder(t *testing.T) {
	chain := []model.OptionChainEntry{
		entry(model.OptionCall, "1100", "5000", 100),
		entry(model.OptionPut, "900", "5000", 100),
	}
	got, err := Evaluate(underlying("1000"), chain, model.DefaultThresholds())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.OptionPut, got[0].OptionType)
	assert.Equal(t, model.OptionCall, got[1].OptionType)
}

func TestEvaluate_InvalidInput(t *testing.T) {
	chain := []model.OptionChainEntry{entry(model.OptionPut, "900", "5000", 100)}
	tests := []struct {
		name  string
		ltp   string
		chain []model.OptionChainEntry
	}{
		{"zero price", "0", chain},
		{"negative price", "-5", chain},
		{"empty chain", "1000", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(underlying(tt.ltp), tt.chain, model.DefaultThresholds())
			assert.Nil(t, got)
			var inv *InvalidInputError
			require.True(t, errors.As(err, &inv), "expected InvalidInputError, got %v", err)
			assert.Equal(t, "infosys-ltd", inv.Symbol)
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	chain := []model.OptionChainEntry{
		entry(model.OptionPut, "1500", "8000", 600),
		entry(model.OptionPut, "1450", "9000", 700),
		entry(model.OptionCall, "1800", "4500", 60),
		entry(model.OptionCall, "1850", "100", 10),
	}
	th := model.DefaultThresholds()
	first, err := EvaluateDetailed(underlying("1666"), chain, th)
	require.NoError(t, err)
	second, err := EvaluateDetailed(underlying("1666"), chain, th)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEvaluate_CustomRatios(t *testing.T) {
	th := model.DefaultThresholds()
	th.PutTargetRatio = d("0.905")
	th.CallTargetRatio = d("1.095")
	chain := []model.OptionChainEntry{
		entry(model.OptionPut, "900", "5000", 100),
		entry(model.OptionPut, "910", "5000", 100),
		entry(model.OptionCall, "1090", "5000", 100),
		entry(model.OptionCall, "1100", "5000", 100),
	}
	ev, err := EvaluateDetailed(underlying("1000"), chain, th)
	require.NoError(t, err)
	require.Len(t, ev.Selected, 2)
	// 905 and 1095 are ties; both resolve to the lower strike.
	assert.True(t, ev.Selected[0].StrikePrice.Equal(d("900")))
	assert.True(t, ev.Selected[1].StrikePrice.Equal(d("1090")))
}
