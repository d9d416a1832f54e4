package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OptionSentinel/internal/model"
)

func TestFormatAlert(t *testing.T) {
	u := model.Underlying{Symbol: "infosys-ltd", Name: "Infosys Ltd", LastTradedPrice: decimal.NewFromInt(1666)}
	c := model.AlertCandidate{
		Symbol:       "infosys-ltd",
		ExpiryDate:   time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC),
		OptionType:   model.OptionPut,
		StrikePrice:  decimal.NewFromInt(1500),
		Premium:      decimal.NewFromInt(8000),
		OpenInterest: 600,
		DisplayName:  "Infosys 28 Oct 1500 Put",
		OptionPrice:  decimal.NewFromInt(10),
		LotQuantity:  800,
	}

	got := FormatAlert(c, u, "https://groww.in/options/infosys-ltd?expiry=2025-10-28")
	want := "🚨 Infosys Ltd LTP 1666 | Expiry 2025-10-28 | Infosys 28 Oct 1500 Put | Premium 8000 | Lot 800 | Price 10 | OI 600 | https://groww.in/options/infosys-ltd?expiry=2025-10-28"
	assert.Equal(t, want, got)
}

func TestFormatAlert_FallbacksAndEscaping(t *testing.T) {
	u := model.Underlying{Symbol: "m&m", LastTradedPrice: decimal.NewFromInt(3000)}
	c := model.AlertCandidate{
		Symbol:       "m&m",
		OptionType:   model.OptionCall,
		StrikePrice:  decimal.NewFromInt(3300),
		Premium:      decimal.NewFromInt(5000),
		OpenInterest: 70,
	}
	got := FormatAlert(c, u, "")
	assert.Contains(t, got, "m&amp;m 3300 CALL")
	assert.NotContains(t, got, "Lot")
	assert.False(t, strings.HasSuffix(got, " | "))
}

func TestBatch(t *testing.T) {
	msgs := []string{strings.Repeat("a", 40), strings.Repeat("b", 40), strings.Repeat("c", 40)}

	assert.Equal(t, []string{strings.Join(msgs, "\n\n")}, Batch(msgs, 1000))

	got := Batch(msgs, 90)
	assert.Equal(t, []string{msgs[0] + "\n\n" + msgs[1], msgs[2]}, got)
	for _, b := range got {
		assert.LessOrEqual(t, len(b), 90)
	}

	assert.Equal(t, msgs, Batch(msgs, 50))
	assert.Empty(t, Batch(nil, 100))
}

func TestBatch_OversizedMessageIsSplit(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := Batch([]string{"short", long, "tail"}, 100)
	assert.Equal(t, []string{"short", strings.Repeat("x", 100), strings.Repeat("x", 100), "tail"}, got)
}

func TestBatch_SplitKeepsEntitiesWhole(t *testing.T) {
	msg := strings.Repeat("a", 97) + "&amp;" + strings.Repeat("b", 50)
	got := Batch([]string{msg}, 100)
	require.Len(t, got, 2)
	assert.Equal(t, strings.Repeat("a", 97), got[0])
	assert.True(t, strings.HasPrefix(got[1], "&amp;"))
	assert.Equal(t, msg, strings.Join(got, ""))
}

func TestChunks_TrackMessageIndexes(t *testing.T) {
	msgs := []string{strings.Repeat("a", 40), strings.Repeat("b", 40), strings.Repeat("c", 150), strings.Repeat("d", 40)}
	got := Chunks(msgs, 90)
	require.Len(t, got, 4)
	assert.Equal(t, []int{0, 1}, got[0].Items)
	assert.Equal(t, []int{2}, got[1].Items)
	assert.Equal(t, []int{2}, got[2].Items)
	assert.Equal(t, []int{3}, got[3].Items)
	for _, c := range got {
		assert.LessOrEqual(t, len(c.Text), 90)
	}
}

func TestFormatRunSummary(t *testing.T) {
	start := time.Date(2025, 10, 20, 9, 30, 0, 0, time.UTC)
	s := &model.RunSummary{
		RunID:            uuid.New(),
		StartedAt:        start,
		FinishedAt:       start.Add(1500 * time.Millisecond),
		Symbols:          3,
		Failed:           []string{"nifty"},
		AlertsFound:      2,
		MessagesSent:     1,
		DeliveryFailures: 1,
	}
	got := FormatRunSummary(s)
	assert.Contains(t, got, "Stocks: 3 (failed 1)")
	assert.Contains(t, got, "Failed: nifty")
	assert.Contains(t, got, "Alerts: 2")
	assert.Contains(t, got, "Messages sent: 1 (failed 1)")
	assert.Contains(t, got, "Duration: 1.5s")
}
