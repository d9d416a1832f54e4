package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"OptionSentinel/internal/model"
)

// FormatAlert renders one alert-worthy candidate as a single HTML-safe line.
func FormatAlert(c model.AlertCandidate, u model.Underlying, sourceURL string) string {
	name := c.DisplayName
	if name == "" {
		name = fmt.Sprintf("%s %s %s", c.Symbol, c.StrikePrice, c.OptionType)
	}
	parts := []string{
		fmt.Sprintf("🚨 %s LTP %s", u.DisplayName(), u.LastTradedPrice),
		"Expiry " + c.ExpiryDate.Format(model.ExpiryLayout),
		name,
		"Premium " + c.Premium.String(),
	}
	if c.LotQuantity > 0 {
		parts = append(parts, fmt.Sprintf("Lot %d", c.LotQuantity), "Price "+c.OptionPrice.String())
	}
	parts = append(parts, fmt.Sprintf("OI %d", c.OpenInterest))
	if sourceURL != "" {
		parts = append(parts, sourceURL)
	}
	return html.EscapeString(strings.Join(parts, " | "))
}

// Chunk is one outgoing message and the indexes of the messages it carries.
type Chunk struct {
	Text  string
	Items []int
}

// Chunks joins messages with a blank line into chunks of at most maxLen
// characters. A message longer than maxLen is split across chunks of its own,
// each listing that message's index.
func Chunks(messages []string, maxLen int) []Chunk {
	var out []Chunk
	var cur []string
	var items []int
	curLen := 0
	flush := func() {
		if len(cur) > 0 {
			out = append(out, Chunk{Text: strings.Join(cur, "\n\n"), Items: items})
		}
		cur, items, curLen = nil, nil, 0
	}
	for i, m := range messages {
		n := utf8.RuneCountInString(m)
		if n > maxLen {
			flush()
			for _, part := range splitMessage(m, maxLen) {
				out = append(out, Chunk{Text: part, Items: []int{i}})
			}
			continue
		}
		if len(cur) > 0 && curLen+2+n > maxLen {
			flush()
		}
		if len(cur) > 0 {
			curLen += 2
		}
		cur = append(cur, m)
		items = append(items, i)
		curLen += n
	}
	flush()
	return out
}

// Batch is Chunks without the message indexes.
func Batch(messages []string, maxLen int) []string {
	chunks := Chunks(messages, maxLen)
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.Text)
	}
	return out
}

// splitMessage cuts m into pieces of at most maxLen runes, preferring a space
// in the second half of a piece and never cutting inside an HTML entity.
func splitMessage(m string, maxLen int) []string {
	r := []rune(m)
	var parts []string
	for len(r) > maxLen {
		cut := maxLen
		if sp := lastRune(r[:cut], ' '); sp >= cut/2 {
			cut = sp + 1
		}
		if amp := lastRune(r[:cut], '&'); amp > 0 && lastRune(r[amp:cut], ';') < 0 && cut-amp < 10 {
			cut = amp
		}
		parts = append(parts, string(r[:cut]))
		r = r[cut:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}

func lastRune(r []rune, want rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == want {
			return i
		}
	}
	return -1
}

// FormatRunSummary formats a run outcome for display.
func FormatRunSummary(s *model.RunSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>OptionSentinel run</b> | %s\n\n", s.StartedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Stocks: %d (failed %d)\n", s.Symbols, len(s.Failed)))
	if len(s.Failed) > 0 {
		b.WriteString("Failed: " + html.EscapeString(strings.Join(s.Failed, ", ")) + "\n")
	}
	b.WriteString(fmt.Sprintf("Alerts: %d\n", s.AlertsFound))
	b.WriteString(fmt.Sprintf("Messages sent: %d", s.MessagesSent))
	if s.DeliveryFailures > 0 {
		b.WriteString(fmt.Sprintf(" (failed %d)", s.DeliveryFailures))
	}
	b.WriteString(fmt.Sprintf("\nDuration: %s", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond)))
	return b.String()
}
