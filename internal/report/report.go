// Package report renders evaluated candidates for humans and spreadsheets.
package report

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"

	"OptionSentinel/internal/model"
)

// Row is one selected candidate in flat form.
type Row struct {
	Symbol       string `csv:"symbol"`
	Expiry       string `csv:"expiry"`
	Type         string `csv:"type"`
	Strike       string `csv:"strike"`
	Target       string `csv:"target"`
	OptionPrice  string `csv:"option_price"`
	Lot          int    `csv:"lot"`
	Premium      string `csv:"premium"`
	OpenInterest int64  `csv:"open_interest"`
	Alert        bool   `csv:"alert"`
	Reason       string `csv:"reason"`
}

// NewRow flattens a candidate; target is the strike target it was selected for.
func NewRow(c model.AlertCandidate, target string) Row {
	return Row{
		Symbol:       c.Symbol,
		Expiry:       c.ExpiryDate.Format(model.ExpiryLayout),
		Type:         string(c.OptionType),
		Strike:       c.StrikePrice.String(),
		Target:       target,
		OptionPrice:  c.OptionPrice.String(),
		Lot:          c.LotQuantity,
		Premium:      c.Premium.String(),
		OpenInterest: c.OpenInterest,
		Alert:        c.Qualified(),
		Reason:       c.Reason,
	}
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	return gocsv.Marshal(&rows, w)
}

// RenderTable prints rows as an aligned terminal table.
func RenderTable(w io.Writer, rows []Row) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Symbol", "Expiry", "Type", "Strike", "Target", "Price", "Lot", "Premium", "OI", "Alert", "Reason"})
	table.SetAutoWrapText(false)
	for _, r := range rows {
		alert := "no"
		if r.Alert {
			alert = "YES"
		}
		table.Append([]string{
			r.Symbol, r.Expiry, r.Type, r.Strike, r.Target, r.OptionPrice,
			strconv.Itoa(r.Lot), r.Premium, strconv.FormatInt(r.OpenInterest, 10), alert, r.Reason,
		})
	}
	table.Render()
}
