package renderer

import (
	"slices"

	"github.com/etnz/cryptobook"
)

type dashboardDay struct {
	Date   string
	Counts []int
	Total  int
}

type dashboard struct {
	cryptobook.Dashboard
	Types []string
	Days  []dashboardDay
}

// Dashboard renders the activity overview. Recent days are listed newest
// first.
func Dashboard(d cryptobook.Dashboard) string {
	data := dashboard{Dashboard: d}
	for _, t := range cryptobook.TxTypes {
		data.Types = append(data.Types, t.Label())
	}
	for _, day := range slices.Backward(d.Recent) {
		line := dashboardDay{Date: day.Date.String(), Total: day.Total()}
		for _, t := range cryptobook.TxTypes {
			line.Counts = append(line.Counts, day.Counts[t])
		}
		data.Days = append(data.Days, line)
	}
	return renderTemplate("dashboard.md", nil, data)
}
