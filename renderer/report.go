package renderer

import (
	"github.com/etnz/cryptobook"
	"github.com/etnz/cryptobook/date"
)

type report struct {
	Date date.Date
	cryptobook.Analysis
}

// Report renders the full analysis computed on a given day. A zero date is
// omitted.
func Report(a cryptobook.Analysis, on date.Date) string {
	partials := []string{
		"report_owners.md",
		"report_positions.md",
		"report_exchange.md",
		"report_realized.md",
		"report_fees.md",
	}
	return renderTemplate("report.md", partials, report{Date: on, Analysis: a})
}

// Balances renders the holdings of every owner.
func Balances(lines []cryptobook.Holding) string {
	return renderTemplate("balances.md", nil, lines)
}
