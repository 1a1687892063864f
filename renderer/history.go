package renderer

import "github.com/etnz/cryptobook"

// History renders records as a transaction table, in the given order.
func History(records []cryptobook.Record) string {
	return renderTemplate("history.md", nil, records)
}
