package cryptobook

import (
	"strings"

	"github.com/etnz/cryptobook/date"
)

// Filter selects records for the transaction history. Zero fields match
// everything.
type Filter struct {
	Owner  string
	Type   TxType
	Search string // case insensitive, over notes and currencies
	Range  date.Range
}

// Match reports whether r is selected by f.
func (f Filter) Match(r Record) bool {
	if f.Owner != "" && !strings.EqualFold(f.Owner, r.Owner) {
		return false
	}
	if f.Type != "" && f.Type != r.Type {
		return false
	}
	if !f.Range.Contains(r.Date) {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		found := false
		for _, s := range []string{r.Notes, r.InputCurrency, r.OutputCurrency} {
			if strings.Contains(strings.ToLower(s), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// History returns the records selected by f, newest first.
func History(records []Record, f Filter) []Record {
	var selected []Record
	for _, r := range records {
		if f.Match(r) {
			selected = append(selected, r)
		}
	}
	SortRecords(selected)
	return selected
}
