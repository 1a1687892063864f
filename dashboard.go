package cryptobook

import "github.com/etnz/cryptobook/date"

// DayActivity counts the transactions of a day per type.
type DayActivity struct {
	Date   date.Date
	Counts map[TxType]int
}

// Total returns the number of transactions of the day.
func (d DayActivity) Total() int {
	n := 0
	for _, c := range d.Counts {
		n += c
	}
	return n
}

// Dashboard gives an overview of the ledger activity.
type Dashboard struct {
	Total     int
	Purchases int // fiat and crypto purchases
	Sales     int
	Owners    int
	Recent    []DayActivity // one entry per day of the last week, oldest first
}

// DashboardDays is the number of days of recent activity.
const DashboardDays = 7

// NewDashboard computes the dashboard of records as of today.
func NewDashboard(records []Record, today date.Date) Dashboard {
	var d Dashboard
	week := date.LastDays(today, DashboardDays)
	days := make(map[date.Date]map[TxType]int)
	owners := make(map[string]struct{})
	for _, r := range records {
		d.Total++
		owners[r.Owner] = struct{}{}
		switch {
		case r.Type.IsPurchase():
			d.Purchases++
		case r.Type == TypeSale:
			d.Sales++
		}
		if r.Date.IsZero() || !week.Contains(r.Date) {
			continue
		}
		if days[r.Date] == nil {
			days[r.Date] = make(map[TxType]int)
		}
		days[r.Date][r.Type]++
	}
	d.Owners = len(owners)
	for _, on := range week.Days() {
		counts := days[on]
		if counts == nil {
			counts = map[TxType]int{}
		}
		d.Recent = append(d.Recent, DayActivity{Date: on, Counts: counts})
	}
	return d
}
