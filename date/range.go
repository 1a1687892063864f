package date

import "fmt"

// Range represents a range of dates, boundaries included.
//
// A zero From or To leaves that side of the range open.
type Range struct{ From, To Date }

// LastDays returns the range of the n days ending on (and including) on.
func LastDays(on Date, n int) Range {
	if n < 1 {
		n = 1
	}
	return Range{From: on.Add(1 - n), To: on}
}

// Contains return true date is included in the range (boundaries included).
// The zero date is only contained in a fully open range.
func (r Range) Contains(date Date) bool {
	if date.IsZero() {
		return r.From.IsZero() && r.To.IsZero()
	}
	if !r.From.IsZero() && date.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && date.After(r.To) {
		return false
	}
	return true
}

// Days iterates over every day of a closed range, in order.
func (r Range) Days() []Date {
	if r.From.IsZero() || r.To.IsZero() {
		return nil
	}
	var days []Date
	for d := r.From; !d.After(r.To); d = d.Add(1) {
		days = append(days, d)
	}
	return days
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.From, r.To)
}
