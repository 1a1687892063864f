package date

import (
	"encoding/json"
	"testing"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParseLenient(t *testing.T) {
	testCases := []struct {
		in   string
		want Date
	}{
		{"2025-10-01", New(2025, 10, 1)},
		{"2025-7-1", New(2025, 7, 1)},
		{"2025-10-03 00:00:00", New(2025, 10, 3)},
		{"2025-10-05T13:45:00Z", New(2025, 10, 5)},
		{"2025/1/2", New(2025, 1, 2)},
		{"", Date{}},
		{"yesterday", Date{}},
		{Unparsable, Date{}},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			if got := ParseLenient(tc.in); got != tc.want {
				t.Errorf("ParseLenient(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDateJSON(t *testing.T) {
	for _, d := range []Date{New(2025, 10, 1), {}} {
		b, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("Marshal(%v) error = %v", d, err)
		}
		var got Date
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", b, err)
		}
		if got != d {
			t.Errorf("round trip of %v gave %v", d, got)
		}
	}
}

func TestZeroDateString(t *testing.T) {
	if got := (Date{}).String(); got != Unparsable {
		t.Errorf("zero date String() = %q, want %q", got, Unparsable)
	}
}
