package cryptobook

import "testing"

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		amount, currency, want string
	}{
		{"5000000", "IRR", "5,000,000 Toman"},
		{"1234.5678", "IRR", "1,235 Toman"},
		{"0.00123400", "BTC", "0.001234 BTC"},
		{"1500", "USDT", "1,500 USDT"},
		{"0.1234567", "ETH", "0.123457 ETH"},
		{"2.5", "", "2.5"},
	}
	for _, tc := range testCases {
		if got := FormatAmount(D(tc.amount), tc.currency); got != tc.want {
			t.Errorf("FormatAmount(%s, %q) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		m    Money
		want string
	}{
		{Dollars(25750), "$25,750.00"},
		{Dollars(-4.256), "-$4.26"},
		{M(49000, "IRR"), "49,000 Toman"},
		{M(3, "XYZ"), "3.00 XYZ"},
	}
	for _, tc := range testCases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("%v.String() = %q, want %q", tc.m.Decimal(), got, tc.want)
		}
	}
}

func TestQuantity(t *testing.T) {
	if got := ParseQuantity("-3"); !got.IsZero() {
		t.Errorf("ParseQuantity(-3) = %v, want 0", got)
	}
	if got := ParseQuantity(" 1,000.5 "); !got.Equal(Q(1000.5)) {
		t.Errorf("ParseQuantity(1,000.5) = %v, want 1000.5", got)
	}
	if Q(1.000000004).Exceeds(Q(1)) {
		t.Errorf("1.000000004 exceeds 1 at 8 decimals")
	}
	if !Q(1.00000001).Exceeds(Q(1)) {
		t.Errorf("1.00000001 does not exceed 1 at 8 decimals")
	}
	if Q(1e-9).IsHeld() || !Q(2e-9).IsHeld() {
		t.Errorf("IsHeld() does not filter dust")
	}
	if got := Q(1).Div(Q(0)); !got.IsZero() {
		t.Errorf("1/0 = %v, want 0", got)
	}
}
