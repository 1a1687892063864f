package cryptobook

import (
	"testing"
	"time"

	"github.com/etnz/cryptobook/date"
)

func TestHistory(t *testing.T) {
	r := func(id, owner string, typ TxType, on date.Date, in, out, notes string) Record {
		return Record{ID: id, Owner: owner, Type: typ, Date: on, InputCurrency: in, OutputCurrency: out, Notes: notes}
	}
	records := []Record{
		r("1", "hassan", TypeFiatPurchase, day(time.July, 1), "IRR", "USDT", ""),
		r("2", "hassan", TypeCryptoPurchase, day(time.July, 2), "USDT", "BTC", "dip"),
		r("3", "abbas", TypeSale, day(time.July, 3), "ETH", "USDT", "Profit taking"),
		r("4", "abbas", TypeTransfer, date.Date{}, "USDT", "USDT", ""),
	}

	testCases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"everything, newest first", Filter{}, []string{"3", "2", "1", "4"}},
		{"owner", Filter{Owner: "Hassan"}, []string{"2", "1"}},
		{"type", Filter{Type: TypeSale}, []string{"3"}},
		{"search in notes", Filter{Search: "profit"}, []string{"3"}},
		{"search in currencies", Filter{Search: "btc"}, []string{"2"}},
		{"range", Filter{Range: date.Range{From: day(time.July, 2)}}, []string{"3", "2"}},
		{"nothing", Filter{Owner: "nobody"}, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, r := range History(records, tc.filter) {
				got = append(got, r.ID)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("History() = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("History() = %v, want %v", got, tc.want)
					break
				}
			}
		})
	}
}
