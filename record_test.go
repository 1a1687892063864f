package cryptobook

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/etnz/cryptobook/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestParseTxType(t *testing.T) {
	testCases := []struct {
		in      string
		want    TxType
		wantErr bool
	}{
		{"sale", TypeSale, false},
		{" Swap ", TypeSwap, false},
		{"buy_usdt_with_toman", TypeFiatPurchase, false},
		{"buy_crypto_with_usdt", TypeCryptoPurchase, false},
		{"sell", TypeSale, false},
		{"gift", "gift", true},
	}
	for _, tc := range testCases {
		got, err := ParseTxType(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseTxType(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseTxType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRecord_JSON(t *testing.T) {
	r := Record{
		ID:             "42",
		Type:           TypeFiatPurchase,
		Owner:          "hassan",
		Date:           day(time.March, 5),
		InputCurrency:  "IRR",
		OutputCurrency: "USDT",
		InputAmount:    Q(5_000_000),
		OutputAmount:   Q(100.12345678),
		Rate:           D("49000"),
		Notes:          "exchange office",
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	want := `{"id":"42","type":"fiat_to_stable_purchase","owner":"hassan","date":"2025-03-05","input_currency":"IRR","output_currency":"USDT","input_amount":5000000,"output_amount":100.12345678,"rate":49000,"notes":"exchange office"}`
	if string(data) != want {
		t.Errorf("json.Marshal() =\n%s\nwant\n%s", data, want)
	}

	var got Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(r, got, numbers); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_UnmarshalLenient(t *testing.T) {
	data := `{"id":"7","type":"buy_crypto_with_usdt","owner":"abbas","date":"2025-03-05 14:30:00","input_currency":"usdt","output_currency":"btc","input_amount":"1,250.5","output_amount":"oops","rate":null,"explicit_fee":-2,"notes":3}`
	var got Record
	if err := json.Unmarshal([]byte(data), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	want := Record{
		ID:             "7",
		Type:           TypeCryptoPurchase,
		Owner:          "abbas",
		Date:           day(time.March, 5),
		InputCurrency:  "USDT",
		OutputCurrency: "BTC",
		InputAmount:    Q(1250.5),
		OutputAmount:   Q(0),
		Rate:           decimal.Zero,
		ExplicitFee:    D("-2"),
		Notes:          "3",
	}
	if diff := cmp.Diff(want, got, numbers); diff != "" {
		t.Errorf("json.Unmarshal() mismatch (-want +got):\n%s", diff)
	}

	if err := json.Unmarshal([]byte(`{"date":"yesterday"}`), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !got.Date.IsZero() || got.Field("date") != "" {
		t.Errorf("unparsable date = %v, want the zero date", got.Date)
	}
}

func TestPatch_Apply(t *testing.T) {
	r := record(NewSale("1", day(time.April, 1), "P1", "BTC", 0.1, "USDT", 3000, 1))
	owner, cur, on := " P2 ", "eth", date.New(2025, time.April, 2)
	got := Patch{Owner: &owner, InputCurrency: &cur, Date: &on}.Apply(r)

	want := r
	want.Owner, want.InputCurrency, want.Date = "P2", "ETH", on
	if diff := cmp.Diff(want, got, numbers); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
	if !(Patch{}).IsEmpty() || (Patch{Owner: &owner}).IsEmpty() {
		t.Errorf("IsEmpty() is wrong")
	}
}

func TestFromRecord(t *testing.T) {
	for _, tx := range []Transaction{
		NewFiatPurchase("1", day(time.May, 1), "P1", "IRR", 1_000_000, "USDT", 20, 50_000),
		NewCryptoPurchase("2", day(time.May, 2), "P1", "USDT", 20, "ETH", 0.01, 0.5),
		NewSale("3", day(time.May, 3), "P1", "ETH", 0.01, "USDT", 21, 0.1),
		NewSwap("4", day(time.May, 4), "P1", "ETH", 0.01, "BTC", 0.0003, 0),
		NewTransfer("5", day(time.May, 5), "P1", "BTC", 0.0003, 0.00029),
	} {
		got, err := FromRecord(tx.Record())
		if err != nil {
			t.Fatalf("FromRecord(%s) error = %v", tx.What(), err)
		}
		if diff := cmp.Diff(tx.Record(), got.Record(), numbers); diff != "" {
			t.Errorf("FromRecord(%s) mismatch (-want +got):\n%s", tx.What(), diff)
		}
	}

	_, err := FromRecord(Record{ID: "6", Type: TypeTransfer, InputCurrency: "BTC", OutputCurrency: "ETH"})
	if !errors.Is(err, ErrUnsupportedRecord) {
		t.Errorf("FromRecord() of a cross currency transfer error = %v, want %v", err, ErrUnsupportedRecord)
	}
}
