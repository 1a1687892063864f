package cryptobook

import (
	"math"
	"testing"
)

func TestObjectWriter(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *objectWriter)
		want  string
	}{
		{"empty", func(w *objectWriter) {}, `{}`},
		{"insertion order", func(w *objectWriter) {
			w.field("to", "USDT")
			w.field("from", "BTC")
		}, `{"to":"USDT","from":"BTC"}`},
		{"zero values", func(w *objectWriter) {
			w.field("amount", Q(0))
			w.omitZero("rate", D("0.000"))
			w.omitZero("notes", "")
			w.omitZero("received", Q(0))
			w.omitZero("fee", D("1.50"))
		}, `{"amount":0,"fee":1.5}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var w objectWriter
			tc.write(&w)
			got, err := w.bytes()
			if err != nil {
				t.Fatalf("bytes() error = %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("bytes() = %s, want %s", got, tc.want)
			}
		})
	}

	var w objectWriter
	w.field("price", math.Inf(1))
	w.field("asset", "BTC")
	if _, err := w.bytes(); err == nil {
		t.Errorf("bytes() after an unmarshalable value succeeded")
	}
}
