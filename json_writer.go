package cryptobook

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// objectWriter writes a JSON object whose keys keep the order they were
// added in. Its zero value is ready to use.
type objectWriter struct {
	buf bytes.Buffer
	err error
}

// field adds key with its value marshaled by json.Marshal.
func (w *objectWriter) field(key string, value any) {
	if w.err != nil {
		return
	}
	k, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %q: %w", key, err)
		return
	}
	if w.buf.Len() == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(v)
}

// omitZero adds key unless value is an empty string or a zero number.
func (w *objectWriter) omitZero(key string, value any) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return
		}
	case decimal.Decimal:
		if v.IsZero() {
			return
		}
	case Quantity:
		if v.IsZero() {
			return
		}
	}
	w.field(key, value)
}

// bytes returns the complete object.
func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.buf.Len() == 0 {
		return []byte("{}"), nil
	}
	return append(w.buf.Bytes(), '}'), nil
}
