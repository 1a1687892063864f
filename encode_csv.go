package cryptobook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// columnAliases maps the column names of older exports to Columns.
var columnAliases = map[string]string{
	"person_name":      "owner",
	"transaction_type": "type",
	"transaction_date": "date",
	"fee":              "explicit_fee",
}

// EncodeCSV writes records as CSV, with a header row of Columns.
func EncodeCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("could not write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Fields()); err != nil {
			return fmt.Errorf("could not write record %q: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeCSV reads records from CSV. The first row names the columns, in any
// order; unknown columns are ignored and missing ones read as empty. Values
// are coerced like any other record field.
func DecodeCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := columnAliases[h]; ok {
			h = alias
		}
		index[h] = i
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, ParseRecord(func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}))
	}
	return records, nil
}
