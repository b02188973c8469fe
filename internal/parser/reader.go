package parser

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// NewCSVReader returns a reader over decoded text. A strict reader requires
// every record to have the header's field count and well-formed quotes.
func NewCSVReader(r io.Reader, delim rune, strict bool) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delim
	if strict {
		cr.FieldsPerRecord = 0
	} else {
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
	}
	return cr
}

// ReadHeader reads the first record and returns its trimmed column names.
// io.EOF is returned unchanged for empty input.
func ReadHeader(cr *csv.Reader) ([]string, error) {
	record, err := cr.Read()
	if err != nil {
		return nil, err
	}
	headers := make([]string, len(record))
	for i, h := range record {
		headers[i] = strings.TrimSpace(h)
	}
	return headers, nil
}

// DuplicateHeaders lists column names occurring more than once, in first
// occurrence order.
func DuplicateHeaders(headers []string) []string {
	seen := make(map[string]int, len(headers))
	var dups []string
	for _, h := range headers {
		seen[h]++
		if seen[h] == 2 {
			dups = append(dups, h)
		}
	}
	return dups
}

// RowMap pairs a record with its headers. Missing trailing fields map to "".
func RowMap(headers, record []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(record) {
			row[h] = record[i]
		} else {
			row[h] = ""
		}
	}
	return row
}

// ErrorLine extracts the 1-based input line from a csv.ParseError, or 0.
func ErrorLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Line
	}
	return 0
}
