package models

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// CellKind tags the variant held by a CellValue.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
)

func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellString:
		return "string"
	case CellNumber:
		return "number"
	default:
		return "unknown"
	}
}

var plainNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// CellValue is one parsed CSV cell. Raw always keeps the trimmed source text;
// Number is only meaningful when Kind is CellNumber.
type CellValue struct {
	Kind   CellKind
	Raw    string
	Number decimal.Decimal
}

// NewCell classifies a raw cell. Only plain decimal literals become numbers;
// anything carrying symbols, separators or exponents stays a string so that
// coercion is left to the amount and date parsers.
func NewCell(raw string) CellValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CellValue{Kind: CellEmpty}
	}
	if plainNumber.MatchString(trimmed) {
		if d, err := decimal.NewFromString(trimmed); err == nil {
			return CellValue{Kind: CellNumber, Raw: trimmed, Number: d}
		}
	}
	return CellValue{Kind: CellString, Raw: trimmed}
}

// IsEmpty reports whether the cell holds no data.
func (c CellValue) IsEmpty() bool {
	return c.Kind == CellEmpty
}

func (c CellValue) String() string {
	return c.Raw
}

// RawRecord is one data row keyed by header name.
type RawRecord struct {
	Headers []string
	Cells   map[string]CellValue
}

// NewRawRecord builds a record from a header row and the matching fields.
// Missing trailing fields become empty cells.
func NewRawRecord(headers, fields []string) RawRecord {
	cells := make(map[string]CellValue, len(headers))
	for i, h := range headers {
		var raw string
		if i < len(fields) {
			raw = fields[i]
		}
		cells[h] = NewCell(raw)
	}
	return RawRecord{Headers: headers, Cells: cells}
}

// Get returns the cell for a column, or an empty cell when the column is
// unknown or unmapped.
func (r RawRecord) Get(column string) CellValue {
	if column == "" {
		return CellValue{Kind: CellEmpty}
	}
	return r.Cells[column]
}

// RawMap returns header → raw text, used for diagnostics.
func (r RawRecord) RawMap() map[string]string {
	out := make(map[string]string, len(r.Cells))
	for _, h := range r.Headers {
		out[h] = r.Cells[h].Raw
	}
	return out
}
