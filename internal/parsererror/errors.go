// Package parsererror defines the error taxonomy of the import pipeline.
// Every failure an import or analysis can produce is one of these types and
// is returned as a value; callers inspect them with errors.As.
package parsererror

import (
	"fmt"
	"strings"
)

// ParseError reports a file the sniffer could not analyze (not text, no
// data rows, unreadable CSV).
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse CSV file: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to parse CSV file: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CsvParseError reports a structurally malformed file during a full import
// parse. Line is the 1-based physical line when known, 0 otherwise.
type CsvParseError struct {
	Line   int
	Reason string
	Err    error
}

func (e *CsvParseError) Error() string {
	msg := "Failed to parse CSV file. Check format and delimiter"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *CsvParseError) Unwrap() error {
	return e.Err
}

// MissingColumnsError lists every mapped column absent from the file headers.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("Missing required columns in CSV: %s", strings.Join(e.Columns, ", "))
}

// RowLimitError is returned when a file holds more data rows than allowed.
type RowLimitError struct {
	Limit int
}

func (e *RowLimitError) Error() string {
	return fmt.Sprintf("CSV file exceeds the maximum of %d data rows", e.Limit)
}

// ConfigError collects every problem found while validating an import
// configuration.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("Configuration Error: %s", strings.Join(e.Problems, ", "))
}

// DateParseError is produced by the date parser. It never leaves the row
// transformer unwrapped.
type DateParseError struct {
	Reason   string
	Raw      string
	Template string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("Invalid date format for value '%s' using format '%s': %s", e.Raw, e.Template, e.Reason)
}

// AmountParseError is produced by the amount normalizer. It never leaves the
// row transformer unwrapped.
type AmountParseError struct {
	Raw    string
	Reason string
}

func (e *AmountParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("Invalid amount format for value '%s': %s", e.Raw, e.Reason)
	}
	return fmt.Sprintf("Invalid amount format for value '%s'", e.Raw)
}

// RowError describes one data row that could not be transformed.
type RowError struct {
	Row     int               `json:"row" csv:"row"`
	Reason  string            `json:"reason" csv:"reason"`
	RawData map[string]string `json:"rawData" csv:"-"`
	Err     error             `json:"-" csv:"-"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// RowErrorsError aggregates the row errors of a rejected batch. Errors holds
// the complete list in row order; Shown caps it for display.
type RowErrorsError struct {
	Errors []RowError
	Cap    int
}

func (e *RowErrorsError) Error() string {
	return fmt.Sprintf("Failed to process %d rows.", len(e.Errors))
}

// Total returns the number of failing rows.
func (e *RowErrorsError) Total() int {
	return len(e.Errors)
}

// Shown returns at most Cap row errors. A non-positive cap shows everything.
func (e *RowErrorsError) Shown() []RowError {
	if e.Cap <= 0 || len(e.Errors) <= e.Cap {
		return e.Errors
	}
	return e.Errors[:e.Cap]
}

// Truncated reports whether Shown drops part of the list.
func (e *RowErrorsError) Truncated() bool {
	return e.Cap > 0 && len(e.Errors) > e.Cap
}

// StorageError wraps a failure of the persistence collaborator. Its message
// is the underlying error text, unchanged.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return "storage error"
	}
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
