// Package sniffer previews an uploaded CSV file: it detects the encoding and
// delimiter, reads the header and returns a bounded number of sample rows so
// a user can build a column mapping.
package sniffer

import (
	"errors"
	"io"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parser"
	"fjacquet/ledger-import/internal/parsererror"
)

// DefaultPreviewRows is the number of data rows returned by Analyze.
const DefaultPreviewRows = 5

// Sniffer analyzes CSV uploads. It holds no per-file state and is safe for
// concurrent use.
type Sniffer struct {
	parser.BaseParser
	previewRows int
	sniffBytes  int
}

// New creates a Sniffer. Non-positive limits fall back to the defaults.
func New(previewRows, sniffBytes int, logger logging.Logger) *Sniffer {
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}
	if sniffBytes <= 0 {
		sniffBytes = parser.DefaultSniffBytes
	}
	return &Sniffer{
		BaseParser:  parser.NewBaseParser(logger),
		previewRows: previewRows,
		sniffBytes:  sniffBytes,
	}
}

// Analyze reads only the header and the first preview rows of r, so its cost
// does not depend on the size of the file. It fails with
// *parsererror.ParseError when the content is not text or has no data rows.
func (s *Sniffer) Analyze(r io.Reader) (*models.AnalysisResult, error) {
	text, err := parser.Decode(r, s.sniffBytes)
	if err != nil {
		return nil, err
	}

	delim := parser.DetectDelimiter(text.Sample)
	cr := parser.NewCSVReader(text.Reader, delim, false)

	headers, err := parser.ReadHeader(cr)
	if errors.Is(err, io.EOF) {
		return nil, &parsererror.ParseError{Reason: "file is empty"}
	}
	if err != nil {
		return nil, &parsererror.ParseError{Reason: "could not read header", Err: err}
	}

	preview := make([]map[string]string, 0, s.previewRows)
	for len(preview) < s.previewRows {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &parsererror.ParseError{Reason: "could not read rows", Err: err}
		}
		preview = append(preview, parser.RowMap(headers, record))
	}
	if len(preview) == 0 {
		return nil, &parsererror.ParseError{Reason: "no data rows found"}
	}

	s.GetLogger().Debug("Analyzed CSV file",
		logging.Field{Key: logging.FieldDelimiter, Value: parser.DelimiterName(delim)},
		logging.Field{Key: logging.FieldEncoding, Value: text.Encoding},
		logging.Field{Key: logging.FieldColumns, Value: len(headers)},
		logging.Field{Key: logging.FieldCount, Value: len(preview)})

	return &models.AnalysisResult{
		Headers:           headers,
		PreviewRows:       preview,
		DetectedDelimiter: string(delim),
		Encoding:          text.Encoding,
	}, nil
}
