// Package parser holds the CSV plumbing shared by the sniffer and the import
// orchestrator: text decoding, delimiter detection and header/record reading.
package parser

import (
	"fjacquet/ledger-import/internal/logging"
)

// BaseParser provides the logger shared by CSV-reading components.
//
// Components should embed BaseParser to inherit common functionality:
//
//	type Sniffer struct {
//		parser.BaseParser
//		// component-specific fields
//	}
type BaseParser struct {
	logger logging.Logger
}

// NewBaseParser creates a new BaseParser instance with the provided logger.
// If logger is nil, a default logger will be used.
func NewBaseParser(logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	return BaseParser{
		logger: logger,
	}
}

// SetLogger replaces the logger. A nil logger is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}
