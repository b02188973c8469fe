package parser

import (
	"testing"

	"fjacquet/ledger-import/internal/logging"

	"github.com/stretchr/testify/assert"
)

func TestNewBaseParser(t *testing.T) {
	logger := logging.NewMockLogger()
	base := NewBaseParser(logger)
	assert.Equal(t, logger, base.GetLogger())

	fallback := NewBaseParser(nil)
	assert.NotNil(t, fallback.GetLogger())
}

func TestBaseParser_SetLogger(t *testing.T) {
	base := NewBaseParser(logging.NewMockLogger())

	replacement := logging.NewMockLogger()
	base.SetLogger(replacement)
	assert.Equal(t, replacement, base.GetLogger())

	base.SetLogger(nil)
	assert.Equal(t, replacement, base.GetLogger())
}
