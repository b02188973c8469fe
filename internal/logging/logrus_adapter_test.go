package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{"debug level with text format", "debug", "text", logrus.DebugLevel},
		{"info level with json format", "info", "json", logrus.InfoLevel},
		{"upper-case level", "WARN", "text", logrus.WarnLevel},
		{"invalid level defaults to info", "loud", "text", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogrusAdapterWithWriter(&buf, tt.level, tt.format)

			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func TestLogrusAdapter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithWriter(&buf, "debug", "json")

	logger.WithField(FieldAccount, "acc-1").
		WithError(errors.New("disk full")).
		Error("bulk insert failed", F(FieldCount, 2))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "bulk insert failed", decoded["msg"])
	assert.Equal(t, "error", decoded["level"])
	assert.Equal(t, "acc-1", decoded[FieldAccount])
	assert.Equal(t, "disk full", decoded["error"])
	assert.EqualValues(t, 2, decoded[FieldCount])
}

func TestLogrusAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithWriter(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Debug("hidden too")
	assert.Empty(t, buf.String())

	logger.Warn("shown", F(FieldRow, 3))
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "row=3")
}

func TestConvertFields(t *testing.T) {
	fields := []Field{
		{Key: "key1", Value: "value1"},
		{Key: "key2", Value: 42},
	}

	logrusFields := convertFields(fields)

	assert.Len(t, logrusFields, 2)
	assert.Equal(t, "value1", logrusFields["key1"])
	assert.Equal(t, 42, logrusFields["key2"])
	assert.Empty(t, convertFields(nil))
}

func TestMockLogger_SharesEntriesWithChildren(t *testing.T) {
	m := NewMockLogger()
	child := m.WithField("component", "importer")
	child.Info("started")
	m.Warn("parent warning")

	entries := m.GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "started", entries[0].Message)
	assert.Equal(t, []Field{{Key: "component", Value: "importer"}}, entries[0].Fields)
	assert.True(t, m.HasEntry("WARN", "parent warning"))
	assert.Len(t, m.GetEntriesByLevel("INFO"), 1)
}
