package analyze

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"
	"fjacquet/ledger-import/internal/sniffer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	csvFile := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(csvFile, []byte("Date\tAmount\tDesc\n2024-01-01\t1.00\tA\n2024-01-02\t2.00\tB\n"), 0600))

	var out bytes.Buffer
	log := logging.NewMockLogger()
	require.NoError(t, Run(&out, sniffer.New(1, 0, log), csvFile, log))

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, []string{"Date", "Amount", "Desc"}, result.Headers)
	assert.Equal(t, "\t", result.DetectedDelimiter)
	assert.Len(t, result.PreviewRows, 1)
}

func TestRun_Errors(t *testing.T) {
	log := logging.NewMockLogger()
	s := sniffer.New(5, 0, log)

	err := Run(&bytes.Buffer{}, s, filepath.Join(t.TempDir(), "absent.csv"), log)
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	err = Run(&bytes.Buffer{}, s, empty, log)
	var parseErr *parsererror.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestCmd_Flags(t *testing.T) {
	flag := Cmd.Flags().Lookup("input")
	require.NotNil(t, flag)
	assert.Equal(t, "i", flag.Shorthand)
}
