package sniffer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReader records how many bytes were pulled from the source.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func bigCSV(rows int) string {
	var b strings.Builder
	b.WriteString("Date,Amount,Desc\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "01.02.2024,%d.50,Row number %d with some padding text\n", i, i)
	}
	return b.String()
}

func TestAnalyze_Comma(t *testing.T) {
	s := New(0, 0, logging.NewMockLogger())

	res, err := s.Analyze(strings.NewReader("Date,Amount,Desc\n01.02.2024,-45.50,Groceries\n02.02.2024,12.30,Coffee\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Amount", "Desc"}, res.Headers)
	assert.Equal(t, ",", res.DetectedDelimiter)
	assert.Equal(t, "utf-8", res.Encoding)
	require.Len(t, res.PreviewRows, 2)
	assert.Equal(t, map[string]string{"Date": "01.02.2024", "Amount": "-45.50", "Desc": "Groceries"}, res.PreviewRows[0])
}

func TestAnalyze_SemicolonAndTab(t *testing.T) {
	s := New(0, 0, logging.NewMockLogger())

	res, err := s.Analyze(strings.NewReader("Datum;Betrag;Text\n01.02.2024;-45,50;Lebensmittel\n"))
	require.NoError(t, err)
	assert.Equal(t, ";", res.DetectedDelimiter)
	assert.Equal(t, "-45,50", res.PreviewRows[0]["Betrag"])

	res, err = s.Analyze(strings.NewReader("Date\tAmount\tDesc\n01.02.2024\t1.00\tTea, green\n"))
	require.NoError(t, err)
	assert.Equal(t, "\t", res.DetectedDelimiter)
	assert.Equal(t, "Tea, green", res.PreviewRows[0]["Desc"])
}

func TestAnalyze_PreviewIsBounded(t *testing.T) {
	content := bigCSV(10000)
	src := &countingReader{r: strings.NewReader(content)}

	s := New(5, 4096, logging.NewMockLogger())
	res, err := s.Analyze(src)
	require.NoError(t, err)

	assert.Len(t, res.PreviewRows, 5)
	assert.Equal(t, "4.50", res.PreviewRows[4]["Amount"])
	assert.Less(t, src.n, len(content)/10, "analysis should not read the whole file")
}

func TestAnalyze_CustomPreviewCap(t *testing.T) {
	s := New(2, 0, logging.NewMockLogger())
	res, err := s.Analyze(strings.NewReader(bigCSV(50)))
	require.NoError(t, err)
	assert.Len(t, res.PreviewRows, 2)
}

func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		reason  string
	}{
		{"empty", "", "file is empty"},
		{"header only", "Date,Amount,Desc\n", "no data rows found"},
		{"binary", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR", "not a text file"},
	}

	s := New(0, 0, logging.NewMockLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Analyze(strings.NewReader(tt.content))
			require.Error(t, err)

			var parseErr *parsererror.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.reason, parseErr.Reason)
		})
	}
}

func TestAnalyze_Latin1(t *testing.T) {
	s := New(0, 0, logging.NewMockLogger())
	res, err := s.Analyze(strings.NewReader("Datum;Beschreibung\n01.02.2024;B\xe4ckerei\n"))
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", res.Encoding)
	assert.Equal(t, "Bäckerei", res.PreviewRows[0]["Beschreibung"])
}

func TestAnalyze_LogsDetection(t *testing.T) {
	logger := logging.NewMockLogger()
	s := New(0, 0, logger)

	_, err := s.Analyze(strings.NewReader("a;b\n1;2\n"))
	require.NoError(t, err)
	assert.True(t, logger.HasEntry("DEBUG", "Analyzed CSV file"))
}
