package dateutils

import (
	"errors"
	"testing"
	"time"

	"fjacquet/ledger-import/internal/parsererror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWithTemplate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		template string
		want     time.Time
	}{
		{"european dotted", "15.01.2024", "DD.MM.YYYY", date(2024, 1, 15)},
		{"us slashed", "01/15/2024", "MM/DD/YYYY", date(2024, 1, 15)},
		{"iso", "2024-01-15", "YYYY-MM-DD", date(2024, 1, 15)},
		{"single digit parts", "5.3.2024", "D.M.YYYY", date(2024, 3, 5)},
		{"lower case template", "2024-03-05", "yyyy-mm-dd", date(2024, 3, 5)},
		{"compact", "20240305", "YYYYMMDD", date(2024, 3, 5)},
		{"surrounding spaces", " 15.01.2024 ", "DD.MM.YYYY", date(2024, 1, 15)},
		{"leap day", "29.02.2024", "DD.MM.YYYY", date(2024, 2, 29)},
		{"separator differs from template", "15/01/2024", "DD.MM.YYYY", date(2024, 1, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWithTemplate(tt.raw, tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseWithTemplate_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		template string
	}{
		{"empty", "", "DD.MM.YYYY"},
		{"wrong part count", "15.01", "DD.MM.YYYY"},
		{"text month", "15.Jan.2024", "DD.MM.YYYY"},
		{"month overflow", "15.13.2024", "DD.MM.YYYY"},
		{"april 31", "31.04.2024", "DD.MM.YYYY"},
		{"feb 29 non leap", "29.02.2023", "DD.MM.YYYY"},
		{"day zero", "00.01.2024", "DD.MM.YYYY"},
		{"year too small", "15.01.1899", "DD.MM.YYYY"},
		{"year too large", "15.01.2101", "DD.MM.YYYY"},
		{"two digit year", "15.01.24", "DD.MM.YYYY"},
		{"compact wrong length", "2024035", "YYYYMMDD"},
		{"invalid template", "2024-01-15", "YYYY-QQ-DD"},
		{"time suffix", "2024-01-15 10:30", "YYYY-MM-DD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWithTemplate(tt.raw, tt.template)
			require.Error(t, err)

			var dateErr *parsererror.DateParseError
			require.True(t, errors.As(err, &dateErr))
			assert.Equal(t, tt.raw, dateErr.Raw)
			assert.Equal(t, tt.template, dateErr.Template)
			assert.Contains(t, err.Error(), "Invalid date format for value")
		})
	}
}

func TestValidateTemplate(t *testing.T) {
	for _, ok := range []string{"DD.MM.YYYY", "MM/DD/YYYY", "YYYY-MM-DD", "D/M/YYYY", "YYYYMMDD", "DD MM YYYY"} {
		assert.NoError(t, ValidateTemplate(ok), ok)
	}
	for _, bad := range []string{"", "DD.MM", "DD.MM.YY", "DD.MMM.YYYY", "DD.MM.YYYY.DD", "HH:MM", "DD-MM-YYYYx"} {
		assert.Error(t, ValidateTemplate(bad), bad)
	}
}

func TestFormatWithTemplate_RoundTrip(t *testing.T) {
	templates := []string{"DD.MM.YYYY", "MM/DD/YYYY", "YYYY-MM-DD", "YYYYMMDD", "D.M.YYYY"}
	dates := []time.Time{date(2024, 1, 5), date(1999, 12, 31), date(2024, 2, 29), date(2100, 6, 10)}

	for _, tmpl := range templates {
		for _, d := range dates {
			s, err := FormatWithTemplate(d, tmpl)
			require.NoError(t, err)

			got, err := ParseWithTemplate(s, tmpl)
			require.NoError(t, err, "%s with %s", s, tmpl)
			assert.Equal(t, d, got)
		}
	}
}

func TestFormatWithTemplate(t *testing.T) {
	s, err := FormatWithTemplate(date(2024, 3, 5), "DD.MM.YYYY")
	require.NoError(t, err)
	assert.Equal(t, "05.03.2024", s)

	s, err = FormatWithTemplate(date(2024, 3, 5), "D/M/YYYY")
	require.NoError(t, err)
	assert.Equal(t, "5/3/2024", s)

	_, err = FormatWithTemplate(date(2024, 3, 5), "nope")
	assert.Error(t, err)
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(time.February, 2024))
	assert.Equal(t, 28, DaysIn(time.February, 2023))
	assert.Equal(t, 28, DaysIn(time.February, 1900))
	assert.Equal(t, 29, DaysIn(time.February, 2000))
	assert.Equal(t, 30, DaysIn(time.April, 2024))
	assert.Equal(t, 31, DaysIn(time.December, 2024))
}

func TestToISODate(t *testing.T) {
	assert.Equal(t, "2024-01-15", ToISODate(date(2024, 1, 15)))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
