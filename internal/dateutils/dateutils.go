// Package dateutils parses and formats calendar dates against user-declared
// templates such as DD.MM.YYYY, MM/DD/YYYY or YYYY-MM-DD.
//
// Dates are date-only values: they are always built at UTC midnight so that
// no local timezone offset can shift them by a day.
package dateutils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"fjacquet/ledger-import/internal/parsererror"
)

// Year bounds accepted by ParseWithTemplate.
const (
	MinYear = 1900
	MaxYear = 2100
)

// DateLayoutISO is the Go layout for YYYY-MM-DD.
const DateLayoutISO = "2006-01-02"

type placeholder struct {
	letter byte // 'Y', 'M' or 'D'
	width  int
}

type template struct {
	parts []placeholder
	// compact is true when placeholders are adjacent (YYYYMMDD).
	compact bool
}

func (t template) fixedWidth() (int, bool) {
	total := 0
	for _, p := range t.parts {
		if p.letter != 'Y' && p.width != 2 {
			return 0, false
		}
		total += p.width
	}
	return total, true
}

func parseTemplate(raw string) (template, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return template{}, errors.New("date format is empty")
	}

	var t template
	separators := 0
	seen := map[byte]bool{}
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == 'Y' || c == 'M' || c == 'D':
			j := i
			for j < len(s) && s[j] == c {
				j++
			}
			if seen[c] {
				return template{}, fmt.Errorf("placeholder %c appears more than once", c)
			}
			seen[c] = true
			t.parts = append(t.parts, placeholder{letter: c, width: j - i})
			i = j
		case c < unicode.MaxASCII && (unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))):
			return template{}, fmt.Errorf("unsupported character %q in date format", c)
		default:
			separators++
			i++
		}
	}

	for _, p := range t.parts {
		switch {
		case p.letter == 'Y' && p.width != 4:
			return template{}, errors.New("year placeholder must be YYYY")
		case p.letter != 'Y' && p.width > 2:
			return template{}, fmt.Errorf("placeholder %s is not supported", strings.Repeat(string(p.letter), p.width))
		}
	}
	if !seen['Y'] || !seen['M'] || !seen['D'] {
		return template{}, errors.New("date format must contain YYYY, MM and DD")
	}
	t.compact = separators == 0
	return t, nil
}

// ValidateTemplate checks that a date template contains exactly one YYYY, one
// M/MM and one D/DD placeholder.
func ValidateTemplate(tmpl string) error {
	_, err := parseTemplate(tmpl)
	return err
}

// splitTokens returns the maximal alphanumeric runs of s.
func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ParseWithTemplate interprets raw according to tmpl. Invalid calendar dates
// (31 April, 29 February outside leap years) are rejected rather than rolled
// over. Failures are *parsererror.DateParseError.
func ParseWithTemplate(raw, tmpl string) (time.Time, error) {
	fail := func(reason string) (time.Time, error) {
		return time.Time{}, &parsererror.DateParseError{Reason: reason, Raw: raw, Template: tmpl}
	}

	t, err := parseTemplate(tmpl)
	if err != nil {
		return fail(err.Error())
	}

	tokens := splitTokens(raw)
	if len(tokens) == 1 && len(t.parts) > 1 && t.compact {
		width, ok := t.fixedWidth()
		if !ok || len(tokens[0]) != width {
			return fail(fmt.Sprintf("expected %d digits", width))
		}
		tokens = sliceByWidths(tokens[0], t.parts)
	}
	if len(tokens) != len(t.parts) {
		return fail(fmt.Sprintf("expected %d date parts, got %d", len(t.parts), len(tokens)))
	}

	var year, month, day int
	for i, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 0 {
			return fail(fmt.Sprintf("non-numeric date part '%s'", tok))
		}
		switch t.parts[i].letter {
		case 'Y':
			year = n
		case 'M':
			month = n
		case 'D':
			day = n
		}
	}

	if year < MinYear || year > MaxYear {
		return fail(fmt.Sprintf("year %d outside %d-%d", year, MinYear, MaxYear))
	}
	if month < 1 || month > 12 {
		return fail(fmt.Sprintf("month %d out of range", month))
	}
	if day < 1 || day > DaysIn(time.Month(month), year) {
		return fail(fmt.Sprintf("day %d out of range for month %d", day, month))
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

func sliceByWidths(token string, parts []placeholder) []string {
	out := make([]string, 0, len(parts))
	pos := 0
	for _, p := range parts {
		out = append(out, token[pos:pos+p.width])
		pos += p.width
	}
	return out
}

// DaysIn returns the number of days in month m of year y.
func DaysIn(m time.Month, y int) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FormatWithTemplate renders d using tmpl. Single-letter M and D placeholders
// are written without padding.
func FormatWithTemplate(d time.Time, tmpl string) (string, error) {
	if _, err := parseTemplate(tmpl); err != nil {
		return "", err
	}

	s := strings.ToUpper(strings.TrimSpace(tmpl))
	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c != 'Y' && c != 'M' && c != 'D' {
			b.WriteByte(c)
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == c {
			j++
		}
		var v int
		switch c {
		case 'Y':
			v = d.Year()
		case 'M':
			v = int(d.Month())
		case 'D':
			v = d.Day()
		}
		fmt.Fprintf(&b, "%0*d", j-i, v)
		i = j
	}
	return b.String(), nil
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.UTC().Format(DateLayoutISO)
}
