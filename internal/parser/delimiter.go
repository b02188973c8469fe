package parser

import (
	"encoding/csv"
	"strings"
)

// Candidates are the delimiters DetectDelimiter chooses from, in tie-break
// order.
var Candidates = []rune{',', ';', '\t'}

// DefaultDelimiter is used when no candidate yields more than one column.
const DefaultDelimiter = ','

const maxSampleRecords = 20

// DetectDelimiter picks the candidate that splits the most sample records
// into the same number of columns (more than one). Ties go to the candidate
// producing more columns, then to the earlier candidate.
func DetectDelimiter(sample string) rune {
	best, bestScore, bestColumns := rune(DefaultDelimiter), 0, 0
	for _, candidate := range Candidates {
		score, columns := scoreDelimiter(sample, candidate)
		if score == 0 {
			continue
		}
		if score > bestScore || (score == bestScore && columns > bestColumns) {
			best, bestScore, bestColumns = candidate, score, columns
		}
	}
	return best
}

// scoreDelimiter returns how many sample records share the modal field count
// and that count.
func scoreDelimiter(sample string, delim rune) (score, columns int) {
	r := csv.NewReader(strings.NewReader(sample))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	counts := make(map[int]int)
	for i := 0; i < maxSampleRecords; i++ {
		record, err := r.Read()
		if err != nil {
			break
		}
		counts[len(record)]++
	}

	for n, c := range counts {
		if n < 2 {
			continue
		}
		if c > score || (c == score && n > columns) {
			score, columns = c, n
		}
	}
	return score, columns
}

// DelimiterName renders a delimiter for display; tab becomes "\t".
func DelimiterName(delim rune) string {
	if delim == '\t' {
		return `\t`
	}
	return string(delim)
}
