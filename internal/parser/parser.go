package parser

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"fjacquet/ledger-import/internal/parsererror"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// DefaultSniffBytes bounds how much of a file is inspected for encoding and
// delimiter detection.
const DefaultSniffBytes = 64 * 1024

const bom = "\ufeff"

// Text is a decoded, UTF-8 view over an uploaded file.
type Text struct {
	// Reader yields the whole file as UTF-8 with any byte order mark removed.
	Reader *bufio.Reader
	// Encoding is the detected source encoding name, e.g. "utf-8".
	Encoding string
	// Sample is the decoded prefix used for detection, cut after the last
	// complete line unless it covers the whole file.
	Sample string
}

// Decode detects the text encoding of r from at most sniffBytes leading
// bytes and returns a UTF-8 reader over the full content. Input that looks
// binary is rejected with *parsererror.ParseError.
func Decode(r io.Reader, sniffBytes int) (*Text, error) {
	if sniffBytes <= 0 {
		sniffBytes = DefaultSniffBytes
	}

	raw := bufio.NewReaderSize(r, sniffBytes)
	peek, err := raw.Peek(sniffBytes)
	complete := false
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		complete = true
	default:
		return nil, &parsererror.ParseError{Reason: "could not read file", Err: err}
	}

	enc, name, certain := charset.DetermineEncoding(peek, "text/csv")
	if !certain {
		if bytes.IndexByte(peek, 0) >= 0 {
			return nil, &parsererror.ParseError{Reason: "not a text file"}
		}
		// DetermineEncoding only looks at the first KiB and never reports
		// pure ASCII as UTF-8.
		if utf8.Valid(trimPartialRune(peek)) {
			enc, name = encoding.Nop, "utf-8"
		}
	}

	sample, _, err := transform.Bytes(enc.NewDecoder(), peek)
	if err != nil {
		return nil, &parsererror.ParseError{Reason: "file is not decodable as " + name, Err: err}
	}
	s := strings.TrimPrefix(string(sample), bom)
	if !complete {
		if i := strings.LastIndexByte(s, '\n'); i >= 0 {
			s = s[:i+1]
		}
	}

	decoded := bufio.NewReader(transform.NewReader(raw, enc.NewDecoder()))
	if head, err := decoded.Peek(len(bom)); err == nil && string(head) == bom {
		_, _ = decoded.Discard(len(bom))
	}

	return &Text{Reader: decoded, Encoding: name, Sample: s}, nil
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i > len(b)-utf8.UTFMax; i-- {
		if b[i] < utf8.RuneSelf {
			break
		}
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}

// SampleAfter returns the detection sample without its first n lines.
func (t *Text) SampleAfter(n int) string {
	s := t.Sample
	for i := 0; i < n && s != ""; i++ {
		j := strings.IndexByte(s, '\n')
		if j < 0 {
			return ""
		}
		s = s[j+1:]
	}
	return s
}

// SkipLines consumes n physical lines from the decoded stream. Running out
// of input is not an error.
func (t *Text) SkipLines(n int) error {
	for i := 0; i < n; i++ {
		if _, err := t.Reader.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
	return nil
}
