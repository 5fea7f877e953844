package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Reason classifies why ingestion failed.
type Reason string

const (
	ReasonEmpty             Reason = "empty"
	ReasonNoDataAfterHeader Reason = "no_data_after_header"
	ReasonUnparseable       Reason = "unparseable"
)

// IngestError is returned when no parsing strategy produced a usable table.
type IngestError struct {
	Reason Reason
	Err    error
}

func (e *IngestError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return "csv file is empty: upload a file with data"
	case ReasonNoDataAfterHeader:
		return "csv file has no data after the header row: check that the file contains data"
	default:
		msg := "cannot parse csv file"
		if e.Err != nil {
			msg += fmt.Sprintf(": last error: %v", e.Err)
		}
		return msg + ": check that the file is valid csv with columns and data"
	}
}

func (e *IngestError) Unwrap() error { return e.Err }

type encoding int

const (
	encUTF8 encoding = iota
	encLatin1
	encISO8859
	encCP1252
)

// candidate is one (encoding, delimiter) parse attempt. The list order is the
// fallback order; the first acceptable result wins.
type candidate struct {
	enc   encoding
	delim rune
}

var parseCandidates = []candidate{
	{encUTF8, ','},
	{encUTF8, ';'},
	{encUTF8, '\t'},
	{encUTF8, '|'},
	{encLatin1, ','},
	{encLatin1, ';'},
	{encISO8859, ','},
	{encCP1252, ','},
}

var delimiters = []rune{',', ';', '\t', '|'}

var headerTokens = []string{"section", "question", "answer"}

// Parse ingests raw CSV bytes into a Table. It cascades through encoding and
// delimiter candidates and only fails once every strategy is exhausted.
func Parse(raw []byte) (*Table, error) {
	text := decodeText(raw)
	if strings.TrimSpace(text) == "" {
		return nil, &IngestError{Reason: ReasonEmpty}
	}

	lines := splitLines(text)
	headerRow := detectHeaderRow(lines)

	if headerRow > 0 && !hasDataAfter(lines, headerRow) {
		return nil, &IngestError{Reason: ReasonNoDataAfterHeader}
	}

	var lastErr error
	var weak *Table
	for _, c := range parseCandidates {
		decoded, err := decodeAs(raw, c.enc)
		if err != nil {
			lastErr = err
			continue
		}
		t, err := parseDelimited(decoded, c.delim, headerRow)
		if err != nil {
			lastErr = err
			continue
		}
		if len(t.Columns) >= 2 {
			return t, nil
		}
		if len(t.Columns) >= 1 && weak == nil {
			weak = t
		}
	}

	// Last resort: sniff the delimiter over the whole input.
	if t, err := sniffParse(text); err == nil {
		return t, nil
	} else if lastErr == nil {
		lastErr = err
	}

	// A single-column result from an earlier candidate is still a valid table.
	if weak != nil {
		return weak, nil
	}

	return nil, &IngestError{Reason: ReasonUnparseable, Err: lastErr}
}

// decodeText decodes for line scanning only: UTF-8 if valid, else Latin-1,
// which accepts any byte sequence.
func decodeText(raw []byte) string {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return string(raw)
	}
	s, err := charmap.ISO8859_1.NewDecoder().String(string(raw))
	if err != nil {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return s
}

func decodeAs(raw []byte, enc encoding) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	switch enc {
	case encUTF8:
		if !utf8.Valid(raw) {
			return "", errors.New("invalid utf-8")
		}
		return string(raw), nil
	case encLatin1, encISO8859:
		return charmap.ISO8859_1.NewDecoder().String(string(raw))
	case encCP1252:
		return charmap.Windows1252.NewDecoder().String(string(raw))
	}
	return "", fmt.Errorf("unknown encoding %d", enc)
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// detectHeaderRow scans top-down for the first line that mentions a
// questionnaire header token and looks delimited. Token lines with at least
// three columns are preferred over two-column ones, so a metadata line like
// "Client Questionnaire Export, v2" cannot shadow a real Section/Question/
// Answer header below it, while a bare two-column Question,Answer header
// behind metadata is still found. Failing both, the first line with at least
// three columns; failing that, line 0.
func detectHeaderRow(lines []string) int {
	for _, minDelims := range []int{2, 1} {
		for i, line := range lines {
			lower := strings.ToLower(strings.TrimSpace(line))
			if !containsAny(lower, headerTokens) {
				continue
			}
			if maxDelimCount(line) >= minDelims {
				return i
			}
		}
	}
	for i, line := range lines {
		if maxDelimCount(line) >= 2 {
			return i
		}
	}
	return 0
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

func maxDelimCount(line string) int {
	max := 0
	for _, d := range delimiters {
		if n := strings.Count(line, string(d)); n > max {
			max = n
		}
	}
	return max
}

func hasDataAfter(lines []string, headerRow int) bool {
	for _, line := range lines[headerRow+1:] {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

// parseDelimited parses decoded text with one delimiter, skipping rows before
// the detected header. Malformed rows are discarded rather than fatal.
func parseDelimited(decoded string, delim rune, skipRows int) (*Table, error) {
	lines := splitLines(decoded)
	if skipRows >= len(lines) {
		return nil, errors.New("header row beyond input")
	}
	body := strings.Join(lines[skipRows:], "\n")

	r := csv.NewReader(strings.NewReader(body))
	r.Comma = delim
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, errors.New("no parseable rows")
	}

	header := records[0]
	if len(header) == 0 {
		return nil, errors.New("no columns")
	}
	t := &Table{Columns: header}
	for _, rec := range records[1:] {
		row := make([]string, len(header))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// sniffParse guesses the delimiter from occurrence counts on the first
// non-blank lines and parses the whole input with it, no header skip.
func sniffParse(text string) (*Table, error) {
	sample := ""
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sample = line
		break
	}
	if sample == "" {
		return nil, errors.New("no content to sniff")
	}

	best := ','
	bestCount := 0
	for _, d := range delimiters {
		if n := strings.Count(sample, string(d)); n > bestCount {
			best = d
			bestCount = n
		}
	}
	if bestCount == 0 {
		return nil, errors.New("no delimiter detected")
	}
	return parseDelimited(text, best, 0)
}
