package tabular

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestParse_HeaderOnFirstLine(t *testing.T) {
	raw := []byte("question,answer\nWhat is your business?,A bakery\nDo you sell online?,Yes\n")
	table, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d (%v)", len(table.Columns), table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if got := table.Value(0, "question"); got != "What is your business?" {
		t.Errorf("row 0 question: got %q", got)
	}
	if got := table.Value(1, "answer"); got != "Yes" {
		t.Errorf("row 1 answer: got %q", got)
	}
}

func TestParse_MetadataRowsBeforeHeader(t *testing.T) {
	// Header tokens appear only after leading metadata rows.
	for _, n := range []int{0, 1, 3} {
		for _, m := range []int{1, 10} {
			t.Run(fmt.Sprintf("meta=%d_data=%d", n, m), func(t *testing.T) {
				var sb strings.Builder
				for i := 0; i < n; i++ {
					sb.WriteString(fmt.Sprintf("Export metadata line %d\n", i))
				}
				sb.WriteString("Question,Answer\n")
				for i := 0; i < m; i++ {
					sb.WriteString(fmt.Sprintf("Q%d,A%d\n", i, i))
				}

				table, err := Parse([]byte(sb.String()))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(table.Columns) != 2 {
					t.Fatalf("expected 2 columns, got %v", table.Columns)
				}
				if len(table.Rows) != m {
					t.Fatalf("expected %d rows, got %d", m, len(table.Rows))
				}
			})
		}
	}
}

func TestParse_TokenMetadataLineDoesNotShadowHeader(t *testing.T) {
	// A metadata line can mention a header token and contain a comma. The
	// real header below it has more columns and must still win.
	raw := []byte("Client Questionnaire Export, v2\nSection,Question,Answer\nGeneral,Q1,A1\n")
	table, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Section", "Question", "Answer"}
	if len(table.Columns) != len(want) {
		t.Fatalf("expected columns %v, got %v", want, table.Columns)
	}
	for i, c := range want {
		if table.Columns[i] != c {
			t.Errorf("column %d: expected %q, got %q", i, c, table.Columns[i])
		}
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
	if got := table.Value(0, "Question"); got != "Q1" {
		t.Errorf("row 0 question: got %q", got)
	}
}

func TestParse_EncodingDelimiterMatrix(t *testing.T) {
	// The same logical table in every supported (encoding, delimiter)
	// pairing must parse to the same columns and row count.
	type variant struct {
		name  string
		enc   *charmap.Charmap // nil means UTF-8
		delim string
	}
	variants := []variant{
		{"utf8_comma", nil, ","},
		{"utf8_semicolon", nil, ";"},
		{"utf8_tab", nil, "\t"},
		{"utf8_pipe", nil, "|"},
		{"latin1_comma", charmap.ISO8859_1, ","},
		{"latin1_semicolon", charmap.ISO8859_1, ";"},
		{"cp1252_comma", charmap.Windows1252, ","},
	}

	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			d := v.delim
			content := "Client Questionnaire Export\n" +
				strings.Join([]string{"Section", "Question", "Answer"}, d) + "\n" +
				strings.Join([]string{"General", "What do you sell?", "Café pastries"}, d) + "\n" +
				strings.Join([]string{"General", "Where?", "Münchenstraße"}, d) + "\n"

			raw := []byte(content)
			if v.enc != nil {
				encoded, err := v.enc.NewEncoder().String(content)
				if err != nil {
					t.Fatalf("encode fixture: %v", err)
				}
				raw = []byte(encoded)
			}

			table, err := Parse(raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := []string{"Section", "Question", "Answer"}
			if len(table.Columns) != len(want) {
				t.Fatalf("expected columns %v, got %v", want, table.Columns)
			}
			for i, c := range want {
				if table.Columns[i] != c {
					t.Errorf("column %d: expected %q, got %q", i, c, table.Columns[i])
				}
			}
			if len(table.Rows) != 2 {
				t.Fatalf("expected 2 rows, got %d", len(table.Rows))
			}
		})
	}
}

func TestParse_BOMDoesNotBreakParsing(t *testing.T) {
	raw := []byte("\xef\xbb\xbfquestion,answer\nQ,A\n")
	table, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Columns[0] != "question" {
		t.Errorf("expected BOM stripped from first column, got %q", table.Columns[0])
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte(""), []byte("   \n \n")} {
		_, err := Parse(raw)
		var ingestErr *IngestError
		if !errors.As(err, &ingestErr) {
			t.Fatalf("expected IngestError, got %v", err)
		}
		if ingestErr.Reason != ReasonEmpty {
			t.Errorf("expected ReasonEmpty, got %s", ingestErr.Reason)
		}
	}
}

func TestParse_NoDataAfterHeader(t *testing.T) {
	raw := []byte("Export metadata\nSection,Question,Answer\n\n   \n")
	_, err := Parse(raw)
	var ingestErr *IngestError
	if !errors.As(err, &ingestErr) {
		t.Fatalf("expected IngestError, got %v", err)
	}
	if ingestErr.Reason != ReasonNoDataAfterHeader {
		t.Errorf("expected ReasonNoDataAfterHeader, got %s", ingestErr.Reason)
	}
}

func TestParse_HeaderOnlyIsEmptyDataset(t *testing.T) {
	// A header with zero data rows is a valid empty table when it is the
	// first line.
	table, err := Parse([]byte("Question,Answer\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Columns) != 2 || len(table.Rows) != 0 {
		t.Fatalf("expected 2 columns / 0 rows, got %d/%d", len(table.Columns), len(table.Rows))
	}
}

func TestParse_MalformedRowsAreSkipped(t *testing.T) {
	raw := []byte("Section,Question,Answer\nGeneral,Q1,A1\n\"unterminated,Q2,A2\nGeneral,Q3,A3\n")
	table, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %v", table.Columns)
	}
	if len(table.Rows) == 0 {
		t.Fatal("expected at least the well-formed rows to survive")
	}
}

func TestParse_UndecodableBytesFallThrough(t *testing.T) {
	// 0xfe/0xff are invalid UTF-8; Latin-1 decoding must pick this up.
	raw := []byte("name,value\n\xfe\xff,ok\n")
	table, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
}

func TestTable_ValueMissingColumn(t *testing.T) {
	table := &Table{Columns: []string{"a"}, Rows: [][]string{{"1"}}}
	if got := table.Value(0, "nope"); got != "" {
		t.Errorf("expected empty value for unknown column, got %q", got)
	}
	if got := table.Value(5, "a"); got != "" {
		t.Errorf("expected empty value for out-of-range row, got %q", got)
	}
}
