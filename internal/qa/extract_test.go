package qa

import (
	"testing"

	"github.com/mkalinic/sitegen/internal/tabular"
)

func TestExtract_BasicScenario(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"question", "answer"},
		Rows: [][]string{
			{"What is your business?", "A bakery"},
			{"Do you sell online?", "Yes"},
		},
	}

	pairs := Extract(table, "question", "answer")
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	want := []Pair{
		{ID: 1, Question: "What is your business?", Answer: "A bakery"},
		{ID: 2, Question: "Do you sell online?", Answer: "Yes"},
	}
	for i, w := range want {
		if pairs[i] != w {
			t.Errorf("pair %d: expected %+v, got %+v", i, w, pairs[i])
		}
	}
}

func TestExtract_BlankRowsDroppedIDsKeepGaps(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"q", "a"},
		Rows: [][]string{
			{"Q1", "A1"},
			{"", "orphan answer"},
			{"orphan question", "   "},
			{"  Q4  ", "  A4  "},
		},
	}

	pairs := Extract(table, "q", "a")
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].ID != 1 || pairs[1].ID != 4 {
		t.Errorf("expected IDs 1 and 4, got %d and %d", pairs[0].ID, pairs[1].ID)
	}
	if pairs[1].Question != "Q4" || pairs[1].Answer != "A4" {
		t.Errorf("expected trimmed values, got %+v", pairs[1])
	}
}

func TestExtract_MissingColumnYieldsNothing(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"q"},
		Rows:    [][]string{{"Q1"}},
	}
	if pairs := Extract(table, "q", "missing"); len(pairs) != 0 {
		t.Errorf("expected no pairs, got %d", len(pairs))
	}
}

func TestDetectColumns(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		question string
		answer   string
	}{
		{"exact", []string{"Question", "Answer"}, "Question", "Answer"},
		{"embedded", []string{"Section", "Client Question", "Client Answer"}, "Client Question", "Client Answer"},
		{"single_letter", []string{"Q", "A"}, "Q", "A"},
		{"fallback_positional", []string{"col1", "col2"}, "col1", "col2"},
		{"one_column", []string{"only"}, "only", "only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &tabular.Table{Columns: tt.columns}
			q, a := DetectColumns(table)
			if q != tt.question || a != tt.answer {
				t.Errorf("expected (%q, %q), got (%q, %q)", tt.question, tt.answer, q, a)
			}
		})
	}
}

func TestDetectClientName(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"Client Name", "question", "answer"},
		Rows: [][]string{
			{"", "Q1", "A1"},
			{"Bakery & Co / Münich", "Q2", "A2"},
		},
	}
	if got := DetectClientName(table); got != "Bakery__Co__Mnich" {
		t.Errorf("unexpected client name: %q", got)
	}
}

func TestDetectClientName_RejectsURLLikeNames(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"site name", "answer"},
		Rows:    [][]string{{"https://example.com", "A"}},
	}
	if got := DetectClientName(table); got != "" {
		t.Errorf("expected empty client name for URL value, got %q", got)
	}
}

func TestDetectClientName_Truncates(t *testing.T) {
	long := "ThisClientNameIsLongEnoughToNeedTruncationSomewhere"
	table := &tabular.Table{
		Columns: []string{"client name"},
		Rows:    [][]string{{long}},
	}
	got := DetectClientName(table)
	if len(got) != 40 {
		t.Errorf("expected 40-rune name, got %d (%q)", len(got), got)
	}
}
