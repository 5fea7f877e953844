// Package qa extracts question/answer pairs from a parsed questionnaire table.
package qa

import (
	"strings"

	"github.com/mkalinic/sitegen/internal/tabular"
)

// Pair is one questionnaire response. ID is the 1-based source row position,
// so a filtered list keeps gaps where blank rows were dropped.
type Pair struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Extract returns the pairs from the two selected columns, in source row
// order. Rows where either value trims to empty are skipped.
func Extract(t *tabular.Table, questionCol, answerCol string) []Pair {
	var pairs []Pair
	for i := range t.Rows {
		question := strings.TrimSpace(t.Value(i, questionCol))
		answer := strings.TrimSpace(t.Value(i, answerCol))
		if question == "" || answer == "" {
			continue
		}
		pairs = append(pairs, Pair{
			ID:       i + 1,
			Question: question,
			Answer:   answer,
		})
	}
	return pairs
}

// DetectColumns guesses which columns hold questions and answers. Best-effort:
// a column whose name contains "question" (or is exactly "q"), same for
// "answer"/"a", defaulting to the first two columns.
func DetectColumns(t *tabular.Table) (question, answer string) {
	question = matchColumn(t.Columns, "question", "q")
	answer = matchColumn(t.Columns, "answer", "a")
	if question == "" && len(t.Columns) > 0 {
		question = t.Columns[0]
	}
	if answer == "" {
		if len(t.Columns) > 1 {
			answer = t.Columns[1]
		} else {
			answer = question
		}
	}
	return question, answer
}

func matchColumn(columns []string, substr, exact string) string {
	for _, c := range columns {
		lower := strings.ToLower(strings.TrimSpace(c))
		if strings.Contains(lower, substr) || lower == exact {
			return c
		}
	}
	return ""
}
