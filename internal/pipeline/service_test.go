package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mkalinic/sitegen/internal/config"
)

type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func testConfig() config.Config {
	return config.Config{
		MaxPromptPairs: 50,
		TreeMaxDepth:   6,
		GraphMaxDepth:  4,
		SessionTTL:     time.Hour,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const questionnaireCSV = "question,answer\nWhat is your business?,A bakery\nDo you sell online?,Yes\n"

const modelResponse = "Here is the sitemap:\n```xml\n<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">" +
	"<url><loc>https://bakery.example/</loc><priority>1.0</priority></url>" +
	"<url><loc>https://bakery.example/products</loc></url>" +
	"<url><loc>https://bakery.example/products/single-product</loc></url>" +
	"</urlset>\n```"

func TestServiceUploadAndGenerate(t *testing.T) {
	gen := &stubGenerator{response: modelResponse}
	svc := NewService(testConfig(), gen, testLogger())

	session, err := svc.Upload("questionnaire.csv", []byte(questionnaireCSV))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if session.QuestionColumn != "question" || session.AnswerColumn != "answer" {
		t.Errorf("column detection: got %q/%q", session.QuestionColumn, session.AnswerColumn)
	}

	result, err := svc.Generate(context.Background(), session.ID, "", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(result.URLs) != 3 {
		t.Fatalf("expected 3 urls, got %d", len(result.URLs))
	}
	if result.Summary.Questions != 2 || result.Summary.Pages != 3 {
		t.Errorf("unexpected summary: %+v", result.Summary)
	}
	if !strings.HasPrefix(result.XML, "<?xml") {
		t.Errorf("extracted XML missing declaration:\n%s", result.XML)
	}
	if !strings.Contains(result.TreeText, "products") {
		t.Errorf("tree text missing products node:\n%s", result.TreeText)
	}
	if session.Result() != result {
		t.Error("session must hold the new result")
	}
}

func TestServiceGenerate_FailurePreservesPreviousResult(t *testing.T) {
	gen := &stubGenerator{response: modelResponse}
	svc := NewService(testConfig(), gen, testLogger())

	session, err := svc.Upload("questionnaire.csv", []byte(questionnaireCSV))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	first, err := svc.Generate(context.Background(), session.ID, "", "")
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}

	gen.err = errors.New("quota exceeded")
	_, err = svc.Generate(context.Background(), session.ID, "", "")
	if err == nil {
		t.Fatal("expected generation error")
	}
	if session.Result() != first {
		t.Error("a failed regeneration must not clobber the previous result")
	}
}

func TestServiceGenerate_DegenerateResponseYieldsEmptyPages(t *testing.T) {
	gen := &stubGenerator{response: "I cannot produce a sitemap."}
	svc := NewService(testConfig(), gen, testLogger())

	session, _ := svc.Upload("questionnaire.csv", []byte(questionnaireCSV))
	result, err := svc.Generate(context.Background(), session.ID, "", "")
	if err != nil {
		t.Fatalf("degenerate model output must not be an error: %v", err)
	}
	if len(result.URLs) != 0 || result.Summary.Pages != 0 {
		t.Errorf("expected empty url list, got %+v", result.URLs)
	}
}

func TestServiceGenerate_NoPairs(t *testing.T) {
	gen := &stubGenerator{response: modelResponse}
	svc := NewService(testConfig(), gen, testLogger())

	session, err := svc.Upload("empty.csv", []byte("question,answer\n,\n ,  \n"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	_, err = svc.Generate(context.Background(), session.ID, "", "")
	if !errors.Is(err, ErrNoPairs) {
		t.Fatalf("expected ErrNoPairs, got %v", err)
	}
	if gen.calls != 0 {
		t.Error("model must not be called when there is nothing to send")
	}
}

func TestServiceGenerate_UnknownSession(t *testing.T) {
	svc := NewService(testConfig(), &stubGenerator{}, testLogger())
	_, err := svc.Generate(context.Background(), "missing", "", "")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestServiceGenerate_UnknownColumn(t *testing.T) {
	svc := NewService(testConfig(), &stubGenerator{response: modelResponse}, testLogger())
	session, _ := svc.Upload("questionnaire.csv", []byte(questionnaireCSV))
	_, err := svc.Generate(context.Background(), session.ID, "bogus", "answer")
	if !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestStoreCleanupEvictsIdleSessions(t *testing.T) {
	store := NewStore(10 * time.Millisecond)
	session := &Session{ID: "s1", UpdatedAt: time.Now().Add(-time.Minute)}
	store.Put(session)
	store.Cleanup()
	if store.Get("s1") != nil {
		t.Error("idle session should have been evicted")
	}
}

func TestNewSessionID(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	if len(a) != 26 || len(b) != 26 {
		t.Fatalf("expected 26-char ids, got %q and %q", a, b)
	}
	if a == b {
		t.Error("ids must be unique")
	}
}
