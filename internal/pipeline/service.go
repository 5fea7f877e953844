// Package pipeline runs the questionnaire-to-sitemap flow: uploaded CSVs are
// held in sessions, and each generation request runs the full chain
// synchronously against a session's table.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkalinic/sitegen/internal/config"
	"github.com/mkalinic/sitegen/internal/llm"
	"github.com/mkalinic/sitegen/internal/prompt"
	"github.com/mkalinic/sitegen/internal/qa"
	"github.com/mkalinic/sitegen/internal/sitemap"
	"github.com/mkalinic/sitegen/internal/sitetree"
	"github.com/mkalinic/sitegen/internal/tabular"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoPairs means the selected columns held no usable question/answer
	// rows. A warning-grade condition, not a parse failure.
	ErrNoPairs = errors.New("no valid question-answer pairs found")
	// ErrUnknownColumn means a requested column is not in the session's table.
	ErrUnknownColumn = errors.New("unknown column selection")
)

// Service owns the session store and the generation chain.
type Service struct {
	store *Store
	gen   llm.Generator
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	done   chan struct{}
}

func NewService(cfg config.Config, gen llm.Generator, log *slog.Logger) *Service {
	return &Service{
		store: NewStore(cfg.SessionTTL),
		gen:   gen,
		log:   log,
		cfg:   cfg,
	}
}

// Start launches the session cleanup loop.
func (s *Service) Start(ctx context.Context) {
	cleanupCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				s.store.Cleanup()
			}
		}
	}()
}

// Stop shuts down the cleanup loop.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

// Upload ingests a questionnaire CSV and registers a session for it. The
// returned session carries best-effort column and client-name detection.
func (s *Service) Upload(filename string, data []byte) (*Session, error) {
	table, err := tabular.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", filename, err)
	}

	questionCol, answerCol := qa.DetectColumns(table)
	now := time.Now()
	session := &Session{
		ID:             NewSessionID(),
		Filename:       filename,
		Table:          table,
		QuestionColumn: questionCol,
		AnswerColumn:   answerCol,
		ClientName:     qa.DetectClientName(table),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.store.Put(session)

	s.log.Info("session created",
		"session_id", session.ID,
		"filename", filename,
		"rows", len(table.Rows),
		"columns", len(table.Columns),
	)
	return session, nil
}

// Get returns a session by ID, or nil.
func (s *Service) Get(id string) *Session {
	return s.store.Get(id)
}

// Generate runs the whole chain for one session: extract pairs, build the
// prompt, call the model, recover the sitemap XML, parse it, and build the
// tree views. The session's previous result is replaced only on success.
func (s *Service) Generate(ctx context.Context, sessionID, questionCol, answerCol string) (*Result, error) {
	session := s.store.Get(sessionID)
	if session == nil {
		return nil, ErrSessionNotFound
	}
	session.touch()
	log := s.log.With("session_id", session.ID)

	if questionCol == "" {
		questionCol = session.QuestionColumn
	}
	if answerCol == "" {
		answerCol = session.AnswerColumn
	}
	if !session.Table.HasColumn(questionCol) || !session.Table.HasColumn(answerCol) {
		return nil, fmt.Errorf("%w: %q / %q", ErrUnknownColumn, questionCol, answerCol)
	}

	pairs := qa.Extract(session.Table, questionCol, answerCol)
	if len(pairs) == 0 {
		return nil, ErrNoPairs
	}
	log.Info("extracted pairs", "count", len(pairs))

	p := prompt.Build(pairs, s.cfg.MaxPromptPairs, time.Now())

	response, err := s.gen.Generate(ctx, p)
	if err != nil {
		log.Error("generation failed", "error", err)
		return nil, fmt.Errorf("sitemap generation: %w", err)
	}

	xmlText := sitemap.ExtractXML(response)
	urls := sitemap.Parse(xmlText)
	if len(urls) == 0 {
		log.Warn("no urls recovered from model response")
	}

	tree := sitetree.Build(urls)
	result := &Result{
		GeneratedAt: time.Now(),
		Pairs:       pairs,
		RawResponse: response,
		XML:         xmlText,
		URLs:        urls,
		TreeText:    sitetree.RenderText(tree, s.cfg.TreeMaxDepth),
		Graph:       sitetree.BuildGraph(tree, s.cfg.GraphMaxDepth),
		Summary: Summary{
			Questions: len(pairs),
			Pages:     len(urls),
			Rows:      len(session.Table.Rows),
			Columns:   len(session.Table.Columns),
		},
	}
	session.setResult(result)

	log.Info("sitemap generated", "pages", len(urls), "questions", len(pairs))
	return result, nil
}
