package pipeline

import (
	"sync"
	"time"

	"github.com/mkalinic/sitegen/internal/qa"
	"github.com/mkalinic/sitegen/internal/sitemap"
	"github.com/mkalinic/sitegen/internal/sitetree"
	"github.com/mkalinic/sitegen/internal/tabular"
)

// Result is one successful sitemap generation. It is immutable once built; a
// session only swaps its Result pointer on a new success, so a failed
// regeneration never disturbs what the user already has.
type Result struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Pairs       []qa.Pair      `json:"qa_pairs"`
	RawResponse string         `json:"-"`
	XML         string         `json:"xml"`
	URLs        []sitemap.URL  `json:"urls"`
	TreeText    string         `json:"tree_text"`
	Graph       sitetree.Graph `json:"graph"`
	Summary     Summary        `json:"summary"`
}

// Summary mirrors the statistics panel of the tool: questionnaire size versus
// generated page count.
type Summary struct {
	Questions int `json:"questions"`
	Pages     int `json:"pages"`
	Rows      int `json:"rows"`
	Columns   int `json:"columns"`
}

// Session holds one uploaded questionnaire and its latest successful result.
type Session struct {
	mu sync.Mutex

	ID       string
	Filename string

	Table          *tabular.Table
	QuestionColumn string
	AnswerColumn   string
	ClientName     string

	CreatedAt time.Time
	UpdatedAt time.Time

	result *Result
}

// Result returns the last successful generation, or nil.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) setResult(r *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = r
	s.UpdatedAt = time.Now()
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatedAt = time.Now()
}

// Snapshot is a JSON-safe view of session state.
type Snapshot struct {
	ID             string    `json:"session_id"`
	Filename       string    `json:"filename"`
	Columns        []string  `json:"columns"`
	Rows           int       `json:"rows"`
	QuestionColumn string    `json:"question_column"`
	AnswerColumn   string    `json:"answer_column"`
	ClientName     string    `json:"client_name,omitempty"`
	HasResult      bool      `json:"has_result"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:             s.ID,
		Filename:       s.Filename,
		Columns:        s.Table.Columns,
		Rows:           len(s.Table.Rows),
		QuestionColumn: s.QuestionColumn,
		AnswerColumn:   s.AnswerColumn,
		ClientName:     s.ClientName,
		HasResult:      s.result != nil,
		CreatedAt:      s.CreatedAt,
	}
}

// Store is a thread-safe in-memory session registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (s *Store) Put(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// Cleanup removes sessions idle for longer than the TTL.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, session := range s.sessions {
		session.mu.Lock()
		idle := now.Sub(session.UpdatedAt)
		session.mu.Unlock()
		if idle > s.ttl {
			delete(s.sessions, id)
		}
	}
}
