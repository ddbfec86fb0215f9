package consultation

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"healthmate/internal/agent"
	"healthmate/internal/triage"
)

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrTriageIncomplete      = errors.New("triage is not complete")
	ErrSessionEmergency      = errors.New("session ended in an emergency")
	ErrNoSymptom             = errors.New("no primary symptom recorded")
	ErrAnalysisUnavailable   = errors.New("no analysis has been generated")
	ErrAssessmentUnavailable = errors.New("no diagnostic assessment has been generated")
)

// Session is one patient conversation. Its engine is not safe for concurrent
// use, so every access goes through mu.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu         sync.Mutex
	updatedAt  time.Time
	engine     *triage.Engine
	risk       *triage.RiskScore
	answers    []string
	assessment *triage.DiagnosticAssessment
	analysis   *agent.Result
}

func newSession(now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		updatedAt: now,
		engine:    triage.NewEngine(),
	}
}

func (s *Session) touch(now time.Time) { s.updatedAt = now }

// Store holds live sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*Session)}
}

func (st *Store) add(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

func (st *Store) Get(id uuid.UUID) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (st *Store) Delete(id uuid.UUID) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
