package handlers

import (
	"sync"
	"time"

	"github.com/soundprediction/stix-qa/pkg/pipeline"
)

// OrchestratorFactory builds the orchestrator for a new session.
type OrchestratorFactory func() *pipeline.Orchestrator

// SessionStore keeps one orchestrator per browser session so the
// one-submission-at-a-time rule applies per user.
type SessionStore struct {
	factory OrchestratorFactory
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	orchestrator *pipeline.Orchestrator
	lastSeen     time.Time
}

// NewSessionStore creates a store. Sessions idle longer than idleTTL are
// dropped; zero keeps them forever.
func NewSessionStore(factory OrchestratorFactory, idleTTL time.Duration) *SessionStore {
	return &SessionStore{
		factory:  factory,
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Get returns the orchestrator for id, creating it on first use.
func (s *SessionStore) Get(id string) *pipeline.Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{orchestrator: s.factory()}
		s.sessions[id] = sess
	}
	sess.lastSeen = now
	return sess.orchestrator
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) evictLocked(now time.Time) {
	if s.idleTTL <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) <= s.idleTTL || sess.orchestrator.InFlight() {
			continue
		}
		if sess.orchestrator.State().Phase.Terminal() {
			delete(s.sessions, id)
		}
	}
}
