package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
	"github.com/classroom-labs/coursechat-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// session is one conversation's bounded exchange log. Each session carries
// its own lock so concurrent writes to one session serialize without
// blocking unrelated sessions.
type session struct {
	mu        sync.Mutex
	exchanges []domain.Exchange
}

// SessionStore is an in-memory, per-conversation exchange log. Sessions
// are created on first use and live for the process lifetime.
type SessionStore struct {
	mu         sync.RWMutex
	sessions   map[string]*session
	maxHistory int
}

// NewSessionStore creates a session store keeping at most maxHistory
// exchanges per session. maxHistory <= 0 selects the default bound.
func NewSessionStore(maxHistory int) *SessionStore {
	if maxHistory <= 0 {
		maxHistory = domain.DefaultMaxHistory
	}
	return &SessionStore{
		sessions:   make(map[string]*session),
		maxHistory: maxHistory,
	}
}

// Create starts a new session and returns its id.
func (s *SessionStore) Create(_ context.Context) (string, error) {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &session{}
	return id, nil
}

// AddExchange appends one exchange and evicts the oldest entries beyond
// the bound. Unknown ids are created on first write.
func (s *SessionStore) AddExchange(_ context.Context, id, query, answer string) error {
	sess := s.getOrCreate(id)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.exchanges = append(sess.exchanges, domain.Exchange{Query: query, Answer: answer})
	if excess := len(sess.exchanges) - s.maxHistory; excess > 0 {
		sess.exchanges = sess.exchanges[excess:]
	}
	return nil
}

// History formats the session transcript for prompt injection. Unknown or
// empty sessions yield the empty string.
func (s *SessionStore) History(_ context.Context, id string) (string, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return "", nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var b strings.Builder
	for i, ex := range sess.exchanges {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "User: %s\nAssistant: %s", ex.Query, ex.Answer)
	}
	return b.String(), nil
}

// Exchanges returns a copy of the session's exchange log.
func (s *SessionStore) Exchanges(_ context.Context, id string) ([]domain.Exchange, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]domain.Exchange, len(sess.exchanges))
	copy(out, sess.exchanges)
	return out, nil
}

// Delete removes all state for the session.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) getOrCreate(id string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[id]; ok {
		return sess
	}
	sess = &session{}
	s.sessions[id] = sess
	return sess
}
