package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session identifies one chat conversation between a UI client and the
// concierge. The session id doubles as the conversation id in the store.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore is an in-process registry of live sessions. Conversation
// history itself lives in Redis; this only tracks which ids were issued.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Create issues a new session. An empty userID gets a generated one, the way
// the UI assigns an anonymous visitor id.
func (s *SessionStore) Create(userID string) *Session {
	if userID == "" {
		userID = uuid.NewString()
	}
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}
