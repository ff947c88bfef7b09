// Package session keeps conversations in memory, keyed by session ID.
// Nothing here survives a restart: the transcript's lifetime is the
// session's lifetime.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/fleveque/stock-chat/internal/chat"
	"github.com/fleveque/stock-chat/internal/model"
)

// Session pairs an ID with its conversation. The conversation itself is a
// plain append-only log; the session adds the lock that serializes
// submissions when the HTTP host handles requests concurrently. Within one
// session, a submission is fully processed before the next one starts.
type Session struct {
	ID string

	mu   sync.Mutex
	conv *chat.Conversation
}

// Do runs fn with exclusive access to the session's conversation.
func (s *Session) Do(fn func(conv *chat.Conversation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.conv)
}

// Messages returns a snapshot of the session's transcript.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Messages()
}

// Store is the in-memory session registry.
// sync.RWMutex: lookups vastly outnumber creations, so readers share.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session with a generated ID.
func (st *Store) Create() *Session {
	s := &Session{
		ID:   uuid.NewString(),
		conv: chat.NewConversation(),
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	return s
}

// Get looks up a session by ID. The second return value follows the map
// access idiom: false means no such session.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Count returns the number of live sessions.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
