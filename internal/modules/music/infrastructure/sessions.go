package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/resonabot/resona/internal/modules/music/domain"
)

// MemorySessionStore is an in-memory implementation of domain.SessionStore.
// Sessions live for the process lifetime; per-session state is reset through
// the session itself, not by removal from the store.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[snowflake.ID]*domain.Session
}

// NewMemorySessionStore creates a new MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[snowflake.ID]*domain.Session),
	}
}

// Get returns the session for the guild, or nil if none exists.
func (s *MemorySessionStore) Get(guildID snowflake.ID) *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessions[guildID]
}

// GetOrCreate returns the session for the guild, creating one with default
// settings if none exists.
func (s *MemorySessionStore) GetOrCreate(guildID snowflake.ID) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[guildID]; ok {
		return session
	}
	session := domain.NewSession(guildID)
	s.sessions[guildID] = session
	return session
}

// Count returns the number of sessions (for testing/monitoring).
func (s *MemorySessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// Ensure MemorySessionStore implements domain.SessionStore.
var _ domain.SessionStore = (*MemorySessionStore)(nil)
