// In-memory conversation and document storage.
//
// Information Hiding:
// - Map storage structure hidden from users
// - Thread-safe access via RWMutex hidden behind interface
// - Suitable for testing and ephemeral sessions

package storage

import (
	"context"
	"strings"
	"sync"
)

// InMemoryStorage implements ConversationStorage and DocumentStorage using
// in-memory maps. Data is lost when the process terminates.
type InMemoryStorage struct {
	mu        sync.RWMutex
	sessions  map[string][]ChatRecord
	documents map[string][]string
}

// NewInMemoryStorage creates a new in-memory storage.
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		sessions:  make(map[string][]ChatRecord),
		documents: make(map[string][]string),
	}
}

// Save saves conversation history for a session.
func (s *InMemoryStorage) Save(ctx context.Context, sessionID string, history []ChatRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Make a copy to avoid external mutations
	copied := make([]ChatRecord, len(history))
	copy(copied, history)
	s.sessions[sessionID] = copied

	return nil
}

// Load loads conversation history for a session.
// Returns empty slice if session doesn't exist.
func (s *InMemoryStorage) Load(ctx context.Context, sessionID string) ([]ChatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.sessions[sessionID]
	if !ok {
		return []ChatRecord{}, nil
	}

	copied := make([]ChatRecord, len(history))
	copy(copied, history)
	return copied, nil
}

// Delete deletes conversation history for a session.
func (s *InMemoryStorage) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// ListSessions lists all session IDs.
func (s *InMemoryStorage) ListSessions(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.sessions))
	for sessionID := range s.sessions {
		sessions = append(sessions, sessionID)
	}
	return sessions, nil
}

// Exists checks if a session exists.
func (s *InMemoryStorage) Exists(ctx context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sessions[sessionID]
	return ok, nil
}

// AddDocument stores a document in a collection.
func (s *InMemoryStorage) AddDocument(ctx context.Context, collection, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[collection] = append(s.documents[collection], content)
	return nil
}

// SearchDocuments returns documents matching any query term.
func (s *InMemoryStorage) SearchDocuments(ctx context.Context, collection, query string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || limit <= 0 {
		return []string{}, nil
	}

	matches := []string{}
	for _, content := range s.documents[collection] {
		lower := strings.ToLower(content)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				matches = append(matches, content)
				break
			}
		}
		if len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// Verify InMemoryStorage implements both interfaces
var _ ConversationStorage = (*InMemoryStorage)(nil)
var _ DocumentStorage = (*InMemoryStorage)(nil)
