// Package storage provides conversation and knowledge-document storage.
//
// Information Hiding:
// - Storage backend implementation details hidden behind interfaces
// - Allows swapping between memory and SQLite without API changes
// - Each storage implementation encapsulates its own data structures

package storage

import (
	"context"
)

// ChatRecord is one raw history record as the UI/session layer stores it.
// Only "user" and "assistant" roles are persisted; the turn normalizer is
// lenient about anything else on the way back in.
type ChatRecord struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationStorage defines the interface for storing conversation history.
type ConversationStorage interface {
	// Save saves conversation history for a session.
	Save(ctx context.Context, sessionID string, history []ChatRecord) error

	// Load loads conversation history for a session.
	// Returns empty slice (not nil) if session doesn't exist.
	// Returns error only for storage failures, not missing sessions.
	Load(ctx context.Context, sessionID string) ([]ChatRecord, error)

	// Delete deletes conversation history for a session.
	Delete(ctx context.Context, sessionID string) error

	// ListSessions lists all session IDs.
	ListSessions(ctx context.Context) ([]string, error)

	// Exists checks if a session exists.
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// DocumentStorage is the knowledge-document store backing the knowledge
// tools. Documents live in named collections and are retrieved by keyword
// relevance.
type DocumentStorage interface {
	// AddDocument stores a document in a collection.
	AddDocument(ctx context.Context, collection, content string) error

	// SearchDocuments returns up to limit documents from the collection
	// matching the query, most relevant first.
	SearchDocuments(ctx context.Context, collection, query string, limit int) ([]string, error)
}
