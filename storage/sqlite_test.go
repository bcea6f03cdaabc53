package storage

import (
	"context"
	"testing"
)

func newTestSqlite(t *testing.T) *SqliteStorage {
	t.Helper()
	s, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("failed to create in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSqliteSaveAndLoad(t *testing.T) {
	s := newTestSqlite(t)
	ctx := context.Background()

	history := []ChatRecord{
		{Role: "user", Content: "Minha agenda de amanhã?"},
		{Role: "assistant", Content: "Você tem duas reuniões."},
	}
	if err := s.Save(ctx, "sessao-1", history); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := s.Load(ctx, "sessao-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d records, want 2", len(loaded))
	}
	if loaded[0] != history[0] || loaded[1] != history[1] {
		t.Errorf("loaded = %v", loaded)
	}
}

func TestSqliteSaveReplacesHistory(t *testing.T) {
	s := newTestSqlite(t)
	ctx := context.Background()

	if err := s.Save(ctx, "s", []ChatRecord{{Role: "user", Content: "a"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "s", []ChatRecord{{Role: "user", Content: "b"}, {Role: "assistant", Content: "c"}}); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.Load(ctx, "s")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 || loaded[0].Content != "b" {
		t.Errorf("loaded = %v", loaded)
	}
}

func TestSqliteLoadMissingSession(t *testing.T) {
	s := newTestSqlite(t)

	loaded, err := s.Load(context.Background(), "inexistente")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded == nil || len(loaded) != 0 {
		t.Errorf("expected empty slice, got %v", loaded)
	}
}

func TestSqliteDeleteAndExists(t *testing.T) {
	s := newTestSqlite(t)
	ctx := context.Background()

	if err := s.Save(ctx, "s", []ChatRecord{{Role: "user", Content: "oi"}}); err != nil {
		t.Fatal(err)
	}

	exists, err := s.Exists(ctx, "s")
	if err != nil || !exists {
		t.Fatalf("exists = %v, err = %v", exists, err)
	}

	if err := s.Delete(ctx, "s"); err != nil {
		t.Fatal(err)
	}

	exists, err = s.Exists(ctx, "s")
	if err != nil || exists {
		t.Fatalf("after delete exists = %v, err = %v", exists, err)
	}
}

func TestSqliteDocumentSearch(t *testing.T) {
	s := newTestSqlite(t)
	ctx := context.Background()

	docs := []string{
		"O Blip é a plataforma de construção de chatbots usada pela SharkDev.",
		"Bots no Blip são organizados em fluxos de conversa.",
		"Vantagem no D&D 5e: role dois d20 e use o maior.",
	}
	for i, doc := range docs {
		collection := "shark_helper"
		if i == 2 {
			collection = "my_collection"
		}
		if err := s.AddDocument(ctx, collection, doc); err != nil {
			t.Fatal(err)
		}
	}

	results, err := s.SearchDocuments(ctx, "shark_helper", "blip fluxos", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %v", len(results), results)
	}
	// Both terms match the flows document, so it ranks first.
	if results[0] != docs[1] {
		t.Errorf("first result = %q", results[0])
	}

	// Collections are isolated.
	results, err = s.SearchDocuments(ctx, "shark_helper", "d20", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("cross-collection leak: %v", results)
	}
}

func TestSqliteDocumentSearchEmptyQuery(t *testing.T) {
	s := newTestSqlite(t)

	results, err := s.SearchDocuments(context.Background(), "shark_helper", "   ", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}
