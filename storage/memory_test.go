package storage

import (
	"context"
	"testing"
)

func TestInMemorySaveLoadIsolation(t *testing.T) {
	s := NewInMemoryStorage()
	ctx := context.Background()

	history := []ChatRecord{{Role: "user", Content: "original"}}
	if err := s.Save(ctx, "s", history); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's slice must not affect stored history.
	history[0].Content = "mutado"

	loaded, err := s.Load(ctx, "s")
	if err != nil {
		t.Fatal(err)
	}
	if loaded[0].Content != "original" {
		t.Errorf("stored history mutated externally: %v", loaded)
	}

	// Mutating the loaded slice must not affect stored history either.
	loaded[0].Content = "mutado de novo"
	again, _ := s.Load(ctx, "s")
	if again[0].Content != "original" {
		t.Errorf("stored history mutated via load: %v", again)
	}
}

func TestInMemoryMissingSession(t *testing.T) {
	s := NewInMemoryStorage()

	loaded, err := s.Load(context.Background(), "nada")
	if err != nil {
		t.Fatal(err)
	}
	if loaded == nil || len(loaded) != 0 {
		t.Errorf("expected empty slice, got %v", loaded)
	}

	exists, err := s.Exists(context.Background(), "nada")
	if err != nil || exists {
		t.Errorf("exists = %v, err = %v", exists, err)
	}
}

func TestInMemoryDocumentSearch(t *testing.T) {
	s := NewInMemoryStorage()
	ctx := context.Background()

	s.AddDocument(ctx, "shark_helper", "O Blip integra com WhatsApp.")
	s.AddDocument(ctx, "shark_helper", "Documentos sem relação alguma.")

	results, err := s.SearchDocuments(ctx, "shark_helper", "whatsapp", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0] != "O Blip integra com WhatsApp." {
		t.Errorf("results = %v", results)
	}

	results, _ = s.SearchDocuments(ctx, "outra", "whatsapp", 5)
	if len(results) != 0 {
		t.Errorf("cross-collection leak: %v", results)
	}
}
