package knowledge

import (
	"context"
	"testing"

	"github.com/vendabot/vendabot/internal/schema"
	"github.com/vendabot/vendabot/internal/store"
)

func newTestKnowledge(t *testing.T) *Store {
	t.Helper()
	db, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func seed(t *testing.T, s *Store, workspaceID string, items ...schema.KnowledgeItem) {
	t.Helper()
	for _, item := range items {
		if _, err := s.Add(context.Background(), workspaceID, item); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
}

func TestSearchMatchesTitleAndContent(t *testing.T) {
	s := newTestKnowledge(t)
	seed(t, s, "ws1",
		schema.KnowledgeItem{Title: "Plano Pro", Content: "R$ 99,90/mês, até 10 usuários", Category: "product"},
		schema.KnowledgeItem{Title: "Plano Básico", Content: "R$ 29,90/mês", Category: "product"},
		schema.KnowledgeItem{Title: "Caro demais", Content: "Mostre o valor por usuário", Category: "objection"},
	)

	res, err := s.Search(context.Background(), "ws1", "Pro", 10, "product")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TotalFound != 1 || len(res.Items) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if res.Items[0].Title != "Plano Pro" {
		t.Fatalf("item = %+v", res.Items[0])
	}

	// Content matches too.
	res, err = s.Search(context.Background(), "ws1", "usuários", 10, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TotalFound != 1 {
		t.Fatalf("content search found %d", res.TotalFound)
	}
}

func TestSearchEmptyQueryListsCategory(t *testing.T) {
	s := newTestKnowledge(t)
	seed(t, s, "ws1",
		schema.KnowledgeItem{Title: "Plano Pro", Category: "product"},
		schema.KnowledgeItem{Title: "Plano Básico", Category: "product"},
		schema.KnowledgeItem{Title: "Caro demais", Category: "objection"},
	)

	res, err := s.Search(context.Background(), "ws1", "", 10, "product")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TotalFound != 2 {
		t.Fatalf("TotalFound = %d", res.TotalFound)
	}
}

func TestSearchNoMatchIsEmptyNotError(t *testing.T) {
	s := newTestKnowledge(t)

	res, err := s.Search(context.Background(), "ws1", "inexistente", 10, "")
	if err != nil {
		t.Fatalf("empty result must not be an error: %v", err)
	}
	if len(res.Items) != 0 || res.TotalFound != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestSearchLimitKeepsTotal(t *testing.T) {
	s := newTestKnowledge(t)
	for i := 0; i < 5; i++ {
		seed(t, s, "ws1", schema.KnowledgeItem{Title: "Plano", Category: "product"})
	}

	res, err := s.Search(context.Background(), "ws1", "Plano", 2, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Items) != 2 || res.TotalFound != 5 {
		t.Fatalf("items=%d total=%d", len(res.Items), res.TotalFound)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	s := newTestKnowledge(t)
	seed(t, s, "ws1", schema.KnowledgeItem{
		Title:    "Plano Pro",
		Category: "product",
		Metadata: map[string]any{"price": 99.9, "currency": "BRL"},
	})

	res, err := s.Search(context.Background(), "ws1", "Pro", 1, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Items[0].Metadata["currency"] != "BRL" {
		t.Fatalf("metadata = %v", res.Items[0].Metadata)
	}
}

func TestWorkspaceIsolation(t *testing.T) {
	s := newTestKnowledge(t)
	seed(t, s, "ws1", schema.KnowledgeItem{Title: "Plano Pro", Category: "product"})

	res, err := s.Search(context.Background(), "ws2", "Plano", 10, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TotalFound != 0 {
		t.Fatalf("ws2 must not see ws1 items, got %d", res.TotalFound)
	}
}

func TestChunkText(t *testing.T) {
	text := "primeiro parágrafo\n\nsegundo parágrafo\n\nterceiro parágrafo"
	chunks := chunkText(text, 25)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if c == "" {
			t.Fatal("empty chunk")
		}
	}

	single := chunkText("curto", 100)
	if len(single) != 1 || single[0] != "curto" {
		t.Fatalf("single = %v", single)
	}
}
