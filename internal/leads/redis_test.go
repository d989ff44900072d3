package leads

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/vendabot/vendabot/internal/schema"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStore(mr.Addr())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertMergesFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, "ws1", "+5511999990000", map[string]string{
		"name":     "Ana",
		"interest": "Plano Pro",
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	// A later partial update must not wipe earlier fields.
	if err := s.Upsert(ctx, "ws1", "+5511999990000", map[string]string{"stage": "negotiating"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	fields, err := s.Fields(ctx, "ws1", "+5511999990000")
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if fields["name"] != "Ana" || fields["interest"] != "Plano Pro" || fields["stage"] != "negotiating" {
		t.Fatalf("fields = %v", fields)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, note := range []string{"first contact", "asked about pricing", "sent payment link"} {
		err := s.AddInteraction(ctx, "ws1", "+5511999990000", schema.Interaction{
			At:   base.Add(time.Duration(i) * time.Hour),
			Kind: "lead_update",
			Note: note,
		})
		if err != nil {
			t.Fatalf("AddInteraction: %v", err)
		}
	}

	history, err := s.History(ctx, "ws1", "+5511999990000")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("len(history) = %d", len(history))
	}
	if history[0].Note != "sent payment link" || history[2].Note != "first contact" {
		t.Fatalf("history order: %+v", history)
	}
}

func TestHistoryEmptyForNewCustomer(t *testing.T) {
	s := newTestStore(t)

	history, err := s.History(context.Background(), "ws1", "+5500000000000")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("new customer must have empty history, got %+v", history)
	}
}

func TestLeadsAreScopedByWorkspace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, "ws1", "+55119", map[string]string{"name": "Ana"}); err != nil {
		t.Fatal(err)
	}
	fields, err := s.Fields(ctx, "ws2", "+55119")
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if len(fields) != 0 {
		t.Fatalf("workspace ws2 must not see ws1 leads, got %v", fields)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, err := Open("mongodb", "", ""); err == nil {
		t.Fatal("unknown backend must be rejected")
	}
}
