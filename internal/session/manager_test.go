package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	s := m.GetOrCreate("whatsapp:+5511999990000")
	s.AddUser("Quanto custa o Plano Pro?")
	s.AddAssistantReply("R$ 99,90 por mês.", []string{"search_products"})
	if err := m.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Fresh manager forces a disk load.
	m2, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	loaded := m2.GetOrCreate("whatsapp:+5511999990000")
	if loaded.Len() != 2 {
		t.Fatalf("loaded %d messages", loaded.Len())
	}

	history := loaded.History(10)
	if history.Messages[0].Text() != "Quanto custa o Plano Pro?" {
		t.Fatalf("first message = %q", history.Messages[0].Text())
	}
	reply := history.Messages[1]
	if reply.Role != "assistant" || reply.Text() != "R$ 99,90 por mês." {
		t.Fatalf("reply = %+v", reply)
	}
	if len(reply.SkillsUsed) != 1 || reply.SkillsUsed[0] != "search_products" {
		t.Fatalf("skills = %v", reply.SkillsUsed)
	}
}

func TestGetOrCreateCachesInstance(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	a := m.GetOrCreate("cli:cli")
	b := m.GetOrCreate("cli:cli")
	if a != b {
		t.Fatal("same key must return the same session")
	}

	m.Invalidate("cli:cli")
	c := m.GetOrCreate("cli:cli")
	if a == c {
		t.Fatal("invalidated key must not hit the cache")
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	path := m.sessionPath("whatsapp:+5511888880000")
	raw := strings.Join([]string{
		`{"_type":"metadata","key":"whatsapp:+5511888880000","created_at":"2026-08-29T10:00:00Z"}`,
		`{"role":"user","content":"oi","timestamp":"2026-08-29T10:00:01Z"}`,
		`{not json at all`,
		`{"role":"assistant","content":"Olá!","timestamp":"2026-08-29T10:00:02Z"}`,
	}, "\n")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	s := m.GetOrCreate("whatsapp:+5511888880000")
	if s.Len() != 2 {
		t.Fatalf("loaded %d messages, want the 2 valid ones", s.Len())
	}
	if !s.CreatedAt.IsZero() && s.CreatedAt.Year() != 2026 {
		t.Fatalf("created at = %v", s.CreatedAt)
	}
}

func TestSessionPathIsSafe(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	path := m.sessionPath(`whatsapp:+55/11\99999?*`)
	base := filepath.Base(path)
	if strings.ContainsAny(base, `<>:"/\|?*`) {
		t.Fatalf("unsafe filename %q", base)
	}
	if filepath.Dir(path) != m.sessionsDir {
		t.Fatalf("session escaped its directory: %q", path)
	}
}
