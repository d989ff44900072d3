// Package session manages per-customer conversation history stored as JSONL
// files under the workspace data directory.
//
// File format:
//
//	Line 1:  {"_type":"metadata","key":"…","created_at":"…","updated_at":"…"}
//	Line 2+: one JSON message object per line
package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vendabot/vendabot/internal/schema"
)

// Manager loads and persists sessions, caching them in memory.
type Manager struct {
	sessionsDir string
	cache       sync.Map // key -> *Session
}

// NewManager creates a Manager rooted at dataDir, creating the sessions
// subdirectory if necessary.
func NewManager(dataDir string) (*Manager, error) {
	dir := filepath.Join(dataDir, "sessions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	return &Manager{sessionsDir: dir}, nil
}

// GetOrCreate returns the cached session for key, loading from disk if
// needed, or creating an empty one.
func (m *Manager) GetOrCreate(key string) *Session {
	if v, ok := m.cache.Load(key); ok {
		return v.(*Session)
	}

	s := m.load(key)
	if s == nil {
		s = &Session{
			Key:       key,
			Messages:  schema.NewMessages(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}

	actual, _ := m.cache.LoadOrStore(key, s)
	return actual.(*Session)
}

// Save writes the session to disk and updates the cache.
func (m *Manager) Save(s *Session) error {
	msgs, createdAt := s.snapshot()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	meta := map[string]any{
		"_type":      "metadata",
		"key":        s.Key,
		"created_at": createdAt.UTC().Format(time.RFC3339),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("encode session metadata: %w", err)
	}
	for _, msg := range msgs.Messages {
		if err := enc.Encode(messageToWire(msg)); err != nil {
			return fmt.Errorf("encode session message: %w", err)
		}
	}

	path := m.sessionPath(s.Key)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write session %s: %w", path, err)
	}

	m.cache.Store(s.Key, s)
	return nil
}

// Invalidate drops a session from the in-memory cache.
func (m *Manager) Invalidate(key string) {
	m.cache.Delete(key)
}

// wireMessage is the on-disk JSON shape of one message.
type wireMessage struct {
	Role       string   `json:"role"`
	Content    string   `json:"content"`
	SkillsUsed []string `json:"skills_used,omitempty"`
	Timestamp  string   `json:"timestamp"`
}

func messageToWire(msg schema.Message) wireMessage {
	return wireMessage{
		Role:       msg.Role,
		Content:    msg.Text(),
		SkillsUsed: msg.SkillsUsed,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

func wireToMessage(w wireMessage) schema.Message {
	c := w.Content
	return schema.Message{
		Role:       w.Role,
		Content:    &c,
		SkillsUsed: w.SkillsUsed,
	}
}

// sessionPath converts "whatsapp:+5511999999999" to a safe JSONL filename.
func (m *Manager) sessionPath(key string) string {
	name := safeFilename(strings.ReplaceAll(key, ":", "_"))
	return filepath.Join(m.sessionsDir, name+".jsonl")
}

func safeFilename(name string) string {
	const unsafe = `<>:"/\|?*`
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(unsafe, r) {
			b.WriteByte('_')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func (m *Manager) load(key string) *Session {
	f, err := os.Open(m.sessionPath(key))
	if err != nil {
		return nil
	}
	defer f.Close()

	messages := schema.NewMessages()
	var createdAt time.Time

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var probe map[string]any
		if err := json.Unmarshal(line, &probe); err != nil {
			slog.Warn("skipping malformed session line", "key", key, "err", err)
			continue
		}
		if probe["_type"] == "metadata" {
			if ts, ok := probe["created_at"].(string); ok {
				if t, err := time.Parse(time.RFC3339, ts); err == nil {
					createdAt = t
				}
			}
			continue
		}

		var w wireMessage
		if err := json.Unmarshal(line, &w); err != nil {
			slog.Warn("skipping malformed session message", "key", key, "err", err)
			continue
		}
		messages.Add(wireToMessage(w))
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("error reading session file", "key", key, "err", err)
		return nil
	}

	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &Session{
		Key:       key,
		Messages:  messages,
		CreatedAt: createdAt,
		UpdatedAt: time.Now(),
	}
}
