package session

import (
	"sync"
	"time"

	"github.com/vendabot/vendabot/internal/schema"
)

// Session holds one customer conversation. The engine only ever sees text
// messages from here; tool exchanges live inside a single turn and are
// audited separately.
type Session struct {
	Key       string
	Messages  schema.Messages
	CreatedAt time.Time
	UpdatedAt time.Time

	mu sync.Mutex
}

// AddUser appends a customer message.
func (s *Session) AddUser(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages.AddUser(content)
	s.UpdatedAt = time.Now()
}

// AddAssistantReply appends the agent's reply together with the skills that
// produced it, for later inspection of the transcript.
func (s *Session) AddAssistantReply(content string, skillsUsed []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := content
	s.Messages.Add(schema.Message{
		Role:       "assistant",
		Content:    &c,
		SkillsUsed: skillsUsed,
	})
	s.UpdatedAt = time.Now()
}

// History returns a snapshot of up to maxMessages trailing messages.
func (s *Session) History(maxMessages int) schema.Messages {
	s.mu.Lock()
	defer s.mu.Unlock()
	tail := s.Messages.Tail(maxMessages)
	return tail.Clone()
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Messages.Messages)
}

// Clear resets the conversation, keeping the session key.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = schema.NewMessages()
	s.UpdatedAt = time.Now()
}

// snapshot is used by the manager while holding no external locks.
func (s *Session) snapshot() (schema.Messages, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Messages.Clone(), s.CreatedAt
}
