// Package memory holds the engine's bounded, in-process conversation
// buffer (spec.md §4.5). It is deliberately small and local: entries are
// never embedded, indexed, or persisted by the engine itself (I5).
package memory

import (
	"sync"
	"time"
)

// Role discriminates who produced a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// Memory is an ordered, bounded FIFO buffer of Messages for one
// conversation. It is safe for concurrent use.
type Memory struct {
	mu         sync.Mutex
	messages   []Message
	maxEntries int
}

// New returns a Memory retaining at most maxEntries messages, evicting
// the oldest first. maxEntries <= 0 is treated as unbounded.
func New(maxEntries int) *Memory {
	return &Memory{maxEntries: maxEntries}
}

// Append adds a message, evicting the oldest entry if the cap is exceeded.
func (m *Memory) Append(role Role, content string, ts time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, Message{Role: role, Content: content, Timestamp: ts})
	if m.maxEntries > 0 && len(m.messages) > m.maxEntries {
		overflow := len(m.messages) - m.maxEntries
		m.messages = m.messages[overflow:]
	}
}

// Recent returns the last n messages in arrival order. n <= 0 or n greater
// than the current length returns the full buffer. The returned slice is
// a copy; callers may not mutate Memory through it.
func (m *Memory) Recent(n int) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n <= 0 || n > len(m.messages) {
		n = len(m.messages)
	}
	start := len(m.messages) - n
	out := make([]Message, n)
	copy(out, m.messages[start:])
	return out
}

// Len returns the current number of retained messages.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// Clear removes all messages.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
}
