// Package history provides the in-memory conversation transcript.
package history

import (
	"errors"
	"sync"

	"github.com/thedracle/openai-chat/internal/models"
)

// ErrSystemMessage is returned when a caller tries to append a second
// system message.
var ErrSystemMessage = errors.New("history: system message may only open the conversation")

// History is an append-only, ordered list of messages.
// The first message is always the system persona; it is set once by New
// and cannot be removed or duplicated. History is safe for concurrent use.
type History struct {
	mu       sync.RWMutex
	messages []models.Message
}

// New creates a history opened by a single system message
func New(systemPrompt string) *History {
	return &History{
		messages: []models.Message{models.SystemMessage(systemPrompt)},
	}
}

// Append adds msg to the end of the conversation.
// Only user and assistant messages are accepted.
func (h *History) Append(msg models.Message) error {
	if msg.Role == models.RoleSystem {
		return ErrSystemMessage
	}
	if !msg.Role.Valid() {
		return errors.New("history: unknown role " + string(msg.Role))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
	return nil
}

// Snapshot returns a copy of the conversation taken under the lock
func (h *History) Snapshot() []models.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages, system message included
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Last returns the most recent message
func (h *History) Last() models.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.messages[len(h.messages)-1]
}

// LastAssistant returns the most recent assistant message, if any
func (h *History) LastAssistant() (models.Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := len(h.messages) - 1; i > 0; i-- {
		if h.messages[i].Role == models.RoleAssistant {
			return h.messages[i], true
		}
	}
	return models.Message{}, false
}

// Count returns how many messages have the given role
func (h *History) Count(role models.Role) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, m := range h.messages {
		if m.Role == role {
			n++
		}
	}
	return n
}
