// Package models contains the data types shared by the chat client.
package models

// Role identifies who produced a conversation turn.
type Role string

// Conversation roles, matching the values the completion API expects.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultSystemPrompt is the persona message that opens every conversation.
const DefaultSystemPrompt = "You are a large language model built into a command line interface."

// Message represents one turn in the conversation.
// Messages are values; once appended to a history they are never edited.
type Message struct {
	Role    Role
	Content string
}

// SystemMessage returns a system-role message with the given content
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage returns a user-role message with the given content
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage returns an assistant-role message with the given content
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}
