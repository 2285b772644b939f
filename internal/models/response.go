package models

import apierrors "github.com/thedracle/openai-chat/internal/errors"

// Reply represents the complete response of one completion request
type Reply struct {
	ID      string
	Model   string
	Choices []Message

	// Token usage as reported by the endpoint, zero when absent
	PromptTokens     int
	CompletionTokens int
}

// First returns the first candidate choice.
// A reply without choices violates the completion API contract and
// yields an error wrapping apierrors.ErrNoChoices.
func (r *Reply) First() (Message, error) {
	if r == nil {
		return Message{}, apierrors.NewContractError("nil reply")
	}
	if len(r.Choices) == 0 {
		return Message{}, apierrors.NewContractError("reply contains no choices")
	}
	return r.Choices[0], nil
}

// TotalTokens returns prompt plus completion tokens
func (r *Reply) TotalTokens() int {
	if r == nil {
		return 0
	}
	return r.PromptTokens + r.CompletionTokens
}
