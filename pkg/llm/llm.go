package llm

import "context"

// Role values for chat messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string
	Content string
}

// LLM represents a generic interface for interacting with chat models.
type LLM interface {
	// Query sends the conversation plus the new user text and returns the
	// model's reply.
	Query(ctx context.Context, history []Message, text string) (string, error)
}
