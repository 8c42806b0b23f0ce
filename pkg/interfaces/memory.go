package interfaces

import "context"

// Memory represents a transcript store for conversations across turns
type Memory interface {
	// AddMessage adds a message to memory
	AddMessage(ctx context.Context, conversationID string, message Message) error

	// GetMessages retrieves the messages of a conversation in insertion order
	GetMessages(ctx context.Context, conversationID string) ([]Message, error)

	// Clear clears the conversation
	Clear(ctx context.Context, conversationID string) error
}
