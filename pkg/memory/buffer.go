package memory

import (
	"context"
	"sync"

	"github.com/agentflow-ai/agentflow/pkg/interfaces"
)

// Buffer is an in-process conversation store. It keeps full transcripts per
// conversation id, in insertion order. Safe for concurrent use.
type Buffer struct {
	mu            sync.RWMutex
	conversations map[string][]interfaces.Message
}

// NewBuffer creates an empty in-process conversation store
func NewBuffer() *Buffer {
	return &Buffer{
		conversations: make(map[string][]interfaces.Message),
	}
}

// AddMessage adds a message to a conversation
func (b *Buffer) AddMessage(ctx context.Context, conversationID string, message interfaces.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[conversationID] = append(b.conversations[conversationID], message)
	return nil
}

// GetMessages returns the messages of a conversation in insertion order
func (b *Buffer) GetMessages(ctx context.Context, conversationID string) ([]interfaces.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	messages := b.conversations[conversationID]
	out := make([]interfaces.Message, len(messages))
	copy(out, messages)
	return out, nil
}

// Clear removes a conversation
func (b *Buffer) Clear(ctx context.Context, conversationID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, conversationID)
	return nil
}
