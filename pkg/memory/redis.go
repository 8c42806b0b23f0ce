package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/agentflow-ai/agentflow/pkg/interfaces"
)

const defaultKeyPrefix = "agentflow:conversation:"

// RedisMemory is a Redis-backed conversation store. Each conversation is a
// list of JSON-encoded messages, so transcripts survive process restarts
// and can be shared across instances.
type RedisMemory struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisOption represents an option for configuring Redis memory
type RedisOption func(*RedisMemory)

// WithKeyPrefix sets the Redis key prefix for conversations
func WithKeyPrefix(prefix string) RedisOption {
	return func(m *RedisMemory) {
		m.keyPrefix = prefix
	}
}

// WithTTL sets an expiry on conversations, refreshed on every write
func WithTTL(ttl time.Duration) RedisOption {
	return func(m *RedisMemory) {
		m.ttl = ttl
	}
}

// NewRedis creates a Redis-backed conversation store
func NewRedis(client *redis.Client, options ...RedisOption) *RedisMemory {
	m := &RedisMemory{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *RedisMemory) key(conversationID string) string {
	return m.keyPrefix + conversationID
}

// AddMessage appends a message to a conversation
func (m *RedisMemory) AddMessage(ctx context.Context, conversationID string, message interfaces.Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	key := m.key(conversationID)
	if err := m.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	if m.ttl > 0 {
		if err := m.client.Expire(ctx, key, m.ttl).Err(); err != nil {
			return fmt.Errorf("failed to refresh conversation expiry: %w", err)
		}
	}
	return nil
}

// GetMessages returns the messages of a conversation in insertion order
func (m *RedisMemory) GetMessages(ctx context.Context, conversationID string) ([]interfaces.Message, error) {
	entries, err := m.client.LRange(ctx, m.key(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	messages := make([]interfaces.Message, 0, len(entries))
	for _, entry := range entries {
		var msg interfaces.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Clear removes a conversation
func (m *RedisMemory) Clear(ctx context.Context, conversationID string) error {
	if err := m.client.Del(ctx, m.key(conversationID)).Err(); err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}
	return nil
}
